// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Aside: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Blockquote: true,
	atom.Pre: true, atom.Dl: true, atom.Figure: true, atom.Nav: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var headingLevel = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Text renders src as plain terminal text. Headings become "# " prefixed
// lines, list items become bullets, and everything Sanitize drops is
// skipped, so no markup or control sequence from the service reaches the
// terminal.
func Text(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parsing summary HTML: %w", err)
	}
	var w textWriter
	w.walk(doc)
	out := blankRuns.ReplaceAllString(w.b.String(), "\n\n")
	return strings.TrimSpace(out), nil
}

type textWriter struct {
	b     strings.Builder
	nl    int
	space bool
	last  byte
	lists []int // item counter per open list; -1 marks an unordered list
}

func (w *textWriter) walk(n *html.Node) {
	if n.Type == html.TextNode {
		w.text(StripControls(n.Data))
		return
	}
	if n.Type == html.ElementNode {
		if dropped[n.DataAtom] || n.DataAtom == atom.Head || n.Namespace != "" {
			return
		}
		switch n.DataAtom {
		case atom.Br:
			w.newline(1)
			return
		case atom.Hr:
			w.newline(2)
			w.write("────────")
			w.newline(2)
			return
		case atom.Ul:
			w.lists = append(w.lists, -1)
			defer w.popList()
		case atom.Ol:
			w.lists = append(w.lists, 0)
			defer w.popList()
		case atom.Li:
			w.newline(1)
			w.write(w.bullet())
		case atom.Tr:
			w.newline(1)
		case atom.Td, atom.Th:
			if w.nl == 0 && w.b.Len() > 0 {
				w.write(" | ")
			}
		}
		if lvl, ok := headingLevel[n.DataAtom]; ok {
			w.newline(2)
			w.write(strings.Repeat("#", lvl) + " ")
		} else if blocks[n.DataAtom] {
			w.newline(2)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if n.Type == html.ElementNode && blocks[n.DataAtom] {
		w.newline(2)
	}
}

func (w *textWriter) popList() {
	w.lists = w.lists[:len(w.lists)-1]
}

func (w *textWriter) bullet() string {
	if len(w.lists) == 0 {
		return "• "
	}
	indent := strings.Repeat("  ", len(w.lists)-1)
	top := len(w.lists) - 1
	if w.lists[top] < 0 {
		return indent + "• "
	}
	w.lists[top]++
	return fmt.Sprintf("%s%d. ", indent, w.lists[top])
}

func (w *textWriter) newline(n int) {
	if w.b.Len() == 0 {
		return
	}
	if n > w.nl {
		w.nl = n
	}
}

func (w *textWriter) text(data string) {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		if data != "" {
			w.space = true
		}
		return
	}
	if isSpace(data[0]) {
		w.space = true
	}
	w.write(strings.Join(fields, " "))
	if isSpace(data[len(data)-1]) {
		w.space = true
	}
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	if w.b.Len() > 0 {
		if w.nl > 0 {
			w.b.WriteString(strings.Repeat("\n", w.nl))
		} else if w.space && w.last != ' ' && w.last != '\n' {
			w.b.WriteByte(' ')
		}
	}
	w.nl = 0
	w.space = false
	w.b.WriteString(s)
	w.last = s[len(s)-1]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
