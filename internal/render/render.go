// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render prepares summary HTML from the summarization service for
// display. The service output is untrusted: nothing here passes it through
// unchanged. Exports keep the original bytes; only what is shown is cleaned.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// dropped elements are removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Applet:   true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Base:     true,
	atom.Form:     true,
	atom.Input:    true,
	atom.Button:   true,
	atom.Textarea: true,
	atom.Select:   true,
	atom.Template: true,
	atom.Noscript: true,
}

// urlAttrs hold URLs and are checked against allowedSchemes.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"background": true,
	"cite":       true,
	"xlink:href": true,
}

var allowedSchemes = map[string]bool{
	"":       true,
	"http":   true,
	"https":  true,
	"mailto": true,
}

// Sanitize returns the body content of src with active content removed:
// scripts, styles, frames, embedded objects, forms, comments, foreign
// (SVG/MathML) subtrees, event-handler and style attributes, and URLs whose
// scheme is not http, https, or mailto. Control characters are removed from
// text and attribute values.
func Sanitize(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parsing summary HTML: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return "", nil
	}
	clean(body)

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("rendering summary HTML: %w", err)
		}
	}
	return b.String(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		case html.TextNode:
			c.Data = StripControls(c.Data)
		case html.ElementNode:
			if dropped[c.DataAtom] || c.Namespace != "" {
				n.RemoveChild(c)
				break
			}
			c.Attr = cleanAttrs(c.Attr)
			clean(c)
		}
		c = next
	}
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = strings.ToLower(a.Namespace) + ":" + key
		}
		switch {
		case strings.HasPrefix(key, "on"), key == "style", key == "srcdoc":
			continue
		case urlAttrs[key] && !safeURL(a.Val):
			continue
		}
		a.Val = StripControls(a.Val)
		kept = append(kept, a)
	}
	return kept
}

// StripControls removes C0 control characters other than newline and tab,
// DEL, and the C1 range from s. What remains cannot start a terminal escape
// sequence.
func StripControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

// safeURL reports whether v is relative or uses an allowed scheme. Control
// characters and whitespace are removed first, as browsers ignore them
// inside a scheme ("java\tscript:").
func safeURL(v string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, v)
	u, err := url.Parse(stripped)
	if err != nil {
		return false
	}
	return allowedSchemes[strings.ToLower(u.Scheme)]
}
