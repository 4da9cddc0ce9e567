// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain paragraph", `<p>ok</p>`, `<p>ok</p>`},
		{"script removed", `<p>a</p><script>alert(1)</script><p>b</p>`, `<p>a</p><p>b</p>`},
		{"style element removed", `<style>p{color:red}</style><p>x</p>`, `<p>x</p>`},
		{"event handler removed", `<img src="cover.png" onerror="alert(1)">`, `<img src="cover.png"/>`},
		{"style attribute removed", `<p style="position:fixed">x</p>`, `<p>x</p>`},
		{"javascript href removed", `<a href="javascript:alert(1)">x</a>`, `<a>x</a>`},
		{"obfuscated javascript href removed", `<a href=" java&#x09;script:alert(1)">x</a>`, `<a>x</a>`},
		{"data src removed", `<img src="data:text/html;base64,PHNjcmlwdD4=">`, `<img/>`},
		{"https href kept", `<a href="https://example.com/ep1">ep</a>`, `<a href="https://example.com/ep1">ep</a>`},
		{"relative href kept", `<a href="#notes">n</a>`, `<a href="#notes">n</a>`},
		{"mailto kept", `<a href="mailto:host@example.com">m</a>`, `<a href="mailto:host@example.com">m</a>`},
		{"iframe removed", `<iframe src="https://evil.example"></iframe><p>x</p>`, `<p>x</p>`},
		{"form removed", `<form action="/steal"><input name="pw"></form><p>x</p>`, `<p>x</p>`},
		{"comment removed", `<p>x<!-- secret --></p>`, `<p>x</p>`},
		{"svg removed", `<svg onload="alert(1)"><circle r="1"/></svg><p>x</p>`, `<p>x</p>`},
		{"head dropped", `<html><head><title>T</title><script>1</script></head><body><h1>T</h1></body></html>`, `<h1>T</h1>`},
		{"nested content kept", `<ul><li><b>Guest:</b> Ada</li></ul>`, `<ul><li><b>Guest:</b> Ada</li></ul>`},
		{"text escaped", `<p>1 &lt; 2</p>`, `<p>1 &lt; 2</p>`},
		{"escape references stripped", "<h1>Summary</h1><p>&#x1b;]0;owned&#x07;&#x1b;[2Jred</p>", `<h1>Summary</h1><p>]0;owned[2Jred</p>`},
		{"raw escapes stripped", "<p>\x1b[31mred\x1b[0m\u009b2J</p>", `<p>[31mred[0m2J</p>`},
		{"attribute controls stripped", "<a title=\"a\x1b]52;c;cHduZWQ=\x07b\">x</a>", `<a title="a]52;c;cHduZWQ=b">x</a>`},
		{"empty", ``, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeURL(t *testing.T) {
	assert.True(t, safeURL(""))
	assert.True(t, safeURL("/relative/path"))
	assert.True(t, safeURL("HTTPS://EXAMPLE.COM"))
	assert.False(t, safeURL("JavaScript:alert(1)"))
	assert.False(t, safeURL("vbscript:msgbox"))
	assert.False(t, safeURL("file:///etc/passwd"))
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph", `<p>ok</p>`, "ok"},
		{"inline markup", `<p>Hello <b>world</b>!</p>`, "Hello world!"},
		{"whitespace collapsed", "<p>  many\n\n   spaces\there </p>", "many spaces here"},
		{"paragraphs separated", `<p>one</p><p>two</p>`, "one\n\ntwo"},
		{"headings", `<h1>Episode 12</h1><h2>Key points</h2><p>x</p>`, "# Episode 12\n\n## Key points\n\nx"},
		{"unordered list", `<ul><li>alpha</li><li>beta</li></ul>`, "• alpha\n• beta"},
		{"ordered list", `<ol><li>first</li><li>second</li></ol>`, "1. first\n2. second"},
		{"nested list", `<ul><li>a<ul><li>b</li></ul></li></ul>`, "• a\n\n  • b"},
		{"line break", `<p>a<br>b</p>`, "a\nb"},
		{"script skipped", `<p>a</p><script>alert("x")</script>`, "a"},
		{"style skipped", `<head><style>p{}</style></head><p>a</p>`, "a"},
		{"table", `<table><tr><th>Who</th><th>What</th></tr><tr><td>Ada</td><td>Host</td></tr></table>`, "Who | What\nAda | Host"},
		{"entities decoded", `<p>Q&amp;A &mdash; part 1</p>`, "Q&A — part 1"},
		{"escape references stripped", "<h1>Summary</h1><p>&#x1b;]0;owned&#x07;&#x1b;[2J\x1b[31mred</p>", "# Summary\n\n]0;owned[2J[31mred"},
		{"c1 and del stripped", "<p>a\u009b31m\x7fb</p>", "a31mb"},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripControls(t *testing.T) {
	assert.Equal(t, "line\n\tindented", StripControls("line\n\tindented"))
	assert.Equal(t, "]0;title", StripControls("\x1b]0;title\x07"))
	assert.Equal(t, "ab", StripControls("a\x00\x1f\x7f\u0080\u009fb"))
	assert.Equal(t, "café ›", StripControls("café ›"))
}

func TestRenderers_NoTerminalControls(t *testing.T) {
	hostile := "<p>&#x1b;[2J&#x1b;]52;c;cHduZWQ=&#x07;\x1b[?1049h\u009b0m</p><a href=\"https://example.com\" title=\"\x1b[5m\">l</a>"
	text, err := Text(hostile)
	require.NoError(t, err)
	sanitized, err := Sanitize(hostile)
	require.NoError(t, err)

	for _, out := range []string{text, sanitized} {
		assert.NotContains(t, out, "\x1b")
		assert.NotContains(t, out, "\a")
		assert.NotContains(t, out, "\u009b")
	}
}
