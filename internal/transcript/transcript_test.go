// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcript

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

const minimalPDF = "%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantType string
	}{
		{"pdf by content", "episode.pdf", minimalPDF, types.MediaTypePDF},
		{"pdf content without extension", "episode", minimalPDF, types.MediaTypePDF},
		{"html", "notes.html", "<html><body>hi</body></html>", "text/html"},
		{"plain text", "notes.txt", "just words", "text/plain"},
		{"png", "cover.png", "\x89PNG\r\n\x1a\n0000", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)

			f, err := FromPath(p)
			require.NoError(t, err)
			assert.Equal(t, tt.file, f.Name)
			assert.Equal(t, p, f.Path)
			assert.Equal(t, int64(len(tt.content)), f.Size)
			assert.Equal(t, tt.wantType, f.MediaType)

			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromPath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = FromPath(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.pdf", minimalPDF)
	writeFile(t, dir, "A.PDF", minimalPDF)
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".hidden.pdf", minimalPDF)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.PDF"), filepath.Join(dir, "b.pdf")}, got)

	_, err = Discover(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
