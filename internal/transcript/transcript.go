// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript turns files on disk into SelectedFile values.
package transcript

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// sniffLen is the number of leading bytes used for content detection.
const sniffLen = 512

// FromPath stats the file at path and declares its media type. The content
// is sniffed first; when sniffing is inconclusive the extension decides.
// The returned SelectedFile reopens path on every Open call.
func FromPath(path string) (types.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.SelectedFile{}, fmt.Errorf("reading transcript %s: %w", path, err)
	}
	if info.IsDir() {
		return types.SelectedFile{}, fmt.Errorf("transcript %s is a directory", path)
	}

	mediaType, err := detectMediaType(path)
	if err != nil {
		return types.SelectedFile{}, err
	}

	return types.SelectedFile{
		Name:      filepath.Base(path),
		Path:      path,
		Size:      info.Size(),
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// detectMediaType returns the bare media type (no parameters) of the file.
func detectMediaType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("reading transcript %s: %w", path, err)
	}

	detected := bareType(http.DetectContentType(buf[:n]))
	if detected != "application/octet-stream" && detected != "text/plain" {
		return detected, nil
	}
	if byExt := bareType(mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))); byExt != "" {
		return byExt, nil
	}
	return detected, nil
}

func bareType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return v
	}
	return mt
}

// Discover lists the PDF files directly inside dir, sorted by name.
// Hidden files are skipped.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsPDFName(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// IsPDFName reports whether name carries a .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
