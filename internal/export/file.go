// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// File writes each export to <dir>/<id>.html with a <id>.yaml sidecar
// describing it.
type File struct {
	dir     string
	ownsDir bool
}

// NewFile returns a file exporter rooted at dir. An empty dir creates a
// private temp directory that Close removes.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "summarizer-exports-*")
		if err != nil {
			return nil, fmt.Errorf("creating export directory: %w", err)
		}
		return &File{dir: tmp, ownsDir: true}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Create(_ context.Context, data []byte, contentType string) (Handle, error) {
	id := uuid.NewString()
	path := f.dataPath(id)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Handle{}, fmt.Errorf("writing export %s: %w", id, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	h := Handle{
		ID:          id,
		URL:         (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}

	meta, err := yaml.Marshal(h)
	if err != nil {
		os.Remove(path)
		return Handle{}, fmt.Errorf("encoding export metadata: %w", err)
	}
	if err := os.WriteFile(f.metaPath(id), meta, 0o644); err != nil {
		os.Remove(path)
		return Handle{}, fmt.Errorf("writing export metadata %s: %w", id, err)
	}
	return h, nil
}

func (f *File) Open(_ context.Context, h Handle) (io.ReadCloser, error) {
	if !validID(h.ID) {
		return nil, ErrUnknownHandle
	}
	rc, err := os.Open(f.dataPath(h.ID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrUnknownHandle
	}
	return rc, err
}

func (f *File) Release(_ context.Context, h Handle) error {
	if !validID(h.ID) {
		return ErrUnknownHandle
	}
	err := os.Remove(f.dataPath(h.ID))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrUnknownHandle
	}
	if err != nil {
		return fmt.Errorf("removing export %s: %w", h.ID, err)
	}
	if err := os.Remove(f.metaPath(h.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing export metadata %s: %w", h.ID, err)
	}
	return nil
}

// readMeta loads the sidecar of a live handle.
func (f *File) readMeta(id string) (Handle, error) {
	if !validID(id) {
		return Handle{}, ErrUnknownHandle
	}
	data, err := os.ReadFile(f.metaPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return Handle{}, ErrUnknownHandle
	}
	if err != nil {
		return Handle{}, err
	}
	var h Handle
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Handle{}, fmt.Errorf("parsing export metadata %s: %w", id, err)
	}
	return h, nil
}

// Close removes the directory when the exporter created it.
func (f *File) Close() error {
	if !f.ownsDir {
		return nil
	}
	return os.RemoveAll(f.dir)
}

func (f *File) dataPath(id string) string { return filepath.Join(f.dir, id+".html") }
func (f *File) metaPath(id string) string { return filepath.Join(f.dir, id+".yaml") }

// validID keeps handle IDs from escaping the export directory.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
