// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns summaries into transient downloadable handles.
// A handle lives from Create until Release; nothing reclaims it implicitly.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// ErrUnknownHandle is returned for handles that were never created or were
// already released.
var ErrUnknownHandle = errors.New("export: unknown or released handle")

// Handle is an opaque reference to one exported summary.
type Handle struct {
	ID string `json:"id" yaml:"id"`

	// URL is where the export can be fetched while the handle is live.
	URL string `json:"url" yaml:"url"`

	ContentType string    `json:"content_type" yaml:"content_type"`
	Size        int64     `json:"size" yaml:"size"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Exporter creates and releases handles. Create and Release must be paired
// by the caller.
type Exporter interface {
	// Create stores an exact copy of data and returns a live handle.
	Create(ctx context.Context, data []byte, contentType string) (Handle, error)

	// Open returns the exported bytes of a live handle.
	Open(ctx context.Context, h Handle) (io.ReadCloser, error)

	// Release frees the handle. Releasing an unknown handle returns
	// ErrUnknownHandle.
	Release(ctx context.Context, h Handle) error

	// Close frees resources owned by the exporter itself.
	Close() error
}

// New builds the exporter selected by cfg.Backend.
func New(ctx context.Context, cfg types.ExportConfig) (Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.ExportMemory:
		return NewMemory(), nil
	case types.ExportS3:
		s, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		f, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// Download saves a copy of a live handle to destPath. The copy is written to
// a temp file first and renamed into place.
func Download(ctx context.Context, exp Exporter, h Handle, destPath string) error {
	rc, err := exp.Open(ctx, h)
	if err != nil {
		return fmt.Errorf("opening export %s: %w", h.ID, err)
	}
	defer rc.Close()

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, rc)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
