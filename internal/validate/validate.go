// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a selected transcript against the upload
// constraints before any network activity takes place.
package validate

import (
	"errors"
	"fmt"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// Reason names why a file was rejected.
type Reason string

const (
	ReasonUnsupportedType Reason = "unsupported-type"
	ReasonTooLarge        Reason = "too-large"
)

// RejectedError is returned when a file fails validation.
type RejectedError struct {
	Reason Reason
	// Message is the user-facing explanation.
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Validate applies the rules in order and returns the first failure:
// the declared media type must equal cfg.AcceptedMediaType, then the size
// must not exceed cfg.MaxFileSize. It only looks at metadata.
func Validate(f types.SelectedFile, cfg types.UploadConfig) error {
	if f.MediaType != cfg.AcceptedMediaType {
		return &RejectedError{
			Reason:  ReasonUnsupportedType,
			Message: unsupportedMessage(cfg.AcceptedMediaType),
		}
	}
	if f.Size > cfg.MaxFileSize {
		return &RejectedError{
			Reason:  ReasonTooLarge,
			Message: fmt.Sprintf("File too large. Maximum size is %s.", formatSize(cfg.MaxFileSize)),
		}
	}
	return nil
}

// ReasonOf returns the rejection reason carried by err, or "" when err is
// not a validation failure.
func ReasonOf(err error) Reason {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

func unsupportedMessage(mediaType string) string {
	if mediaType == types.MediaTypePDF {
		return "Only PDF files are allowed."
	}
	return fmt.Sprintf("Only %s files are allowed.", mediaType)
}

// formatSize renders whole mebibytes as "10MB" and anything else in bytes.
func formatSize(n int64) string {
	if n >= types.MiB && n%types.MiB == 0 {
		return fmt.Sprintf("%dMB", n/types.MiB)
	}
	return fmt.Sprintf("%d bytes", n)
}
