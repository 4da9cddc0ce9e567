// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "io"

// SelectedFile is a transcript the user picked for summarization. It only
// becomes eligible for submission after it passes validation.
type SelectedFile struct {
	// Name is the file name sent in the multipart part.
	Name string `json:"name" yaml:"name"`

	// Path is the local path, when the file came from disk.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Size is the byte size.
	Size int64 `json:"size" yaml:"size"`

	// MediaType is the declared media type (e.g. "application/pdf").
	MediaType string `json:"media_type" yaml:"media_type"`

	// Open returns the raw bytes. Each call yields a fresh reader.
	Open func() (io.ReadCloser, error) `json:"-" yaml:"-"`
}

// RequestState is the lifecycle state of a submission attempt.
type RequestState string

const (
	StateIdle      RequestState = "idle"
	StateInFlight  RequestState = "in_flight"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"
)

// ErrorKind classifies the cause of a user-facing error.
type ErrorKind string

const (
	ErrorValidation ErrorKind = "validation"
	ErrorHTTP       ErrorKind = "http"
	ErrorNetwork    ErrorKind = "network"
	ErrorTimeout    ErrorKind = "timeout"
)

// ErrorInfo is what the display layer shows when something went wrong.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}
