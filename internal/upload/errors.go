// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"errors"
	"fmt"

	"github.com/pdiddy/transcript-summarizer/internal/render"
	"github.com/pdiddy/transcript-summarizer/internal/validate"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

var (
	// ErrNoFile is returned by Submit when no valid file is selected.
	ErrNoFile = errors.New("upload: no valid file selected")

	// ErrInFlight is returned when a request is already running.
	ErrInFlight = errors.New("upload: request already in flight")

	// ErrClosed is returned after Teardown.
	ErrClosed = errors.New("upload: controller torn down")
)

const (
	timeoutMessage = "Request timed out. Please try again."
	networkMessage = "Could not reach the summarization service. Check your connection and try again."
	genericMessage = "Something went wrong while summarizing the transcript."
)

// HTTPError is a non-2xx response from the service.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("summarization service returned HTTP %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure: the service was not reached or the
// connection broke.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("summarization request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the deadline passed or the request was cancelled.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("summarization request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// FileError means the selected transcript could not be read locally. No
// request was sent.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading transcript %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Info converts any submission or selection error into what the display
// layer shows. A raw internal message is never shown as is, and service
// messages lose their control characters. Errors of no known type are
// reported as network failures.
func Info(err error) *types.ErrorInfo {
	if err == nil {
		return nil
	}

	var (
		rej     *validate.RejectedError
		fileErr *FileError
		httpErr *HTTPError
		timeout *TimeoutError
		netErr  *NetworkError
	)
	switch {
	case errors.As(err, &rej):
		return &types.ErrorInfo{Kind: types.ErrorValidation, Message: rej.Message}
	case errors.As(err, &fileErr):
		return &types.ErrorInfo{
			Kind:    types.ErrorValidation,
			Message: fmt.Sprintf("Could not read %s. Select the file again.", render.StripControls(fileErr.Name)),
		}
	case errors.As(err, &httpErr):
		msg := render.StripControls(httpErr.Message)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", httpErr.Status)
		}
		return &types.ErrorInfo{Kind: types.ErrorHTTP, Message: msg}
	case errors.As(err, &timeout):
		return &types.ErrorInfo{Kind: types.ErrorTimeout, Message: timeoutMessage}
	case errors.As(err, &netErr):
		return &types.ErrorInfo{Kind: types.ErrorNetwork, Message: networkMessage}
	default:
		return &types.ErrorInfo{Kind: types.ErrorNetwork, Message: genericMessage}
	}
}
