// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload owns the lifecycle of summarization requests: file
// selection, the bounded network exchange, state for the display layer,
// and the export handle derived from each summary.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/internal/httputil"
	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/internal/validate"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// Snapshot is a consistent read-only view of the controller.
type Snapshot struct {
	State   types.RequestState
	File    *types.SelectedFile
	Summary string
	Export  *export.Handle
	Err     *types.ErrorInfo
}

// Controller runs at most one summarization request at a time. It is safe
// for concurrent use: a display loop may call Snapshot while Submit blocks
// in another goroutine.
type Controller struct {
	cfg      types.UploadConfig
	client   *http.Client
	exporter export.Exporter
	log      logging.Logger

	mu      sync.Mutex
	state   types.RequestState
	file    *types.SelectedFile
	summary string
	handle  *export.Handle
	errInfo *types.ErrorInfo
	cancel  context.CancelFunc
	closed  bool
}

// New returns an idle controller. A nil client gets one bounded by
// cfg.Timeout; a nil logger discards.
func New(cfg types.UploadConfig, client *http.Client, exp export.Exporter, log logging.Logger) *Controller {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		cfg:      cfg,
		client:   client,
		exporter: exp,
		log:      log,
		state:    types.StateIdle,
	}
}

// SelectFile validates f and makes it the file the next Submit sends.
// Accepting a file clears the previous summary, error, and export, and
// returns the controller to idle. A rejected file records a validation
// error and leaves the previous selection and state untouched.
func (c *Controller) SelectFile(ctx context.Context, f types.SelectedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == types.StateInFlight {
		return ErrInFlight
	}

	if err := validate.Validate(f, c.cfg); err != nil {
		c.errInfo = Info(err)
		c.log.Info(ctx, "transcript rejected", "file", f.Name, "reason", validate.ReasonOf(err))
		return err
	}

	if err := c.releaseLocked(ctx); err != nil {
		c.log.Warn(ctx, "releasing export", "error", err)
	}
	c.file = &f
	c.summary = ""
	c.errInfo = nil
	c.state = types.StateIdle
	c.log.Debug(ctx, "transcript selected", "file", f.Name, "size", f.Size)
	return nil
}

// Submit sends the selected file and blocks until exactly one outcome
// occurs: a response, a transport error, the deadline, or cancellation.
// It returns ErrNoFile or ErrInFlight without any effect when it cannot
// start. Otherwise the returned error is nil, *FileError, *HTTPError,
// *NetworkError, or *TimeoutError, matching the recorded state.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.state == types.StateInFlight:
		c.mu.Unlock()
		return ErrInFlight
	case c.file == nil:
		c.mu.Unlock()
		return ErrNoFile
	}

	file := *c.file
	if err := c.releaseLocked(ctx); err != nil {
		c.log.Warn(ctx, "releasing export", "error", err)
	}
	c.summary = ""
	c.errInfo = nil
	c.state = types.StateInFlight
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Deadline)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	log := c.log.With("file", file.Name)
	log.Info(ctx, "submitting transcript", "size", file.Size, "url", c.cfg.URL())
	start := time.Now()

	summary, err := c.send(reqCtx, file)

	var handle *export.Handle
	if err == nil {
		h, expErr := c.exporter.Create(ctx, []byte(summary), types.MediaTypeHTML)
		if expErr != nil {
			log.Warn(ctx, "creating export", "error", expErr)
		} else {
			handle = &h
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = nil

	if c.closed && err == nil {
		// Torn down while the response was landing.
		if handle != nil {
			if relErr := c.exporter.Release(ctx, *handle); relErr != nil {
				log.Warn(ctx, "releasing export", "error", relErr)
			}
			handle = nil
		}
		err = &TimeoutError{Err: context.Canceled}
	}

	if err != nil {
		c.state = types.StateFailed
		c.errInfo = Info(err)
		log.Warn(ctx, "submission failed", "kind", c.errInfo.Kind, "error", err, "elapsed", time.Since(start))
		return err
	}

	c.summary = summary
	c.handle = handle
	c.state = types.StateSucceeded
	log.Info(ctx, "summary received", "bytes", len(summary), "elapsed", time.Since(start))
	return nil
}

// send performs the HTTP exchange and classifies its outcome.
func (c *Controller) send(ctx context.Context, file types.SelectedFile) (string, error) {
	if file.Open == nil {
		return "", &FileError{Name: file.Name, Err: errors.New("no content")}
	}
	rc, err := file.Open()
	if err != nil {
		return "", &FileError{Name: file.Name, Err: err}
	}
	body, contentType, err := httputil.MultipartFile(c.cfg.FieldName, file.Name, file.MediaType, rc)
	rc.Close()
	if err != nil {
		return "", &FileError{Name: file.Name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL(), body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/html")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if !httputil.IsSuccess(resp.StatusCode) {
		return "", &HTTPError{Status: resp.StatusCode, Message: httputil.ErrorMessage(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(ctx, err)
	}
	return string(data), nil
}

// classify maps a transport error to TimeoutError when the request context
// ended or the client timed out, and NetworkError otherwise.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &TimeoutError{Err: ctxErr}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Err: err}
	}
	return &NetworkError{Err: err}
}

// Cancel aborts the in-flight request, if any. The blocked Submit returns
// a TimeoutError.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Teardown cancels any in-flight request and releases the live export.
// The controller accepts no further work.
func (c *Controller) Teardown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	return c.releaseLocked(ctx)
}

// releaseLocked releases the live export. The handle is dropped even when
// the exporter fails so a later export never overlaps it.
func (c *Controller) releaseLocked(ctx context.Context) error {
	if c.handle == nil {
		return nil
	}
	h := *c.handle
	c.handle = nil
	if err := c.exporter.Release(ctx, h); err != nil {
		return fmt.Errorf("releasing export %s: %w", h.ID, err)
	}
	return nil
}

// Snapshot returns the current state for display.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:   c.state,
		Summary: c.summary,
	}
	if c.file != nil {
		f := *c.file
		s.File = &f
	}
	if c.handle != nil {
		h := *c.handle
		s.Export = &h
	}
	if c.errInfo != nil {
		e := *c.errInfo
		s.Err = &e
	}
	return s
}

// State returns the current request state.
func (c *Controller) State() types.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Exporter returns the exporter handles are created with.
func (c *Controller) Exporter() export.Exporter {
	return c.exporter
}
