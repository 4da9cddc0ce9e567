// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reports PDF transcripts that appear or change in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/internal/transcript"
)

// HandleFunc processes one settled transcript. Calls are sequential.
type HandleFunc func(ctx context.Context, path string)

// Watcher debounces file events per path and hands each settled PDF to a
// single worker.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   HandleFunc
	log      logging.Logger

	started chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer // pending paths; an entry goes when its timer fires
}

func New(dir string, debounce time.Duration, handle HandleFunc, log logging.Logger) *Watcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		log:      log,
		started:  make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// Started is closed once the directory is being watched.
func (w *Watcher) Started() <-chan struct{} { return w.started }

// Run watches until ctx is done or the underlying watcher closes. It
// returns after the handler in progress, if any, has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	close(w.started)
	w.log.Info(ctx, "watching for transcripts", "dir", w.dir)

	return w.loop(ctx, fsw.Events, fsw.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ready := make(chan string)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case path := <-ready:
				w.handle(ctx, path)
			}
		}
	}()

	defer func() {
		w.mu.Lock()
		for path, t := range w.timers {
			t.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()
		close(done)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				w.forget(event.Name)
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				w.schedule(event.Name, ready, done)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "watcher error", "error", err)
		}
	}
}

// schedule (re)starts the quiet period of path. When it ends the path is
// dropped from the pending set and offered to the worker.
func (w *Watcher) schedule(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.timers[path] != t {
			// Superseded or forgotten after firing.
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-done:
		}
	})
	w.timers[path] = t
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// pending returns how many paths are waiting out their quiet period.
func (w *Watcher) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return transcript.IsPDFName(base)
}
