// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs non-interactive select-and-submit cycles, one upload
// controller per transcript.
package batch

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/internal/transcript"
	"github.com/pdiddy/transcript-summarizer/internal/upload"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// Options configures a run.
type Options struct {
	Upload   types.UploadConfig
	Client   *http.Client
	Exporter export.Exporter
	Log      logging.Logger

	// OutDir receives <name>-summary.html for each success. Empty skips saving.
	OutDir string

	// Parallel bounds how many requests are in flight. Values below 1 mean 1.
	Parallel int
}

// Result is the outcome of one transcript.
type Result struct {
	Path    string
	Name    string
	Summary string

	// Saved is the path the summary was written to, if any.
	Saved string

	Err *types.ErrorInfo
}

// OK reports whether the transcript was summarized.
func (r Result) OK() bool { return r.Err == nil }

// One summarizes the transcript at path with a fresh controller and tears
// it down before returning, so no export outlives the call.
func One(ctx context.Context, opts Options, path string) Result {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	res := Result{Path: path, Name: filepath.Base(path)}

	f, err := transcript.FromPath(path)
	if err != nil {
		log.Warn(ctx, "reading transcript", "path", path, "error", err)
		res.Err = &types.ErrorInfo{Kind: types.ErrorValidation, Message: "Could not read the file."}
		return res
	}

	ctrl := upload.New(opts.Upload, opts.Client, opts.Exporter, log)
	defer func() {
		if err := ctrl.Teardown(context.WithoutCancel(ctx)); err != nil {
			log.Warn(ctx, "tearing down", "path", path, "error", err)
		}
	}()

	if err := ctrl.SelectFile(ctx, f); err != nil {
		res.Err = upload.Info(err)
		return res
	}
	if err := ctrl.Submit(ctx); err != nil {
		res.Err = upload.Info(err)
		return res
	}

	snap := ctrl.Snapshot()
	res.Summary = snap.Summary

	if opts.OutDir != "" && snap.Export != nil {
		dest := filepath.Join(opts.OutDir, SummaryName(res.Name))
		if err := export.Download(ctx, opts.Exporter, *snap.Export, dest); err != nil {
			log.Warn(ctx, "saving summary", "path", dest, "error", err)
		} else {
			res.Saved = dest
		}
	}
	return res
}

// Many summarizes paths with at most opts.Parallel requests in flight.
// Results keep the order of paths. onResult, when set, is called as each
// transcript finishes; calls are not concurrent.
func Many(ctx context.Context, opts Options, paths []string, onResult func(Result)) []Result {
	results := make([]Result, len(paths))
	done := make(chan int, len(paths))

	var g errgroup.Group
	g.SetLimit(max(opts.Parallel, 1))

	go func() {
		for i, p := range paths {
			i, p := i, p
			g.Go(func() error {
				results[i] = One(ctx, opts, p)
				done <- i
				return nil
			})
		}
		g.Wait()
		close(done)
	}()

	for i := range done {
		if onResult != nil {
			onResult(results[i])
		}
	}
	return results
}

// SummaryName is the file name a saved summary gets for a transcript name.
func SummaryName(name string) string {
	if name == "" {
		return "summary.html"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "-summary.html"
}
