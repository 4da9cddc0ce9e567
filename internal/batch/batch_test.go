// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"+name+"\n"), 0o644))
	return path
}

// echoServer answers with a summary naming the uploaded file.
func echoServer(t *testing.T, delay time.Duration, inFlight, peak *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inFlight != nil {
			n := atomic.AddInt32(inFlight, 1)
			defer atomic.AddInt32(inFlight, -1)
			for {
				p := atomic.LoadInt32(peak)
				if n <= p || atomic.CompareAndSwapInt32(peak, p, n) {
					break
				}
			}
		}
		time.Sleep(delay)
		_, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, "<p>summary of %s</p>", hdr.Filename)
	}))
}

func testOptions(ts *httptest.Server, exp export.Exporter) Options {
	cfg := types.DefaultUploadConfig()
	cfg.BaseURL = ts.URL
	return Options{
		Upload:   cfg,
		Client:   ts.Client(),
		Exporter: exp,
	}
}

func TestOne_SavesSummary(t *testing.T) {
	ts := echoServer(t, 0, nil, nil)
	defer ts.Close()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	exp := export.NewCounting(export.NewMemory())

	opts := testOptions(ts, exp)
	opts.OutDir = out
	res := One(context.Background(), opts, writePDF(t, dir, "episode.pdf"))

	require.True(t, res.OK(), "unexpected error: %+v", res.Err)
	assert.Equal(t, "episode.pdf", res.Name)
	assert.Equal(t, "<p>summary of episode.pdf</p>", res.Summary)
	assert.Equal(t, filepath.Join(out, "episode-summary.html"), res.Saved)

	data, err := os.ReadFile(res.Saved)
	require.NoError(t, err)
	assert.Equal(t, res.Summary, string(data))
	assert.Equal(t, export.Stats{Created: 1, Released: 1}, exp.Stats())
}

func TestOne_RejectsNonPDF(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just notes"), 0o644))

	res := One(context.Background(), testOptions(ts, export.NewMemory()), path)
	require.False(t, res.OK())
	assert.Equal(t, types.ErrorValidation, res.Err.Kind)
	assert.Equal(t, "Only PDF files are allowed.", res.Err.Message)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestOne_MissingFile(t *testing.T) {
	ts := echoServer(t, 0, nil, nil)
	defer ts.Close()

	res := One(context.Background(), testOptions(ts, export.NewMemory()), filepath.Join(t.TempDir(), "gone.pdf"))
	require.False(t, res.OK())
	assert.Equal(t, types.ErrorValidation, res.Err.Kind)
}

func TestOne_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"transcript is empty"}`)
	}))
	defer ts.Close()

	res := One(context.Background(), testOptions(ts, export.NewMemory()), writePDF(t, t.TempDir(), "a.pdf"))
	require.False(t, res.OK())
	assert.Equal(t, types.ErrorHTTP, res.Err.Kind)
	assert.Equal(t, "transcript is empty", res.Err.Message)
	assert.Empty(t, res.Saved)
}

func TestMany_BoundsConcurrencyAndKeepsOrder(t *testing.T) {
	var inFlight, peak int32
	ts := echoServer(t, 50*time.Millisecond, &inFlight, &peak)
	defer ts.Close()
	dir := t.TempDir()
	exp := export.NewCounting(export.NewMemory())

	var paths []string
	for i := 0; i < 6; i++ {
		paths = append(paths, writePDF(t, dir, fmt.Sprintf("ep%d.pdf", i)))
	}

	opts := testOptions(ts, exp)
	opts.Parallel = 2

	var (
		mu   sync.Mutex
		seen []string
	)
	results := Many(context.Background(), opts, paths, func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Name)
	})

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		assert.True(t, r.OK())
		assert.Equal(t, fmt.Sprintf("<p>summary of ep%d.pdf</p>", i), r.Summary)
	}
	assert.Len(t, seen, len(paths))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 0, exp.Stats().Live())
}

func TestMany_MixedOutcomes(t *testing.T) {
	ts := echoServer(t, 0, nil, nil)
	defer ts.Close()
	dir := t.TempDir()
	txt := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(txt, []byte("text"), 0o644))

	results := Many(context.Background(), testOptions(ts, export.NewMemory()),
		[]string{writePDF(t, dir, "a.pdf"), txt, writePDF(t, dir, "c.pdf")}, nil)

	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())
}

func TestMany_Empty(t *testing.T) {
	assert.Empty(t, Many(context.Background(), Options{}, nil, nil))
}

func TestSummaryName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "summary.html"},
		{"episode.pdf", "episode-summary.html"},
		{"episode", "episode-summary.html"},
		{"ep.12.pdf", "ep.12-summary.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SummaryName(tt.in), tt.in)
	}
}
