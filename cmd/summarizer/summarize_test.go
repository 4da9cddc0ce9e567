// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/transcript-summarizer/internal/batch"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

func TestPrintResult(t *testing.T) {
	summary := `<h2>Highlights</h2><ul><li>One</li></ul><script>alert(1)</script>`

	tests := []struct {
		name     string
		result   batch.Result
		html     bool
		contains []string
		excludes []string
	}{
		{
			name:     "text rendering",
			result:   batch.Result{Name: "ep.pdf", Summary: summary, Saved: "out/ep-summary.html"},
			contains: []string{"ep.pdf", "Highlights", "• One", "Saved out/ep-summary.html"},
			excludes: []string{"<h2>", "alert"},
		},
		{
			name:     "sanitized html",
			result:   batch.Result{Name: "ep.pdf", Summary: summary},
			html:     true,
			contains: []string{"<h2>Highlights</h2>", "<li>One</li>"},
			excludes: []string{"script", "Saved"},
		},
		{
			name: "failure",
			result: batch.Result{Name: "ep.pdf", Err: &types.ErrorInfo{
				Kind: types.ErrorTimeout, Message: "Request timed out. Please try again.",
			}},
			contains: []string{"ep.pdf: Request timed out. Please try again."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printResult(&buf, tt.result, tt.html)
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "summarizer dev\n", buf.String())
}
