// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/transcript-summarizer/internal/batch"
	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/internal/render"
	"github.com/pdiddy/transcript-summarizer/internal/transcript"
	"github.com/pdiddy/transcript-summarizer/internal/tui"
	"github.com/pdiddy/transcript-summarizer/internal/upload"
	"github.com/pdiddy/transcript-summarizer/pkg/ui"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [files...]",
	Short: "Summarize one or more PDF transcripts",
	Long: `Summarize uploads PDF transcripts to the summarization service.

With one transcript on a terminal, an interactive view opens. Keys:
  enter   summarize the selected transcript
  f       choose another file
  esc     cancel the running request
  c       copy the summary link
  s       save the summary to --output
  h       switch between text and HTML
  q       quit

With no arguments, a fuzzy picker lists the PDFs in --dir. With several
transcripts, or --plain, each summary is printed as it arrives and at most
--parallel requests run at once.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("dir", ".", "directory the picker lists PDFs from")
	summarizeCmd.Flags().String("output", "", "directory to save summaries to (<name>-summary.html)")
	summarizeCmd.Flags().Int("parallel", 4, "maximum requests in flight in batch mode")
	summarizeCmd.Flags().Bool("plain", false, "print results instead of opening the interactive view")
	summarizeCmd.Flags().Bool("html", false, "show sanitized HTML instead of the text rendering")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir, _ := cmd.Flags().GetString("dir")
	output, _ := cmd.Flags().GetString("output")
	parallel, _ := cmd.Flags().GetInt("parallel")
	plain, _ := cmd.Flags().GetBool("plain")
	showHTML, _ := cmd.Flags().GetBool("html")

	paths := args
	if len(paths) == 0 {
		picked, err := pickTranscript(dir)
		if err != nil {
			return err
		}
		if picked == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatInfo("Operation cancelled."))
			return nil
		}
		paths = []string{picked}
	}

	exp, err := export.New(ctx, appCfg.Export)
	if err != nil {
		return fmt.Errorf("creating exporter: %w", err)
	}
	defer exp.Close()

	interactive := len(paths) == 1 && !plain && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		return runInteractive(ctx, cmd, exp, paths[0], output, showHTML)
	}

	opts := batch.Options{
		Upload:   appCfg.Upload,
		Client:   httpClient(),
		Exporter: exp,
		Log:      appLog,
		OutDir:   output,
		Parallel: parallel,
	}
	var mu sync.Mutex
	results := batch.Many(ctx, opts, paths, func(r batch.Result) {
		mu.Lock()
		defer mu.Unlock()
		printResult(cmd.OutOrStdout(), r, showHTML)
	})

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d transcript(s) failed", failed, len(results))
	}
	return nil
}

func runInteractive(ctx context.Context, cmd *cobra.Command, exp export.Exporter, path, output string, showHTML bool) error {
	// Logs below warn would draw over the alternate screen.
	log := appLog
	if !cmd.Flags().Changed("log-level") {
		if quiet, err := logging.New(os.Stderr, "warn", appCfg.Log.Format); err == nil {
			log = quiet
		}
	}

	ctrl := upload.New(appCfg.Upload, httpClient(), exp, log)

	autoSubmit := false
	f, err := transcript.FromPath(path)
	if err != nil {
		return err
	}
	if err := ctrl.SelectFile(ctx, f); err == nil {
		autoSubmit = true
	}

	saveDir := output
	if saveDir == "" {
		saveDir = "."
	}
	return tui.Run(ctx, ctrl, tui.Options{
		SaveDir:    saveDir,
		AutoSubmit: autoSubmit,
		ShowHTML:   showHTML,
	})
}

// pickTranscript lets the user choose one PDF in dir. It returns "" when
// the user aborts.
func pickTranscript(dir string) (string, error) {
	paths, err := transcript.Discover(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no PDF transcripts in %s", dir)
	}

	idx, err := fuzzyfinder.Find(
		paths,
		func(i int) string { return filepath.Base(paths[i]) },
		fuzzyfinder.WithPromptString("transcript> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			info, err := os.Stat(paths[i])
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes\nModified: %s",
				paths[i], info.Size(), info.ModTime().Format("2006-01-02 15:04"))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", fmt.Errorf("picking transcript: %w", err)
	}
	return paths[idx], nil
}

// printResult writes one batch outcome. Service HTML is never printed as is.
func printResult(w io.Writer, r batch.Result, showHTML bool) {
	if !r.OK() {
		fmt.Fprintln(w, ui.FormatError(r.Name+": "+r.Err.Message))
		return
	}

	fmt.Fprintln(w, ui.FormatSuccess(r.Name))
	var (
		body string
		err  error
	)
	if showHTML {
		body, err = render.Sanitize(r.Summary)
	} else {
		body, err = render.Text(r.Summary)
	}
	if err != nil {
		fmt.Fprintln(w, ui.FormatWarning("Could not display the summary."))
	} else {
		fmt.Fprintln(w, body)
	}
	if r.Saved != "" {
		fmt.Fprintln(w, ui.FormatMuted("Saved "+r.Saved))
	}
	fmt.Fprintln(w)
}
