// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transcript-summarizer/internal/batch"
	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/internal/watch"
	"github.com/pdiddy/transcript-summarizer/pkg/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Summarize PDF transcripts as they appear in a directory",
	Long: `Watch summarizes every PDF that is created or changed in dir once it
has been quiet for the debounce interval. Summaries are saved to --out-dir as
<name>-summary.html. One transcript is summarized at a time.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("out-dir", "", "directory for saved summaries (default from config: watch.out_dir)")
	watchCmd.Flags().Duration("debounce", 0, "quiet period before a changed file is submitted (default from config)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = appCfg.Watch.OutDir
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce == 0 {
		debounce = appCfg.Watch.Debounce
	}

	exp, err := export.New(ctx, appCfg.Export)
	if err != nil {
		return fmt.Errorf("creating exporter: %w", err)
	}
	defer exp.Close()

	opts := batch.Options{
		Upload:   appCfg.Upload,
		Client:   httpClient(),
		Exporter: exp,
		Log:      appLog,
		OutDir:   outDir,
	}

	out := cmd.OutOrStdout()
	handle := func(ctx context.Context, path string) {
		fmt.Fprintln(out, ui.FormatInfo("Summarizing "+path))
		r := batch.One(ctx, opts, path)
		if !r.OK() {
			fmt.Fprintln(out, ui.FormatError(r.Name+": "+r.Err.Message))
			return
		}
		if r.Saved != "" {
			fmt.Fprintln(out, ui.FormatSuccess(r.Name+" → "+r.Saved))
		} else {
			fmt.Fprintln(out, ui.FormatSuccess(r.Name))
		}
	}

	fmt.Fprintln(out, ui.FormatMuted("Watching "+dir+" (Ctrl+C to stop)"))
	if err := watch.New(dir, debounce, handle, appLog).Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.FormatMuted("Stopped"))
	return nil
}
