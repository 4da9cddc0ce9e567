// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the summarizer CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/transcript-summarizer/internal/config"
	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/internal/secrets"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appCfg is the effective configuration, resolved before any subcommand runs.
	appCfg types.Config

	// appLog writes to stderr at the configured level.
	appLog logging.Logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "summarizer",
	Short: "Summarize PDF transcripts with a summarization service",
	Long: `summarizer uploads PDF transcripts to a summarization service and shows
the returned summary. A single transcript opens an interactive view on a
terminal; several transcripts run in batch. Each summary is kept as a
downloadable export until the next submission or exit.

Configuration comes from summarizer.yaml, a .env file, and SUMMARIZER_*
environment variables. S3 credentials may also be placed in .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		appLog = log

		s, err := secrets.Load(cmd.Context(), ".secrets/", appLog)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			appLog.Debug(cmd.Context(), "loaded secrets", "keys", keys)
		}
		secrets.ApplyS3(s, &cfg.Export.S3)

		if cfg.Upload.UserAgent == types.DefaultUploadConfig().UserAgent {
			cfg.Upload.UserAgent = "summarizer/" + version
		}
		appCfg = cfg
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./summarizer.yaml or ~/.config/summarizer/summarizer.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("base-url", "", "summarization service base URL")
	pf.Duration("deadline", 0, "maximum duration of one summarization request")
	pf.String("export-backend", "", "where summary exports live: memory, file, or s3")

	viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	viper.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
	viper.BindPFlag(config.KeyBaseURL, pf.Lookup("base-url"))
	viper.BindPFlag(config.KeyDeadline, pf.Lookup("deadline"))
	viper.BindPFlag(config.KeyExportBackend, pf.Lookup("export-backend"))
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Init(viper.GetViper(), cfgFile)

	used, err := config.ReadFile(viper.GetViper())
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// httpClient returns the client every controller shares.
func httpClient() *http.Client {
	return &http.Client{Timeout: appCfg.Upload.Timeout}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
