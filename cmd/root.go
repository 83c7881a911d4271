// Package cmd implements the CLI commands for sdspull using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sdspull/core/catalog"
	"github.com/gaurav-prasanna/sdspull/core/config"
	"github.com/gaurav-prasanna/sdspull/core/pipeline"
	"github.com/gaurav-prasanna/sdspull/core/session"
)

// Exit codes. Session and catalog failures are fatal to a run and get
// their own codes; per-item download or validation failures never
// change the exit status.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitUsage        = 2
	ExitSession      = 3
	ExitFetch        = 4
	ExitEmptyCatalog = 5
)

// usageError marks flag and argument mistakes so they map to ExitUsage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs tags positional-argument validation failures as usage
// errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// Flag variables.
var (
	flagBaseURL   string
	flagCookie    string
	flagOutputDir string
	flagTimeout   time.Duration
	flagLogJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "sdspull",
	Short: "Download and verify safety data sheet PDFs",
	Long: `sdspull pulls the document catalog from the SDS portal with an
authenticated session cookie, downloads every PDF asset into a local
store, and sweeps the store for corrupt files.

The session cookie comes from --cookie, the SDSPULL_COOKIE environment
variable, or a .env file; obtaining it (interactive browser login) is
outside this tool.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Base URL of the remote host (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "Session cookie string (default: SDSPULL_COOKIE)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "Local store for downloaded PDFs (default: PDFs)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default: 30s)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Emit JSON log lines instead of text")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps run-fatal error classes to distinct exit codes.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue):
		return ExitUsage
	case errors.Is(err, session.ErrNoCredential):
		return ExitSession
	case errors.Is(err, catalog.ErrAuth),
		errors.Is(err, catalog.ErrTimeout),
		errors.Is(err, catalog.ErrNetwork):
		return ExitFetch
	case errors.Is(err, catalog.ErrParse),
		errors.Is(err, pipeline.ErrNoDocuments):
		return ExitEmptyCatalog
	default:
		return ExitError
	}
}

// setupLogging installs the process-wide slog handler.
func setupLogging() {
	var handler slog.Handler
	if flagLogJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig merges the environment-backed configuration with any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if cmd.Flags().Changed("cookie") {
		cfg.Cookie = flagCookie
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	return cfg
}

// newPipeline builds the pipeline for a command invocation.
func newPipeline(cfg config.Config) *pipeline.Pipeline {
	provider := session.Static{Session: session.Session{
		Cookie:    cfg.Cookie,
		UserAgent: cfg.UserAgent,
		Referer:   cfg.Referer,
	}}
	return pipeline.New(cfg, provider)
}
