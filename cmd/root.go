// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/shameladocx/internal/config"
	"github.com/gaurav-prasanna/shameladocx/internal/log"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagEnvFile   string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "shameladocx",
	Short: "shameladocx — download a shamela.ws book as one document",
	Long: `shameladocx fetches every chapter of a book on shamela.ws and combines them
into a single right-to-left document (DOCX by default; PDF, EPUB, Markdown or JSON).

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML file (--config)
  3. .env file (--env-file, or .env in the current directory)
  4. SHAMELADOCX_* environment variables
  5. Command line flags

Usage:
  shameladocx convert <url> [flags]
  shameladocx serve [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which aborts any in-flight request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig loads the layered configuration and applies the persistent
// flags. override applies command-specific flags before validation.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(flagConfig, flagEnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Normalise(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes logs to stderr so stdout stays free for progress lines.
func newLogger(cfg *config.Config) *slog.Logger {
	return log.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
}
