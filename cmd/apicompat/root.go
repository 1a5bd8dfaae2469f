package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/apicompat/config"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apicompat",
	Short: "Backward-compatibility checker for versioned command definitions",
	Long: `apicompat verifies that a new generation of command definition files
stays wire- and semantics-compatible with an old generation, for every
client written against the stable API version.

It compares commands, parameters, reply shapes, namespace kinds and
authorization metadata. Every violation is reported; the process exits
non-zero if any was found.

Usage:
  apicompat check old/ new/    # compare two snapshot directories
  apicompat watch old/ new/    # re-run the check on file changes`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "apicompat.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// newLogger builds the process logger from config, to stderr so findings
// on stdout stay machine-readable.
func newLogger(cfg *config.Config) zerolog.Logger {
	levelStr := cfg.Logging.Level
	if logLevel != "" {
		levelStr = logLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
