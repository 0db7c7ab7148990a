package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const logLevelEnv = "CARGO_GH_PAGES_LOG"

var logLevel string

// exitCode is set by subcommands that finish with a specific process status.
var exitCode int

// cargo runs external subcommands as `cargo-<name> <name> [args]`, so the
// binary is rooted at "cargo" and carries gh-pages as a subcommand.
var rootCmd = &cobra.Command{
	Use:           "cargo",
	Short:         "Cargo subcommand dispatcher",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(lvl)
	return nil
}

func defaultLogLevel() string {
	if level := os.Getenv(logLevelEnv); level != "" {
		return level
	}
	return "warn"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel(), "Diagnostic log level (panic, fatal, error, warn, info, debug, trace)")
}

func execute() int {
	exitCode = 0
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

func main() {
	os.Exit(execute())
}
