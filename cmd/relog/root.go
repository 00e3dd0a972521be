package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relog",
	Short: "Relog - request lifecycle logging middleware",
	Long: `Relog records each inbound HTTP request's lifecycle into a key-value
store with type-specific expiration.

Every request (except OPTIONS/HEAD) gets a mutable log record that moves
through a small state machine:

  - pending:   written after a delay while the request is still in flight
  - completed: the request finished normally
  - slow:      the request finished but exceeded the slow threshold
  - error:     a handler attached an error annotation

Records are stored under rLog:<project>[.env]:<type>:<id> keys and expire
on their own; logging is best-effort and never affects the response.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
