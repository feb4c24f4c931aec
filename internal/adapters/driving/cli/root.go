// Package cli implements the meetsync command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/core/ports/driving"
)

// version is stamped by the build; "dev" otherwise.
var version = "dev"

// Services are the wired ports the commands run against.
type Services struct {
	Runner  driving.SyncRunner
	Store   driven.SyncStateStore
	Sources []domain.Source
}

// svcs holds the current wiring. Built on first command run, swapped in tests.
var svcs *Services

// SetServices sets the wiring for the commands.
func SetServices(s *Services) {
	svcs = s
}

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meetsync",
	Short: "Sync meeting summaries into your notes vault",
	Long: `meetsync discovers AI-generated meeting summaries on your platforms
(Zoom, Google Meet, Heypocket), waits for their content to finish
rendering, filters out placeholders and metadata pages, and writes the
real summaries into your notes vault as markdown. Every meeting is
persisted at most once, so runs are safe to repeat.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file (default ~/.meetsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

// ConfigPath returns the --config flag value.
func ConfigPath() string { return cfgPath }

// Verbose returns the --verbose flag value.
func Verbose() bool { return verbose }

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
