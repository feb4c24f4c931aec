package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/meetsync/internal/core/ports/driving"
)

var (
	syncSince  string
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise meeting summaries from sources",
	Long: `Discovers new meeting summaries since the last run, stabilizes their
content, and writes accepted summaries into the vault.
If a source ID is provided, only that source is synchronised.
Otherwise, all enabled sources are synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSince, "since", "",
		"re-cover a window starting at this date (YYYY-MM-DD or RFC 3339)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false,
		"report what would be persisted without writing anything")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if svcs == nil || svcs.Runner == nil {
		return errors.New("sync service not configured")
	}

	opts := driving.RunOptions{DryRun: syncDryRun}
	if syncSince != "" {
		since, err := parseSince(syncSince)
		if err != nil {
			return err
		}
		opts.Since = &since
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Synchronising source: %s...\n", sourceID)

		n, err := svcs.Runner.Run(ctx, sourceID, opts)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printResult(cmd, sourceID, n)
		return nil
	}

	ran := 0
	for _, source := range svcs.Sources {
		if !source.Enabled {
			cmd.Printf("Skipping disabled source: %s\n", source.ID)
			continue
		}
		cmd.Printf("Synchronising source: %s...\n", source.ID)

		n, err := svcs.Runner.Run(ctx, source.ID, opts)
		if err != nil {
			return fmt.Errorf("sync failed for %s: %w", source.ID, err)
		}
		printResult(cmd, source.ID, n)
		ran++
	}

	if ran == 0 {
		cmd.Println("No enabled sources configured.")
	}
	return nil
}

func printResult(cmd *cobra.Command, sourceID string, n int) {
	if syncDryRun {
		cmd.Printf("%s: %d meetings would be persisted (dry run)\n", sourceID, n)
		return
	}
	cmd.Printf("%s: %d meetings persisted\n", sourceID, n)
}

func parseSince(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q, want YYYY-MM-DD or RFC 3339", raw)
}
