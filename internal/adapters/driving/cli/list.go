package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	listSource string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted meeting notes",
	Long: `Shows meetings already synchronised into the vault, newest first.
Use --source to filter by source and --limit to cap the number of rows.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "only show records from this source")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of records to show (0 for all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if svcs == nil || svcs.Store == nil {
		return errors.New("state store not configured")
	}

	records, err := svcs.Store.Completed(cmd.Context(), listSource, listLimit)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No persisted meetings.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Source", "Title", "File"})

	for _, rec := range records {
		date := rec.OccurredAt.Format("2006-01-02")
		if rec.OccurredAt.IsZero() {
			date = rec.RecordedAt.Format("2006-01-02")
		}
		t.AppendRow(table.Row{date, rec.SourceID, rec.Title, rec.FilePath})
	}

	t.Render()
	return nil
}
