package cli

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if svcs == nil {
		return errors.New("services not configured")
	}

	if len(svcs.Sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Type", "Name", "Enabled"})

	for _, source := range svcs.Sources {
		t.AppendRow(table.Row{source.ID, source.Type, source.Name, source.Enabled})
	}

	t.Render()
	return nil
}
