package tally

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the visit counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetCountsHandler == nil {
			return cli.ErrNotInitialized
		}

		counts, err := app.GetCountsHandler.Handle(cmd.Context(), queries.GetCountsQuery{})
		if err != nil {
			return fmt.Errorf("failed to get counters: %w", err)
		}

		return printCounts(cmd.OutOrStdout(), countsView(*counts))
	},
}
