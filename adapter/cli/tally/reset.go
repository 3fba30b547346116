package tally

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set both counters to zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ResetCountersHandler == nil {
			return cli.ErrNotInitialized
		}

		counts, err := app.ResetCountersHandler.Handle(cmd.Context(), commands.ResetCountersCommand{})
		if err != nil {
			return fmt.Errorf("failed to reset counters: %w", err)
		}

		return printCounts(cmd.OutOrStdout(), countsView{Girls: counts.Girls, Boys: counts.Boys, Total: counts.Total()})
	},
}
