package tally

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	"github.com/spf13/cobra"
)

var bumpUndo bool

var bumpCmd = &cobra.Command{
	Use:   "bump <girls|boys>",
	Short: "Record one visit",
	Long: `Add one visit to a group, or take one away with --undo.
Counters never go below zero.

Examples:
  hallpass tally bump girls
  hallpass tally bump boys --undo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BumpCounterHandler == nil {
			return cli.ErrNotInitialized
		}

		delta := 1
		if bumpUndo {
			delta = -1
		}

		counts, err := app.BumpCounterHandler.Handle(cmd.Context(), commands.BumpCounterCommand{
			Group: args[0],
			Delta: delta,
		})
		if err != nil {
			return fmt.Errorf("failed to bump counter: %w", err)
		}

		return printCounts(cmd.OutOrStdout(), countsView{Girls: counts.Girls, Boys: counts.Boys, Total: counts.Total()})
	},
}

func init() {
	bumpCmd.Flags().BoolVar(&bumpUndo, "undo", false, "subtract one instead of adding")
}
