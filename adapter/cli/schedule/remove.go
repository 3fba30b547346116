package schedule

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <day> <index>",
	Short: "Remove a block by index",
	Long: `Remove one row from a day. Indexes are shown by 'hallpass schedule show'.

Examples:
  hallpass schedule remove tue-fri 9`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RemoveBlockHandler == nil {
			return cli.ErrNotInitialized
		}

		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		result, err := app.RemoveBlockHandler.Handle(cmd.Context(), commands.RemoveBlockCommand{
			DayKey: args[0],
			Index:  index,
		})
		if err != nil {
			return fmt.Errorf("failed to remove block: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %q (%s - %s) from %s (%d blocks left)\n",
			result.Removed.Label, result.Removed.Start, result.Removed.End, result.DayKey, result.BlockCount)
		return nil
	},
}
