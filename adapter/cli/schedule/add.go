package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/spf13/cobra"
)

var (
	addDay   string
	addLabel string
	addStart string
	addEnd   string
	addBreak bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a block to a day",
	Long: `Append a class period or break to the end of a day's rows.

Examples:
  hallpass schedule add --day tue-fri --label "Advisory" --start 13:40 --end 14:20
  hallpass schedule add --day monday --label "Lunch" --start 11:05 --end 11:35 --break`,
	Aliases: []string{"new"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddBlockHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.AddBlockHandler.Handle(cmd.Context(), commands.AddBlockCommand{
			DayKey: addDay,
			Block: domain.BlockRecord{
				Label:   addLabel,
				IsClass: !addBreak,
				Start:   addStart,
				End:     addEnd,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to add block: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s at index %d (%d blocks)\n",
			addLabel, result.DayKey, result.Index, result.BlockCount)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDay, "day", "", "day to edit (monday or tue-fri)")
	addCmd.Flags().StringVar(&addLabel, "label", "", "block label")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time (HH:MM)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time (HH:MM)")
	addCmd.Flags().BoolVar(&addBreak, "break", false, "block is a break, not a class")
	_ = addCmd.MarkFlagRequired("day")
	_ = addCmd.MarkFlagRequired("label")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
}
