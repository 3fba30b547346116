package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in bell schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ResetScheduleHandler == nil {
			return cli.ErrNotInitialized
		}
		if !resetYes {
			return fmt.Errorf("reset replaces every row; pass --yes to confirm")
		}

		result, err := app.ResetScheduleHandler.Handle(cmd.Context(), commands.ResetScheduleCommand{})
		if err != nil {
			return fmt.Errorf("failed to reset schedule: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored default schedule (%d blocks)\n", result.BlockCount)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm the reset")
}
