package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	"github.com/spf13/cobra"
)

var (
	statusAt  string
	windowsAt string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the restroom is open",
	Long: `Classify the current moment, or the moment given with --at.

Examples:
  hallpass status
  hallpass status --at 2025-01-07T09:00
  hallpass status --at 2025-01-07T17:00:00Z --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetStatusHandler == nil {
			return ErrNotInitialized
		}

		at, err := ParseAt(statusAt, app.Location)
		if err != nil {
			return err
		}

		status, err := app.GetStatusHandler.Handle(cmd.Context(), queries.GetStatusQuery{At: at})
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), status)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", status.Status, status.Reason)
		if status.NextChange != nil {
			fmt.Fprintf(out, "Next change at %s\n", status.NextChange.In(status.At.Location()).Format("15:04"))
		}
		return nil
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List today's open windows",
	Long: `List every interval of the day when the restroom is open.

Examples:
  hallpass windows
  hallpass windows --at 2025-01-06T08:00`,
	Aliases: []string{"open"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListOpenWindowsHandler == nil {
			return ErrNotInitialized
		}

		at, err := ParseAt(windowsAt, app.Location)
		if err != nil {
			return err
		}

		result, err := app.ListOpenWindowsHandler.Handle(cmd.Context(), queries.ListOpenWindowsQuery{At: at})
		if err != nil {
			return fmt.Errorf("failed to list open windows: %w", err)
		}

		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		if len(result.Windows) == 0 {
			fmt.Fprintf(out, "No open windows on %s.\n", result.Date)
			return nil
		}

		fmt.Fprintf(out, "Open windows for %s (%d min closed at each end of class)\n", result.Date, result.ClosedMinutes)
		total := 0
		for _, w := range result.Windows {
			fmt.Fprintf(out, "  %s - %s  %-32s %3dm\n",
				w.Start.Format(time.Kitchen), w.End.Format(time.Kitchen), w.Label, w.Minutes)
			total += w.Minutes
		}
		fmt.Fprintf(out, "Total: %d windows, %dm open\n", len(result.Windows), total)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusAt, "at", "", "moment to classify (RFC 3339 or YYYY-MM-DDTHH:MM)")
	windowsCmd.Flags().StringVar(&windowsAt, "at", "", "any moment on the day to list (RFC 3339 or YYYY-MM-DDTHH:MM)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(windowsCmd)
}
