package schedule

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	"github.com/spf13/cobra"
)

var showDay string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the bell schedule",
	Long: `Display every row of the schedule, or a single day with --day.

Examples:
  hallpass schedule show
  hallpass schedule show --day monday`,
	Aliases: []string{"list", "view"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetScheduleHandler == nil {
			return cli.ErrNotInitialized
		}

		schedule, err := app.GetScheduleHandler.Handle(cmd.Context(), queries.GetScheduleQuery{})
		if err != nil {
			return fmt.Errorf("failed to get schedule: %w", err)
		}

		days := schedule.Days
		if showDay != "" {
			days = nil
			for _, d := range schedule.Days {
				if strings.EqualFold(d.Key, strings.TrimSpace(showDay)) {
					days = append(days, d)
				}
			}
			if len(days) == 0 {
				return fmt.Errorf("unknown day %q (valid: monday, tue-fri)", showDay)
			}
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), queries.ScheduleDTO{Days: days})
		}

		out := cmd.OutOrStdout()
		for _, day := range days {
			fmt.Fprintf(out, "%s [%s]\n", day.Name, day.Key)
			fmt.Fprintln(out, strings.Repeat("=", 60))
			if len(day.Blocks) == 0 {
				fmt.Fprintln(out, "  No blocks.")
			}
			for i, b := range day.Blocks {
				kind := "break"
				if b.IsClass {
					kind = "class"
				}
				fmt.Fprintf(out, "  %2d  %s - %s  %-28s %s\n", i, b.Start, b.End, b.Label, kind)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showDay, "day", "", "day to show (monday or tue-fri)")
}
