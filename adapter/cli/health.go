package cli

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database, cache and broker connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return ErrNotInitialized
		}

		report := app.Health.Check(cmd.Context())
		if JSONOutput() {
			if err := PrintJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", report.Status)
			for _, name := range app.Health.Names() {
				check := report.Checks[name]
				line := fmt.Sprintf("  %-24s %s", name, check.Status)
				if check.Message != "" {
					line += " (" + check.Message + ")"
				}
				fmt.Fprintln(out, line)
			}
		}

		if report.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
