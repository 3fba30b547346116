package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the schedule as CSV",
	Long: `Write every row as CSV to standard output or --output.

Examples:
  hallpass schedule export > schedule.csv
  hallpass schedule export --output schedule.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ExportCSVHandler == nil {
			return cli.ErrNotInitialized
		}

		data, err := app.ExportCSVHandler.Handle(cmd.Context(), queries.ExportCSVQuery{})
		if err != nil {
			return fmt.Errorf("failed to export schedule: %w", err)
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := security.WriteFile(exportOutput, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write instead of standard output")
}
