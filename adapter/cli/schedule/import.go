package schedule

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|->",
	Short: "Replace the whole schedule from a CSV file",
	Long: `Replace every day's rows with the contents of a CSV file.
The header is day,label,is_class,start,end. Use - to read standard input.

Examples:
  hallpass schedule import schedule.csv
  hallpass schedule export | sed 's/Lunch/Long Lunch/' | hallpass schedule import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ImportCSVHandler == nil {
			return cli.ErrNotInitialized
		}

		var source io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := security.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			source = f
		}

		result, err := app.ImportCSVHandler.Handle(cmd.Context(), commands.ImportCSVCommand{Source: source})
		if err != nil {
			return fmt.Errorf("failed to import schedule: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d blocks\n", result.BlockCount)
		for _, key := range domain.DayKeys() {
			fmt.Fprintf(out, "  %-8s %d\n", key, result.DayCounts[key])
		}
		return nil
	},
}
