package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "View and edit the bell schedule",
	Long:  `View and edit the Monday and Tuesday–Friday bell schedules.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(importCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(resetCmd)
}
