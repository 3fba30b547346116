package tally

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the tally command group
var Cmd = &cobra.Command{
	Use:   "tally",
	Short: "Count restroom visits",
	Long:  `Show, bump and reset the girls and boys visit counters.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(bumpCmd)
	Cmd.AddCommand(resetCmd)
}

type countsView struct {
	Girls int `json:"girls"`
	Boys  int `json:"boys"`
	Total int `json:"total"`
}

func printCounts(w io.Writer, c countsView) error {
	if cli.JSONOutput() {
		return cli.PrintJSON(w, c)
	}
	fmt.Fprintf(w, "Girls: %d  Boys: %d  Total: %d\n", c.Girls, c.Boys, c.Total)
	return nil
}
