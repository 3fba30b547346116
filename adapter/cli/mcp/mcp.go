package mcp

import "github.com/spf13/cobra"

// Cmd is the MCP command group.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve hallpass over the Model Context Protocol",
}

func init() {
	Cmd.AddCommand(serveCmd)
}
