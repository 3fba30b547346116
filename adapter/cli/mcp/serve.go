package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/hallpass/internal/mcp"
	"github.com/felixgeelhaar/hallpass/pkg/config"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return cli.ErrNotInitialized
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := observability.NewLogger(observability.LogConfigFor("hallpass-mcp", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))

		err = mcpinternal.Serve(cmd.Context(), cfg, app, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
