package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/adapter/cli/mcp"
	"github.com/felixgeelhaar/hallpass/adapter/cli/schedule"
	"github.com/felixgeelhaar/hallpass/adapter/cli/tally"
	"github.com/felixgeelhaar/hallpass/internal/app"
	"github.com/felixgeelhaar/hallpass/pkg/config"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Logs stay at warn unless running in development or with --verbose.
	logger := observability.NewLogger(observability.LogConfigFor("hallpass", "production", "warn", "text", cli.Version))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfigFor("hallpass", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(cli.NewApp(container))

	// Register commands
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(tally.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	if err := cli.RootCommand().ExecuteContext(ctx); err != nil {
		container.Close()
		os.Exit(1)
	}
}
