package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/felixgeelhaar/hallpass/adapter/api"
	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/app"
	"github.com/felixgeelhaar/hallpass/pkg/config"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig("hallpass-server")).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor("hallpass-server", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	schedule := api.NewScheduleHandler(api.ScheduleHandlerConfig{
		GetStatus:   container.GetStatusHandler,
		ListWindows: container.ListOpenWindowsHandler,
		GetSchedule: container.GetScheduleHandler,
		ExportCSV:   container.ExportCSVHandler,
		SaveDay:     container.SaveDayHandler,
		AddBlock:    container.AddBlockHandler,
		RemoveBlock: container.RemoveBlockHandler,
		ImportCSV:   container.ImportCSVHandler,
		Reset:       container.ResetScheduleHandler,
		Logger:      logger,
	})
	tally := api.NewTallyHandler(
		container.GetCountsHandler,
		container.BumpCounterHandler,
		container.ResetCountersHandler,
		logger,
	)
	board := api.NewBoardHandler(api.BoardHandlerConfig{
		GetStatus:   container.GetStatusHandler,
		ListWindows: container.ListOpenWindowsHandler,
		GetCounts:   container.GetCountsHandler,
		Logger:      logger,
	})

	serverCfg := api.DefaultServerConfig()
	if cfg.HTTPAddr != "" {
		serverCfg.Addr = cfg.HTTPAddr
	}
	server := api.NewServer(serverCfg, schedule, tally, board, container.Health, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", "error", err)
	}
}
