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

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	"github.com/felixgeelhaar/hallpass/internal/app"
	availabilityDomain "github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/hallpass/pkg/config"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig("hallpass-worker")).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor("hallpass-worker", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	logger.Info("starting hallpass worker")

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	watcher := container.NewStatusWatcher()

	// Schedule edits made by other processes trigger an immediate re-check.
	if cfg.RabbitMQURL != "" {
		registry := eventbus.NewConsumerRegistry(logger)
		registry.Register(eventbus.ConsumerFunc{
			Keys: []string{availabilityDomain.RoutingKeyScheduleUpdated},
			Fn: func(ctx context.Context, event eventbus.Envelope) error {
				logger.DebugContext(ctx, "schedule updated, re-evaluating", "event_id", event.EventID)
				watcher.Trigger()
				return nil
			},
		})

		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    cfg.RabbitMQURL,
			Logger: logger,
		}, registry)
		if err != nil {
			if !cfg.IsDevelopment() {
				logger.Error("failed to start schedule consumer", "error", err)
				os.Exit(1)
			}
			logger.Warn("schedule consumer unavailable, relying on ticks", "error", err)
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("schedule consumer stopped", "error", err)
				}
			}()
		}
	}

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           newHealthMux(watcher, container.Health),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	logger.Info("starting status watcher", "interval", cfg.WatchInterval)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("status watcher stopped", "error", err)
	}

	logger.Info("worker stopped")
}
