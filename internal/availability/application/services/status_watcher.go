package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// DefaultWatchInterval is the default time between status evaluations.
const DefaultWatchInterval = 15 * time.Second

// StatusReader classifies an instant.
type StatusReader interface {
	Handle(ctx context.Context, query queries.GetStatusQuery) (*queries.StatusDTO, error)
}

// Observation is the most recent evaluation made by the watcher.
type Observation struct {
	Status     domain.Status `json:"status"`
	Reason     string        `json:"reason"`
	NextChange *time.Time    `json:"next_change,omitempty"`
	ObservedAt time.Time     `json:"observed_at"`
	Published  bool          `json:"published"`
}

// StatusWatcherConfig configures the watcher.
type StatusWatcherConfig struct {
	Interval time.Duration
	Now      func() time.Time
}

// StatusWatcher periodically classifies the current instant and publishes a
// StatusChanged event whenever the status or reason differs from the last
// published one. The first evaluation always publishes.
type StatusWatcher struct {
	reader    StatusReader
	publisher sharedApplication.EventPublisher
	config    StatusWatcherConfig
	logger    *slog.Logger

	running atomic.Bool
	stopCh  chan struct{}
	trigger chan struct{}

	mu        sync.Mutex
	last      *Observation
	published *Observation
}

// NewStatusWatcher creates a new status watcher.
func NewStatusWatcher(
	reader StatusReader,
	publisher sharedApplication.EventPublisher,
	config StatusWatcherConfig,
	logger *slog.Logger,
) *StatusWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultWatchInterval
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &StatusWatcher{
		reader:    reader,
		publisher: publisher,
		config:    config,
		logger:    logger,
		stopCh:    make(chan struct{}),
		trigger:   make(chan struct{}, 1),
	}
}

// Run evaluates immediately, then on every tick or trigger, and blocks until
// ctx is cancelled or Stop is called.
func (w *StatusWatcher) Run(ctx context.Context) error {
	w.running.Store(true)
	defer w.running.Store(false)

	w.logger.Info("status watcher started", "interval", w.config.Interval)

	w.evaluateLogged(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("status watcher stopped (context cancelled)")
			return ctx.Err()
		case <-w.stopCh:
			w.logger.Info("status watcher stopped (stop signal)")
			return nil
		case <-ticker.C:
			w.evaluateLogged(ctx)
		case <-w.trigger:
			w.logger.Debug("status re-evaluation triggered")
			w.evaluateLogged(ctx)
		}
	}
}

// Stop signals the watcher to stop.
func (w *StatusWatcher) Stop() {
	if w.running.Load() {
		select {
		case <-w.stopCh:
		default:
			close(w.stopCh)
		}
	}
}

// IsRunning returns true while Run is executing.
func (w *StatusWatcher) IsRunning() bool {
	return w.running.Load()
}

// Trigger requests an evaluation ahead of the next tick. Requests made while
// one is pending are coalesced.
func (w *StatusWatcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Last returns the most recent observation, or nil before the first one.
func (w *StatusWatcher) Last() *Observation {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return nil
	}
	obs := *w.last
	return &obs
}

// Evaluate classifies the current instant once and publishes on change.
// A failed publish is logged and retried on the next evaluation.
func (w *StatusWatcher) Evaluate(ctx context.Context) (*Observation, error) {
	now := w.config.Now()

	dto, err := w.reader.Handle(ctx, queries.GetStatusQuery{At: now})
	if err != nil {
		return nil, err
	}

	obs := Observation{
		Status:     domain.Status(dto.Status),
		Reason:     dto.Reason,
		NextChange: dto.NextChange,
		ObservedAt: dto.At,
	}

	w.mu.Lock()
	previous := w.published
	w.mu.Unlock()

	if previous == nil || previous.Status != obs.Status || previous.Reason != obs.Reason {
		obs.Published = w.publish(ctx, obs, previous)
	}

	w.mu.Lock()
	w.last = &obs
	if obs.Published {
		published := obs
		w.published = &published
	}
	w.mu.Unlock()

	return &obs, nil
}

func (w *StatusWatcher) publish(ctx context.Context, obs Observation, previous *Observation) bool {
	var previousStatus domain.Status
	if previous != nil {
		previousStatus = previous.Status
	}

	event := domain.NewStatusChanged(domain.StatusResult{
		Status:     obs.Status,
		Reason:     obs.Reason,
		NextChange: obs.NextChange,
	}, previousStatus, obs.ObservedAt)
	event.SetMetadata(sharedApplication.EventMetadataFromContext(ctx))

	if w.publisher == nil {
		return true
	}
	if err := w.publisher.PublishEvent(ctx, &event); err != nil {
		w.logger.WarnContext(ctx, "status publish failed",
			"status", obs.Status,
			"reason", obs.Reason,
			"error", err,
		)
		return false
	}

	w.logger.InfoContext(ctx, "status changed",
		"status", obs.Status,
		"reason", obs.Reason,
		"previous_status", previousStatus,
	)
	return true
}

func (w *StatusWatcher) evaluateLogged(ctx context.Context) {
	if _, err := w.Evaluate(ctx); err != nil {
		w.logger.ErrorContext(ctx, "status evaluation failed", "error", err)
	}
}
