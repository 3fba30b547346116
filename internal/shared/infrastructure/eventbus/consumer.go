package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// EventConsumer reacts to envelopes with the routing keys it declares.
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event Envelope) error
}

// ConsumerFunc adapts a function to EventConsumer for a fixed set of keys.
type ConsumerFunc struct {
	Keys []string
	Fn   func(ctx context.Context, event Envelope) error
}

func (c ConsumerFunc) EventTypes() []string { return c.Keys }

func (c ConsumerFunc) Handle(ctx context.Context, event Envelope) error {
	return c.Fn(ctx, event)
}

// ConsumerRegistry routes envelopes to consumers by routing key.
type ConsumerRegistry struct {
	mu        sync.RWMutex
	consumers map[string][]EventConsumer
	logger    *slog.Logger
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{
		consumers: make(map[string][]EventConsumer),
		logger:    logger,
	}
}

// Register adds consumer under each of its event types.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range consumer.EventTypes() {
		r.consumers[key] = append(r.consumers[key], consumer)
	}
}

// EventTypes returns every routing key with at least one consumer.
func (r *ConsumerRegistry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.consumers))
	for key := range r.consumers {
		keys = append(keys, key)
	}
	return keys
}

// Dispatch hands event to every consumer of its routing key. All consumers
// run even if one fails; the last error is returned.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event Envelope) error {
	r.mu.RLock()
	consumers := r.consumers[event.RoutingKey]
	r.mu.RUnlock()

	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var lastErr error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			lastErr = err
		}
	}
	return lastErr
}
