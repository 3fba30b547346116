package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/shared/domain"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

// EventPublisher delivers domain events to the message transports.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.DomainEvent) error
}

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// EventMetadataFromContext carries the request's correlation ID onto events.
func EventMetadataFromContext(ctx context.Context) domain.EventMetadata {
	return domain.EventMetadata{CorrelationID: observability.CorrelationIDFromContext(ctx)}
}

// PublishAfterCommit stamps each event with the request metadata and
// publishes it. Delivery failures are logged and never fail the write that
// produced the event.
func PublishAfterCommit(ctx context.Context, publisher EventPublisher, logger *slog.Logger, events ...domain.DomainEvent) {
	if publisher == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	metadata := EventMetadataFromContext(ctx)
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
		if err := publisher.PublishEvent(ctx, event); err != nil {
			logger.WarnContext(ctx, "event publish failed",
				"routing_key", event.RoutingKey(),
				"event_id", event.EventID(),
				"error", err,
			)
		}
	}
}
