package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/hallpass/internal/shared/domain"
)

// Publisher sends raw payloads to a message transport.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// Envelope is the wire format of every published domain event.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event's JSON form with its identity.
func NewEnvelope(event domain.DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", event.RoutingKey(), err)
	}
	return Envelope{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		CorrelationID: event.Metadata().CorrelationID,
		Payload:       payload,
	}, nil
}

// EventPublisher adapts a Publisher to application.EventPublisher.
type EventPublisher struct {
	publisher Publisher
}

// NewEventPublisher creates an EventPublisher writing to publisher.
func NewEventPublisher(publisher Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher}
}

// PublishEvent encodes event as an Envelope and publishes it under its routing key.
func (p *EventPublisher) PublishEvent(ctx context.Context, event domain.DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return p.publisher.Publish(ctx, envelope.RoutingKey, body)
}
