package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/hallpass/internal/shared/domain"
)

const (
	AggregateType = "Schedule"

	RoutingKeyScheduleUpdated = "availability.schedule.updated"
	RoutingKeyStatusChanged   = "availability.status.changed"
)

// ScheduleUpdated is emitted after one or more day variants are rewritten.
type ScheduleUpdated struct {
	sharedDomain.BaseEvent
	DayKeys    []DayKey `json:"day_keys"`
	BlockCount int      `json:"block_count"`
}

// NewScheduleUpdated creates a ScheduleUpdated event.
func NewScheduleUpdated(keys []DayKey, blockCount int) ScheduleUpdated {
	return ScheduleUpdated{
		BaseEvent:  sharedDomain.NewBaseEvent(AggregateType, RoutingKeyScheduleUpdated),
		DayKeys:    keys,
		BlockCount: blockCount,
	}
}

// StatusChanged is emitted when the observed status or reason changes.
type StatusChanged struct {
	sharedDomain.BaseEvent
	Status         Status     `json:"status"`
	Reason         string     `json:"reason"`
	NextChange     *time.Time `json:"next_change,omitempty"`
	PreviousStatus Status     `json:"previous_status,omitempty"`
	ObservedAt     time.Time  `json:"observed_at"`
}

// NewStatusChanged creates a StatusChanged event.
func NewStatusChanged(result StatusResult, previous Status, observedAt time.Time) StatusChanged {
	return StatusChanged{
		BaseEvent:      sharedDomain.NewBaseEvent(AggregateType, RoutingKeyStatusChanged),
		Status:         result.Status,
		Reason:         result.Reason,
		NextChange:     result.NextChange,
		PreviousStatus: previous,
		ObservedAt:     observedAt,
	}
}
