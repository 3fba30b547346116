package domain

import (
	sharedDomain "github.com/felixgeelhaar/hallpass/internal/shared/domain"
)

const (
	AggregateType = "Tally"

	RoutingKeyCountsChanged = "tally.counts.changed"
)

// CountsChanged is emitted after a bump or reset.
type CountsChanged struct {
	sharedDomain.BaseEvent
	Group  Group  `json:"group,omitempty"`
	Delta  int    `json:"delta,omitempty"`
	Counts Counts `json:"counts"`
	Total  int    `json:"total"`
}

// NewCountsChanged creates a CountsChanged event. Group is empty for a reset.
func NewCountsChanged(group Group, delta int, counts Counts) CountsChanged {
	return CountsChanged{
		BaseEvent: sharedDomain.NewBaseEvent(AggregateType, RoutingKeyCountsChanged),
		Group:     group,
		Delta:     delta,
		Counts:    counts,
		Total:     counts.Total(),
	}
}
