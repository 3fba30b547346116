package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// GetStatusQuery asks for the status at an instant.
type GetStatusQuery struct {
	At time.Time
}

// GetStatusHandler handles the GetStatusQuery.
type GetStatusHandler struct {
	scheduleRepo domain.ScheduleRepository
	engine       domain.Engine
}

// NewGetStatusHandler creates a new GetStatusHandler.
func NewGetStatusHandler(scheduleRepo domain.ScheduleRepository, engine domain.Engine) *GetStatusHandler {
	return &GetStatusHandler{scheduleRepo: scheduleRepo, engine: engine}
}

// Handle executes the GetStatusQuery.
func (h *GetStatusHandler) Handle(ctx context.Context, query GetStatusQuery) (*StatusDTO, error) {
	at, key, blocks, err := resolveAt(ctx, h.scheduleRepo, h.engine, query.At)
	if err != nil {
		return nil, err
	}

	dto := toStatusDTO(h.engine.Classify(at, blocks), at, key, h.engine.ClosedMinutes())
	return &dto, nil
}
