package queries

import (
	"context"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// GetScheduleQuery asks for the stored schedule.
type GetScheduleQuery struct{}

// GetScheduleHandler handles the GetScheduleQuery.
type GetScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
}

// NewGetScheduleHandler creates a new GetScheduleHandler.
func NewGetScheduleHandler(scheduleRepo domain.ScheduleRepository) *GetScheduleHandler {
	return &GetScheduleHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the GetScheduleQuery.
func (h *GetScheduleHandler) Handle(ctx context.Context, _ GetScheduleQuery) (*ScheduleDTO, error) {
	schedule, err := h.scheduleRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	dto := toScheduleDTO(schedule)
	return &dto, nil
}
