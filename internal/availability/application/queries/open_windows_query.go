package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// ListOpenWindowsQuery asks for the open windows of the day containing At.
type ListOpenWindowsQuery struct {
	At time.Time
}

// ListOpenWindowsHandler handles the ListOpenWindowsQuery.
type ListOpenWindowsHandler struct {
	scheduleRepo domain.ScheduleRepository
	engine       domain.Engine
}

// NewListOpenWindowsHandler creates a new ListOpenWindowsHandler.
func NewListOpenWindowsHandler(scheduleRepo domain.ScheduleRepository, engine domain.Engine) *ListOpenWindowsHandler {
	return &ListOpenWindowsHandler{scheduleRepo: scheduleRepo, engine: engine}
}

// Handle executes the ListOpenWindowsQuery.
func (h *ListOpenWindowsHandler) Handle(ctx context.Context, query ListOpenWindowsQuery) (*WindowsDTO, error) {
	at, key, blocks, err := resolveAt(ctx, h.scheduleRepo, h.engine, query.At)
	if err != nil {
		return nil, err
	}

	return &WindowsDTO{
		Date:          at.Format(time.DateOnly),
		DayKey:        string(key),
		ClosedMinutes: h.engine.ClosedMinutes(),
		Windows:       toWindowDTOs(h.engine.OpenWindows(at, blocks)),
	}, nil
}
