package queries

import (
	"bytes"
	"context"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/availability/infrastructure/schedulecsv"
)

// ExportCSVQuery asks for the schedule as CSV.
type ExportCSVQuery struct{}

// ExportCSVHandler handles the ExportCSVQuery.
type ExportCSVHandler struct {
	scheduleRepo domain.ScheduleRepository
}

// NewExportCSVHandler creates a new ExportCSVHandler.
func NewExportCSVHandler(scheduleRepo domain.ScheduleRepository) *ExportCSVHandler {
	return &ExportCSVHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the ExportCSVQuery.
func (h *ExportCSVHandler) Handle(ctx context.Context, _ ExportCSVQuery) ([]byte, error) {
	schedule, err := h.scheduleRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := schedulecsv.Encode(&buf, schedule); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
