package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/availability/infrastructure/schedulecsv"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// ImportCSVCommand replaces the whole schedule with the rows read from Source.
type ImportCSVCommand struct {
	Source io.Reader
}

// ImportCSVResult contains the result of an import.
type ImportCSVResult struct {
	BlockCount int
	DayCounts  map[domain.DayKey]int
}

// ImportCSVHandler handles the ImportCSVCommand.
type ImportCSVHandler struct {
	scheduleRepo domain.ScheduleRepository
	publisher    sharedApplication.EventPublisher
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewImportCSVHandler creates a new ImportCSVHandler.
func NewImportCSVHandler(
	scheduleRepo domain.ScheduleRepository,
	publisher sharedApplication.EventPublisher,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *ImportCSVHandler {
	return &ImportCSVHandler{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the ImportCSVCommand. Nothing is written unless every
// row of every day parses.
func (h *ImportCSVHandler) Handle(ctx context.Context, cmd ImportCSVCommand) (*ImportCSVResult, error) {
	schedule, err := schedulecsv.Decode(cmd.Source)
	if err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.scheduleRepo.ReplaceAll(txCtx, schedule)
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewScheduleUpdated(domain.DayKeys(), schedule.BlockCount())
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return &ImportCSVResult{BlockCount: schedule.BlockCount(), DayCounts: dayCounts(schedule)}, nil
}

func dayCounts(schedule domain.Schedule) map[domain.DayKey]int {
	counts := make(map[domain.DayKey]int, len(domain.DayKeys()))
	for _, key := range domain.DayKeys() {
		counts[key] = len(schedule.Day(key))
	}
	return counts
}
