package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// SaveDayCommand replaces every row of one day variant.
type SaveDayCommand struct {
	DayKey string
	Blocks []domain.BlockRecord
}

// SaveDayResult contains the result of saving a day.
type SaveDayResult struct {
	DayKey     domain.DayKey
	BlockCount int
}

// SaveDayHandler handles the SaveDayCommand.
type SaveDayHandler struct {
	scheduleRepo domain.ScheduleRepository
	publisher    sharedApplication.EventPublisher
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewSaveDayHandler creates a new SaveDayHandler.
func NewSaveDayHandler(
	scheduleRepo domain.ScheduleRepository,
	publisher sharedApplication.EventPublisher,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *SaveDayHandler {
	return &SaveDayHandler{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the SaveDayCommand.
func (h *SaveDayHandler) Handle(ctx context.Context, cmd SaveDayCommand) (*SaveDayResult, error) {
	key, err := domain.ParseDayKey(cmd.DayKey)
	if err != nil {
		return nil, err
	}

	records := normalize(cmd.Blocks)
	if _, err := domain.ParseBlocks(key, records); err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.scheduleRepo.ReplaceDay(txCtx, key, records)
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewScheduleUpdated([]domain.DayKey{key}, len(records))
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return &SaveDayResult{DayKey: key, BlockCount: len(records)}, nil
}

func normalize(records []domain.BlockRecord) []domain.BlockRecord {
	out := make([]domain.BlockRecord, len(records))
	for i, r := range records {
		out[i] = r.Normalized()
	}
	return out
}
