package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// ErrEmptyBlockField is returned when a new row is missing its label, start or end.
var ErrEmptyBlockField = errors.New("label, start and end are required")

// AddBlockCommand appends a row to the end of a day.
type AddBlockCommand struct {
	DayKey string
	Block  domain.BlockRecord
}

// AddBlockResult contains the result of adding a block.
type AddBlockResult struct {
	DayKey     domain.DayKey
	Index      int
	BlockCount int
}

// AddBlockHandler handles the AddBlockCommand.
type AddBlockHandler struct {
	scheduleRepo domain.ScheduleRepository
	publisher    sharedApplication.EventPublisher
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewAddBlockHandler creates a new AddBlockHandler.
func NewAddBlockHandler(
	scheduleRepo domain.ScheduleRepository,
	publisher sharedApplication.EventPublisher,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *AddBlockHandler {
	return &AddBlockHandler{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the AddBlockCommand.
func (h *AddBlockHandler) Handle(ctx context.Context, cmd AddBlockCommand) (*AddBlockResult, error) {
	key, err := domain.ParseDayKey(cmd.DayKey)
	if err != nil {
		return nil, err
	}

	block := cmd.Block.Normalized()
	if block.Label == "" || block.Start == "" || block.End == "" {
		return nil, ErrEmptyBlockField
	}

	var result *AddBlockResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		schedule, err := h.scheduleRepo.Load(txCtx)
		if err != nil {
			return err
		}

		rows := append(append([]domain.BlockRecord(nil), schedule.Day(key)...), block)
		if _, err := domain.ParseBlocks(key, rows); err != nil {
			return err
		}
		if err := h.scheduleRepo.ReplaceDay(txCtx, key, rows); err != nil {
			return err
		}

		result = &AddBlockResult{DayKey: key, Index: len(rows) - 1, BlockCount: len(rows)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewScheduleUpdated([]domain.DayKey{key}, result.BlockCount)
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return result, nil
}
