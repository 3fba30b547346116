package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// ErrBlockNotFound is returned when a row index is outside the day's rows.
var ErrBlockNotFound = errors.New("block not found")

// RemoveBlockCommand deletes the row at Index from a day.
type RemoveBlockCommand struct {
	DayKey string
	Index  int
}

// RemoveBlockResult contains the removed row.
type RemoveBlockResult struct {
	DayKey     domain.DayKey
	Removed    domain.BlockRecord
	BlockCount int
}

// RemoveBlockHandler handles the RemoveBlockCommand.
type RemoveBlockHandler struct {
	scheduleRepo domain.ScheduleRepository
	publisher    sharedApplication.EventPublisher
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewRemoveBlockHandler creates a new RemoveBlockHandler.
func NewRemoveBlockHandler(
	scheduleRepo domain.ScheduleRepository,
	publisher sharedApplication.EventPublisher,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *RemoveBlockHandler {
	return &RemoveBlockHandler{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the RemoveBlockCommand.
func (h *RemoveBlockHandler) Handle(ctx context.Context, cmd RemoveBlockCommand) (*RemoveBlockResult, error) {
	key, err := domain.ParseDayKey(cmd.DayKey)
	if err != nil {
		return nil, err
	}

	var result *RemoveBlockResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		schedule, err := h.scheduleRepo.Load(txCtx)
		if err != nil {
			return err
		}

		rows := schedule.Day(key)
		if cmd.Index < 0 || cmd.Index >= len(rows) {
			return fmt.Errorf("%w: %s[%d]", ErrBlockNotFound, key, cmd.Index)
		}

		removed := rows[cmd.Index]
		remaining := make([]domain.BlockRecord, 0, len(rows)-1)
		remaining = append(remaining, rows[:cmd.Index]...)
		remaining = append(remaining, rows[cmd.Index+1:]...)

		if err := h.scheduleRepo.ReplaceDay(txCtx, key, remaining); err != nil {
			return err
		}

		result = &RemoveBlockResult{DayKey: key, Removed: removed, BlockCount: len(remaining)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewScheduleUpdated([]domain.DayKey{key}, result.BlockCount)
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return result, nil
}
