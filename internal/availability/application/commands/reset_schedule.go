package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// ResetScheduleCommand restores the default bell schedule.
type ResetScheduleCommand struct{}

// ResetScheduleResult contains the result of a reset.
type ResetScheduleResult struct {
	BlockCount int
}

// ResetScheduleHandler handles the ResetScheduleCommand.
type ResetScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
	publisher    sharedApplication.EventPublisher
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewResetScheduleHandler creates a new ResetScheduleHandler.
func NewResetScheduleHandler(
	scheduleRepo domain.ScheduleRepository,
	publisher sharedApplication.EventPublisher,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *ResetScheduleHandler {
	return &ResetScheduleHandler{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the ResetScheduleCommand.
func (h *ResetScheduleHandler) Handle(ctx context.Context, _ ResetScheduleCommand) (*ResetScheduleResult, error) {
	schedule := domain.DefaultSchedule()

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.scheduleRepo.ReplaceAll(txCtx, schedule)
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewScheduleUpdated(domain.DayKeys(), schedule.BlockCount())
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return &ResetScheduleResult{BlockCount: schedule.BlockCount()}, nil
}
