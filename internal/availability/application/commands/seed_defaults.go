package commands

import (
	"context"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
)

// SeedDefaultsCommand installs the default schedule if none was ever stored.
type SeedDefaultsCommand struct{}

// SeedDefaultsResult reports whether the defaults were written.
type SeedDefaultsResult struct {
	Seeded bool
}

// SeedDefaultsHandler handles the SeedDefaultsCommand. It publishes nothing;
// it only runs at startup.
type SeedDefaultsHandler struct {
	scheduleRepo domain.ScheduleRepository
	uow          sharedApplication.UnitOfWork
}

// NewSeedDefaultsHandler creates a new SeedDefaultsHandler.
func NewSeedDefaultsHandler(scheduleRepo domain.ScheduleRepository, uow sharedApplication.UnitOfWork) *SeedDefaultsHandler {
	return &SeedDefaultsHandler{scheduleRepo: scheduleRepo, uow: uow}
}

// Handle executes the SeedDefaultsCommand.
func (h *SeedDefaultsHandler) Handle(ctx context.Context, _ SeedDefaultsCommand) (*SeedDefaultsResult, error) {
	result := &SeedDefaultsResult{}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		exists, err := h.scheduleRepo.Exists(txCtx)
		if err != nil || exists {
			return err
		}
		result.Seeded = true
		return h.scheduleRepo.ReplaceAll(txCtx, domain.DefaultSchedule())
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
