package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// ResetCountersCommand sets every count to zero.
type ResetCountersCommand struct{}

// ResetCountersHandler handles the ResetCountersCommand.
type ResetCountersHandler struct {
	repo      domain.Repository
	publisher sharedApplication.EventPublisher
	logger    *slog.Logger
}

// NewResetCountersHandler creates a new ResetCountersHandler.
func NewResetCountersHandler(repo domain.Repository, publisher sharedApplication.EventPublisher, logger *slog.Logger) *ResetCountersHandler {
	return &ResetCountersHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the ResetCountersCommand.
func (h *ResetCountersHandler) Handle(ctx context.Context, _ ResetCountersCommand) (*domain.Counts, error) {
	counts, err := h.repo.Reset(ctx)
	if err != nil {
		return nil, err
	}

	event := domain.NewCountsChanged("", 0, counts)
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return &counts, nil
}
