package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// BumpCounterCommand adds Delta to a group's count.
type BumpCounterCommand struct {
	Group string
	Delta int
}

// BumpCounterHandler handles the BumpCounterCommand.
type BumpCounterHandler struct {
	repo      domain.Repository
	publisher sharedApplication.EventPublisher
	logger    *slog.Logger
}

// NewBumpCounterHandler creates a new BumpCounterHandler.
func NewBumpCounterHandler(repo domain.Repository, publisher sharedApplication.EventPublisher, logger *slog.Logger) *BumpCounterHandler {
	return &BumpCounterHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the BumpCounterCommand.
func (h *BumpCounterHandler) Handle(ctx context.Context, cmd BumpCounterCommand) (*domain.Counts, error) {
	group, err := domain.ParseGroup(cmd.Group)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDelta(cmd.Delta); err != nil {
		return nil, err
	}

	counts, err := h.repo.Bump(ctx, group, cmd.Delta)
	if err != nil {
		return nil, err
	}

	event := domain.NewCountsChanged(group, cmd.Delta, counts)
	sharedApplication.PublishAfterCommit(ctx, h.publisher, h.logger, &event)

	return &counts, nil
}
