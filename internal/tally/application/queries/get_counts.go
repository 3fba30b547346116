package queries

import (
	"context"

	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// CountsDTO is the tally with its total.
type CountsDTO struct {
	Girls int `json:"girls"`
	Boys  int `json:"boys"`
	Total int `json:"total"`
}

// GetCountsQuery asks for the current tally.
type GetCountsQuery struct{}

// GetCountsHandler handles the GetCountsQuery.
type GetCountsHandler struct {
	repo domain.Repository
}

// NewGetCountsHandler creates a new GetCountsHandler.
func NewGetCountsHandler(repo domain.Repository) *GetCountsHandler {
	return &GetCountsHandler{repo: repo}
}

// Handle executes the GetCountsQuery.
func (h *GetCountsHandler) Handle(ctx context.Context, _ GetCountsQuery) (*CountsDTO, error) {
	counts, err := h.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &CountsDTO{Girls: counts.Girls, Boys: counts.Boys, Total: counts.Total()}, nil
}
