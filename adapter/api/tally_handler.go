package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	"github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// TallyHandler handles visit counter requests.
type TallyHandler struct {
	getCounts *queries.GetCountsHandler
	bump      *commands.BumpCounterHandler
	reset     *commands.ResetCountersHandler
	logger    *slog.Logger
}

// NewTallyHandler creates a new tally handler.
func NewTallyHandler(
	getCounts *queries.GetCountsHandler,
	bump *commands.BumpCounterHandler,
	reset *commands.ResetCountersHandler,
	logger *slog.Logger,
) *TallyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TallyHandler{getCounts: getCounts, bump: bump, reset: reset, logger: logger}
}

// BumpRequest changes one group's count.
type BumpRequest struct {
	Who   string `json:"who"`
	Delta int    `json:"delta"`
}

// GetCounts handles GET /api/v1/counters
func (h *TallyHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.getCounts.Handle(r.Context(), queries.GetCountsQuery{})
	if err != nil {
		writeQueryError(w, r, h.logger, "get counters", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Bump handles POST /api/v1/counter
func (h *TallyHandler) Bump(w http.ResponseWriter, r *http.Request) {
	var req BumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	counts, err := h.bump.Handle(r.Context(), commands.BumpCounterCommand{Group: req.Who, Delta: req.Delta})
	if err != nil {
		writeCommandError(w, r, h.logger, "bump counter", err)
		return
	}

	writeJSON(w, http.StatusOK, countsDTO(*counts))
}

// Reset handles POST /api/v1/counters/reset
func (h *TallyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reset.Handle(r.Context(), commands.ResetCountersCommand{})
	if err != nil {
		writeCommandError(w, r, h.logger, "reset counters", err)
		return
	}

	writeJSON(w, http.StatusOK, countsDTO(*counts))
}

func countsDTO(c domain.Counts) queries.CountsDTO {
	return queries.CountsDTO{Girls: c.Girls, Boys: c.Boys, Total: c.Total()}
}
