package api

import (
	"log/slog"
	"net/http"
	"time"

	availabilityQueries "github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	tallyQueries "github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
)

// BoardResponse is everything a hallway display shows at once.
type BoardResponse struct {
	Status        *availabilityQueries.StatusDTO  `json:"status"`
	Windows       *availabilityQueries.WindowsDTO `json:"windows"`
	Counts        *tallyQueries.CountsDTO         `json:"counts"`
	ClosedMinutes int                             `json:"closed_minutes"`
}

// BoardHandler serves the combined display payload.
type BoardHandler struct {
	getStatus   *availabilityQueries.GetStatusHandler
	listWindows *availabilityQueries.ListOpenWindowsHandler
	getCounts   *tallyQueries.GetCountsHandler
	now         func() time.Time
	logger      *slog.Logger
}

// BoardHandlerConfig holds dependencies for the board handler.
type BoardHandlerConfig struct {
	GetStatus   *availabilityQueries.GetStatusHandler
	ListWindows *availabilityQueries.ListOpenWindowsHandler
	GetCounts   *tallyQueries.GetCountsHandler
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(cfg BoardHandlerConfig) *BoardHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BoardHandler{
		getStatus:   cfg.GetStatus,
		listWindows: cfg.ListWindows,
		getCounts:   cfg.GetCounts,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
}

// GetBoard handles GET /api/v1/board
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	at, ok := parseAt(w, r, h.now)
	if !ok {
		return
	}
	ctx := r.Context()

	status, err := h.getStatus.Handle(ctx, availabilityQueries.GetStatusQuery{At: at})
	if err != nil {
		writeQueryError(w, r, h.logger, "get status", err)
		return
	}

	windows, err := h.listWindows.Handle(ctx, availabilityQueries.ListOpenWindowsQuery{At: at})
	if err != nil {
		writeQueryError(w, r, h.logger, "list open windows", err)
		return
	}

	counts, err := h.getCounts.Handle(ctx, tallyQueries.GetCountsQuery{})
	if err != nil {
		writeQueryError(w, r, h.logger, "get counters", err)
		return
	}

	writeJSON(w, http.StatusOK, BoardResponse{
		Status:        status,
		Windows:       windows,
		Counts:        counts,
		ClosedMinutes: status.ClosedMinutes,
	})
}
