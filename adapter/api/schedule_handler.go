package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	"github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

const maxImportBytes = 1 << 20

// ScheduleHandler handles status and schedule API requests.
type ScheduleHandler struct {
	getStatus   *queries.GetStatusHandler
	listWindows *queries.ListOpenWindowsHandler
	getSchedule *queries.GetScheduleHandler
	exportCSV   *queries.ExportCSVHandler
	saveDay     *commands.SaveDayHandler
	addBlock    *commands.AddBlockHandler
	removeBlock *commands.RemoveBlockHandler
	importCSV   *commands.ImportCSVHandler
	reset       *commands.ResetScheduleHandler
	now         func() time.Time
	logger      *slog.Logger
}

// ScheduleHandlerConfig holds dependencies for the schedule handler.
type ScheduleHandlerConfig struct {
	GetStatus   *queries.GetStatusHandler
	ListWindows *queries.ListOpenWindowsHandler
	GetSchedule *queries.GetScheduleHandler
	ExportCSV   *queries.ExportCSVHandler
	SaveDay     *commands.SaveDayHandler
	AddBlock    *commands.AddBlockHandler
	RemoveBlock *commands.RemoveBlockHandler
	ImportCSV   *commands.ImportCSVHandler
	Reset       *commands.ResetScheduleHandler
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(cfg ScheduleHandlerConfig) *ScheduleHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ScheduleHandler{
		getStatus:   cfg.GetStatus,
		listWindows: cfg.ListWindows,
		getSchedule: cfg.GetSchedule,
		exportCSV:   cfg.ExportCSV,
		saveDay:     cfg.SaveDay,
		addBlock:    cfg.AddBlock,
		removeBlock: cfg.RemoveBlock,
		importCSV:   cfg.ImportCSV,
		reset:       cfg.Reset,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
}

// BlockRequest is one schedule row in a request body.
type BlockRequest struct {
	Label   string `json:"label"`
	IsClass bool   `json:"is_class"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func (b BlockRequest) record() domain.BlockRecord {
	return domain.BlockRecord{Label: b.Label, IsClass: b.IsClass, Start: b.Start, End: b.End}
}

// SaveDayRequest replaces a day's rows.
type SaveDayRequest struct {
	Blocks []BlockRequest `json:"blocks"`
}

// GetStatus handles GET /api/v1/status
func (h *ScheduleHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	at, ok := parseAt(w, r, h.now)
	if !ok {
		return
	}

	result, err := h.getStatus.Handle(r.Context(), queries.GetStatusQuery{At: at})
	if err != nil {
		writeQueryError(w, r, h.logger, "get status", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListWindows handles GET /api/v1/windows
func (h *ScheduleHandler) ListWindows(w http.ResponseWriter, r *http.Request) {
	at, ok := parseAt(w, r, h.now)
	if !ok {
		return
	}

	result, err := h.listWindows.Handle(r.Context(), queries.ListOpenWindowsQuery{At: at})
	if err != nil {
		writeQueryError(w, r, h.logger, "list open windows", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetSchedule handles GET /api/v1/schedule
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.getSchedule.Handle(r.Context(), queries.GetScheduleQuery{})
	if err != nil {
		writeQueryError(w, r, h.logger, "get schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportCSV handles GET /api/v1/schedule/export
func (h *ScheduleHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportCSV.Handle(r.Context(), queries.ExportCSVQuery{})
	if err != nil {
		writeQueryError(w, r, h.logger, "export schedule", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportCSV handles POST /api/v1/schedule/import. The CSV is either the raw
// body or the "file" field of a multipart form.
func (h *ScheduleHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var source io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Form field 'file' is required")
			return
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	result, err := h.importCSV.Handle(r.Context(), commands.ImportCSVCommand{Source: bytes.NewReader(data)})
	if err != nil {
		writeCommandError(w, r, h.logger, "import schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"block_count": result.BlockCount,
		"days":        result.DayCounts,
	})
}

// Reset handles POST /api/v1/schedule/reset
func (h *ScheduleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.reset.Handle(r.Context(), commands.ResetScheduleCommand{})
	if err != nil {
		writeCommandError(w, r, h.logger, "reset schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"block_count": result.BlockCount})
}

// SaveDay handles PUT /api/v1/schedule/{day}
func (h *ScheduleHandler) SaveDay(w http.ResponseWriter, r *http.Request) {
	var req SaveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	blocks := make([]domain.BlockRecord, len(req.Blocks))
	for i, b := range req.Blocks {
		blocks[i] = b.record()
	}

	result, err := h.saveDay.Handle(r.Context(), commands.SaveDayCommand{
		DayKey: r.PathValue("day"),
		Blocks: blocks,
	})
	if err != nil {
		writeCommandError(w, r, h.logger, "save day", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":         result.DayKey,
		"block_count": result.BlockCount,
	})
}

// AddBlock handles POST /api/v1/schedule/{day}/blocks
func (h *ScheduleHandler) AddBlock(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.addBlock.Handle(r.Context(), commands.AddBlockCommand{
		DayKey: r.PathValue("day"),
		Block:  req.record(),
	})
	if err != nil {
		writeCommandError(w, r, h.logger, "add block", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"day":         result.DayKey,
		"index":       result.Index,
		"block_count": result.BlockCount,
	})
}

// RemoveBlock handles DELETE /api/v1/schedule/{day}/blocks/{index}
func (h *ScheduleHandler) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Index must be an integer")
		return
	}

	result, err := h.removeBlock.Handle(r.Context(), commands.RemoveBlockCommand{
		DayKey: r.PathValue("day"),
		Index:  index,
	})
	if err != nil {
		writeCommandError(w, r, h.logger, "remove block", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":         result.DayKey,
		"removed":     BlockRequest(result.Removed),
		"block_count": result.BlockCount,
	})
}

// parseAt reads the optional RFC 3339 "at" parameter.
func parseAt(w http.ResponseWriter, r *http.Request, now func() time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return now(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Parameter 'at' must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return at, true
}
