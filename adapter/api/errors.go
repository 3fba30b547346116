package api

import (
	"errors"
	"log/slog"
	"net/http"

	availabilityCommands "github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	availabilityDomain "github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/availability/infrastructure/schedulecsv"
	tallyDomain "github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// commandErrorStatus maps errors from write handlers to HTTP statuses.
// Validation failures are the caller's fault.
func commandErrorStatus(err error) int {
	switch {
	case errors.Is(err, availabilityCommands.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, availabilityDomain.ErrUnknownDayKey),
		errors.Is(err, availabilityCommands.ErrEmptyBlockField),
		errors.Is(err, availabilityDomain.ErrMalformedScheduleEntry),
		errors.Is(err, schedulecsv.ErrInvalidCSV),
		errors.Is(err, tallyDomain.ErrUnknownGroup),
		errors.Is(err, tallyDomain.ErrInvalidDelta):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeCommandError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, action string, err error) {
	status := commandErrorStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "failed to "+action, "error", err)
		writeError(w, status, "Failed to "+action)
		return
	}
	writeError(w, status, err.Error())
}

// writeQueryError reports read failures. A malformed stored entry is a
// server-side data problem, so its message is surfaced for the editor.
func writeQueryError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, action string, err error) {
	logger.ErrorContext(r.Context(), "failed to "+action, "error", err)
	if errors.Is(err, availabilityDomain.ErrMalformedScheduleEntry) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to "+action)
}
