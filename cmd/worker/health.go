package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/application/services"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

type watcherState interface {
	IsRunning() bool
	Last() *services.Observation
}

// newHealthMux serves /healthz with the watcher's last observation and
// /readyz with the dependency checks.
func newHealthMux(watcher watcherState, health *observability.HealthRegistry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"status":  "ok",
			"running": watcher.IsRunning(),
		}
		if last := watcher.Last(); last != nil {
			response["last_status"] = last.Status
			response["last_reason"] = last.Reason
			response["last_tick_at"] = last.ObservedAt
			response["next_change"] = last.NextChange
			response["published"] = last.Published
		}
		writeJSON(w, http.StatusOK, response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		report := health.Check(checkCtx)
		status := http.StatusOK
		if report.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
