// Package api provides the hallpass HTTP JSON API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

// CorrelationIDHeader carries the caller's correlation ID in and out.
const CorrelationIDHeader = "X-Correlation-ID"

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	schedule *ScheduleHandler
	tally    *TallyHandler
	board    *BoardHandler
	health   *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:5050",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(
	cfg ServerConfig,
	schedule *ScheduleHandler,
	tally *TallyHandler,
	board *BoardHandler,
	health *observability.HealthRegistry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		schedule: schedule,
		tally:    tally,
		board:    board,
		health:   health,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Status
	s.mux.HandleFunc("GET /api/v1/status", s.schedule.GetStatus)
	s.mux.HandleFunc("GET /api/v1/windows", s.schedule.ListWindows)
	s.mux.HandleFunc("GET /api/v1/board", s.board.GetBoard)

	// Schedule
	s.mux.HandleFunc("GET /api/v1/schedule", s.schedule.GetSchedule)
	s.mux.HandleFunc("GET /api/v1/schedule/export", s.schedule.ExportCSV)
	s.mux.HandleFunc("POST /api/v1/schedule/import", s.schedule.ImportCSV)
	s.mux.HandleFunc("POST /api/v1/schedule/reset", s.schedule.Reset)
	s.mux.HandleFunc("PUT /api/v1/schedule/{day}", s.schedule.SaveDay)
	s.mux.HandleFunc("POST /api/v1/schedule/{day}/blocks", s.schedule.AddBlock)
	s.mux.HandleFunc("DELETE /api/v1/schedule/{day}/blocks/{index}", s.schedule.RemoveBlock)

	// Tally
	s.mux.HandleFunc("GET /api/v1/counters", s.tally.GetCounts)
	s.mux.HandleFunc("POST /api/v1/counter", s.tally.Bump)
	s.mux.HandleFunc("POST /api/v1/counters/reset", s.tally.Reset)
}

// Handler returns the routed handler wrapped in request middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestContext(s.mux)
}

// withRequestContext tags every request with a request ID and the caller's
// correlation ID, and logs the outcome.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(CorrelationIDHeader))
		w.Header().Set(CorrelationIDHeader, observability.CorrelationIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.DebugContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			observability.StatusKey, rec.status,
			observability.DurationKey, time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handleHealth reports every registered dependency check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting hallpass API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down hallpass API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
