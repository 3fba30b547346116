package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/application/services"
	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWatcher struct {
	running bool
	last    *services.Observation
}

func (f fakeWatcher) IsRunning() bool { return f.running }
func (f fakeWatcher) Last() *services.Observation { return f.last }

func TestHealthz(t *testing.T) {
	observed := time.Date(2025, time.January, 6, 16, 15, 0, 0, time.UTC)
	watcher := fakeWatcher{running: true, last: &services.Observation{
		Status:     domain.StatusClosed,
		Reason:     "Period 2: first 15 min",
		ObservedAt: observed,
		Published:  true,
	}}
	mux := newHealthMux(watcher, observability.NewHealthRegistry())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "CLOSED", body["last_status"])
	assert.Equal(t, "2025-01-06T16:15:00Z", body["last_tick_at"])
}

func TestHealthz_BeforeFirstTick(t *testing.T) {
	mux := newHealthMux(fakeWatcher{}, observability.NewHealthRegistry())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "last_status")
}

func TestReadyz(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("database", func(context.Context) observability.HealthCheckResult {
		return observability.HealthCheckResult{Status: observability.HealthStatusUnhealthy, Message: "down"}
	})
	mux := newHealthMux(fakeWatcher{}, health)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "down")
}
