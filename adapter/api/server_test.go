package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	availabilityCommands "github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	availabilityDomain "github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedDomain "github.com/felixgeelhaar/hallpass/internal/shared/domain"
	tallyCommands "github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	tallyQueries "github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	tallyDomain "github.com/felixgeelhaar/hallpass/internal/tally/domain"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memScheduleRepo is an in-memory schedule store.
type memScheduleRepo struct {
	mu       sync.Mutex
	schedule availabilityDomain.Schedule
	loadErr  error
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{schedule: availabilityDomain.DefaultSchedule()}
}

func (r *memScheduleRepo) Load(_ context.Context) (availabilityDomain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.schedule.Clone(), nil
}

func (r *memScheduleRepo) ReplaceDay(_ context.Context, key availabilityDomain.DayKey, records []availabilityDomain.BlockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedule[key] = append([]availabilityDomain.BlockRecord(nil), records...)
	return nil
}

func (r *memScheduleRepo) ReplaceAll(_ context.Context, schedule availabilityDomain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedule = availabilityDomain.NewSchedule()
	for key, rows := range schedule {
		r.schedule[key] = append([]availabilityDomain.BlockRecord(nil), rows...)
	}
	return nil
}

func (r *memScheduleRepo) Exists(_ context.Context) (bool, error) {
	return true, nil
}

// memTallyRepo is an in-memory counter store.
type memTallyRepo struct {
	mu     sync.Mutex
	counts tallyDomain.Counts
}

func (r *memTallyRepo) Get(_ context.Context) (tallyDomain.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts, nil
}

func (r *memTallyRepo) Bump(_ context.Context, group tallyDomain.Group, delta int) (tallyDomain.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = r.counts.With(group, tallyDomain.Clamp(r.counts.Of(group), delta))
	return r.counts, nil
}

func (r *memTallyRepo) Reset(_ context.Context) (tallyDomain.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = tallyDomain.Counts{}
	return r.counts, nil
}

type passthroughUoW struct{}

func (passthroughUoW) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (passthroughUoW) Commit(context.Context) error { return nil }
func (passthroughUoW) Rollback(context.Context) error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []sharedDomain.DomainEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event sharedDomain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey()
	}
	return keys
}

type testServer struct {
	server    *Server
	schedule  *memScheduleRepo
	tally     *memTallyRepo
	publisher *recordingPublisher
}

// mondayMorning is 08:15 on Monday 2025-01-06 in Los Angeles.
var mondayMorning = time.Date(2025, time.January, 6, 16, 15, 0, 0, time.UTC)

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	engine, err := availabilityDomain.NewEngine(availabilityDomain.DefaultClosedMinutes, loc)
	require.NoError(t, err)

	scheduleRepo := newMemScheduleRepo()
	tallyRepo := &memTallyRepo{}
	publisher := &recordingPublisher{}
	uow := passthroughUoW{}
	now := func() time.Time { return mondayMorning }

	getStatus := availabilityQueries.NewGetStatusHandler(scheduleRepo, engine)
	listWindows := availabilityQueries.NewListOpenWindowsHandler(scheduleRepo, engine)
	getCounts := tallyQueries.NewGetCountsHandler(tallyRepo)

	schedule := NewScheduleHandler(ScheduleHandlerConfig{
		GetStatus:   getStatus,
		ListWindows: listWindows,
		GetSchedule: availabilityQueries.NewGetScheduleHandler(scheduleRepo),
		ExportCSV:   availabilityQueries.NewExportCSVHandler(scheduleRepo),
		SaveDay:     availabilityCommands.NewSaveDayHandler(scheduleRepo, publisher, uow, nil),
		AddBlock:    availabilityCommands.NewAddBlockHandler(scheduleRepo, publisher, uow, nil),
		RemoveBlock: availabilityCommands.NewRemoveBlockHandler(scheduleRepo, publisher, uow, nil),
		ImportCSV:   availabilityCommands.NewImportCSVHandler(scheduleRepo, publisher, uow, nil),
		Reset:       availabilityCommands.NewResetScheduleHandler(scheduleRepo, publisher, uow, nil),
		Now:         now,
	})
	tally := NewTallyHandler(
		getCounts,
		tallyCommands.NewBumpCounterHandler(tallyRepo, publisher, nil),
		tallyCommands.NewResetCountersHandler(tallyRepo, publisher, nil),
		nil,
	)
	board := NewBoardHandler(BoardHandlerConfig{
		GetStatus:   getStatus,
		ListWindows: listWindows,
		GetCounts:   getCounts,
		Now:         now,
	})

	health := observability.NewHealthRegistry()
	health.Register("database", func(context.Context) observability.HealthCheckResult {
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
	})

	return &testServer{
		server:    NewServer(DefaultServerConfig(), schedule, tally, board, health, nil),
		schedule:  scheduleRepo,
		tally:     tallyRepo,
		publisher: publisher,
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	report := decode[observability.HealthReport](t, rec)
	assert.Equal(t, observability.HealthStatusHealthy, report.Status)
	assert.Contains(t, report.Checks, "database")
}

func TestServer_CorrelationID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(CorrelationIDHeader, "corr-123")
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "corr-123", rec.Header().Get(CorrelationIDHeader))

	rec = ts.do(t, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get(CorrelationIDHeader))
}

func TestScheduleHandler_GetStatus(t *testing.T) {
	ts := newTestServer(t)

	t.Run("defaults to now", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/status", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		status := decode[availabilityQueries.StatusDTO](t, rec)
		assert.Equal(t, "CLOSED", status.Status)
		assert.Equal(t, "Period 2: first 15 min", status.Reason)
		require.NotNil(t, status.NextChange)
		assert.Equal(t, "monday", status.DayKey)
	})

	t.Run("explicit at", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/status?at=2025-01-07T09:00:00-08:00", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		status := decode[availabilityQueries.StatusDTO](t, rec)
		assert.Equal(t, "OPEN", status.Status)
		assert.Equal(t, "Period 2: middle of class", status.Reason)
	})

	t.Run("weekend", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/status?at=2025-01-04T10:00:00-08:00", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		status := decode[availabilityQueries.StatusDTO](t, rec)
		assert.Equal(t, "OUTSIDE", status.Status)
		assert.Nil(t, status.NextChange)
	})

	t.Run("invalid at", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/status?at=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestScheduleHandler_GetStatus_MalformedSchedule(t *testing.T) {
	ts := newTestServer(t)
	ts.schedule.schedule[availabilityDomain.DayKeyMonday][0].Start = "8am"

	rec := ts.do(t, http.MethodGet, "/api/v1/status", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "8am")
}

func TestScheduleHandler_GetStatus_LoadError(t *testing.T) {
	ts := newTestServer(t)
	ts.schedule.loadErr = errors.New("disk on fire")

	rec := ts.do(t, http.MethodGet, "/api/v1/status", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestScheduleHandler_ListWindows(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/windows", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	windows := decode[availabilityQueries.WindowsDTO](t, rec)
	assert.Equal(t, "2025-01-06", windows.Date)
	assert.Equal(t, 15, windows.ClosedMinutes)
	require.NotEmpty(t, windows.Windows)
	assert.Equal(t, "Period 2 (middle of class)", windows.Windows[0].Label)
}

func TestBoardHandler_GetBoard(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.tally.Bump(context.Background(), tallyDomain.GroupGirls, 1)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/board", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[BoardResponse](t, rec)
	require.NotNil(t, board.Status)
	require.NotNil(t, board.Windows)
	require.NotNil(t, board.Counts)
	assert.Equal(t, "CLOSED", board.Status.Status)
	assert.Equal(t, 1, board.Counts.Girls)
	assert.Equal(t, 15, board.ClosedMinutes)
}

func TestScheduleHandler_GetSchedule(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/schedule", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	schedule := decode[availabilityQueries.ScheduleDTO](t, rec)
	require.Len(t, schedule.Days, 2)
	assert.Equal(t, "monday", schedule.Days[0].Key)
	assert.Len(t, schedule.Days[0].Blocks, 8)
	assert.Len(t, schedule.Days[1].Blocks, 9)
}

func TestScheduleHandler_SaveDay(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/schedule/monday", SaveDayRequest{
		Blocks: []BlockRequest{{Label: "Assembly", IsClass: true, Start: "08:00", End: "10:00"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyMonday], 1)
	assert.Equal(t, []string{availabilityDomain.RoutingKeyScheduleUpdated}, ts.publisher.routingKeys())

	status := decode[availabilityQueries.StatusDTO](t, ts.do(t, http.MethodGet, "/api/v1/status", nil))
	assert.Equal(t, "Assembly: middle of class", status.Reason)
}

func TestScheduleHandler_SaveDay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   any
		status int
	}{
		{name: "unknown day", target: "/api/v1/schedule/saturday", body: SaveDayRequest{}, status: http.StatusBadRequest},
		{name: "bad json", target: "/api/v1/schedule/monday", body: "{", status: http.StatusBadRequest},
		{
			name:   "malformed time",
			target: "/api/v1/schedule/monday",
			body:   SaveDayRequest{Blocks: []BlockRequest{{Label: "P1", Start: "8", End: "09:00"}}},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyMonday], 8)
			assert.Empty(t, ts.publisher.routingKeys())
		})
	}
}

func TestScheduleHandler_AddAndRemoveBlock(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/schedule/tue-fri/blocks", BlockRequest{
		Label: "Advisory", IsClass: true, Start: "13:40", End: "14:20",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[map[string]any](t, rec)
	assert.EqualValues(t, 9, added["index"])
	assert.EqualValues(t, 10, added["block_count"])

	rec = ts.do(t, http.MethodDelete, "/api/v1/schedule/tue-fri/blocks/9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyTueFri], 9)

	rec = ts.do(t, http.MethodDelete, "/api/v1/schedule/tue-fri/blocks/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/schedule/tue-fri/blocks/first", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHandler_AddBlock_EmptyLabel(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/schedule/monday/blocks", BlockRequest{
		Label: "", IsClass: true, Start: "13:40", End: "14:20",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, http.StatusText(http.StatusBadRequest), body["error"])
	assert.Equal(t, availabilityCommands.ErrEmptyBlockField.Error(), body["message"])
	assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyMonday], 8)
	assert.Empty(t, ts.publisher.routingKeys())
}

func TestScheduleHandler_ExportCSV(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/schedule/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "day,label,is_class,start,end"))
}

func TestScheduleHandler_ImportCSV(t *testing.T) {
	csv := "day,label,is_class,start,end\ntue-fri,Assembly,1,08:00,10:00\nmonday,Lunch,0,11:00,11:30\n"

	t.Run("raw body", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/v1/schedule/import", csv)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 2, decode[map[string]any](t, rec)["block_count"])
		assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyTueFri], 1)
	})

	t.Run("multipart", func(t *testing.T) {
		ts := newTestServer(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "schedule.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csv))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		ts.server.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyMonday], 1)
	})

	t.Run("invalid rows leave schedule untouched", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/v1/schedule/import", "day,label,is_class,start,end\nmonday,P1,1,8am,09:00\n")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, ts.schedule.schedule[availabilityDomain.DayKeyMonday], 8)
	})
}

func TestScheduleHandler_Reset(t *testing.T) {
	ts := newTestServer(t)
	ts.schedule.schedule = availabilityDomain.NewSchedule()

	rec := ts.do(t, http.MethodPost, "/api/v1/schedule/reset", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 17, ts.schedule.schedule.BlockCount())
}

func TestTallyHandler(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/counter", BumpRequest{Who: "girls", Delta: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/v1/counter", BumpRequest{Who: "Boys", Delta: -1})
	require.Equal(t, http.StatusOK, rec.Code)

	counts := decode[tallyQueries.CountsDTO](t, ts.do(t, http.MethodGet, "/api/v1/counters", nil))
	assert.Equal(t, tallyQueries.CountsDTO{Girls: 1, Boys: 0, Total: 1}, counts)

	rec = ts.do(t, http.MethodPost, "/api/v1/counter", BumpRequest{Who: "staff", Delta: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/v1/counter", BumpRequest{Who: "girls", Delta: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/counters/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tallyQueries.CountsDTO{}, decode[tallyQueries.CountsDTO](t, rec))

	for _, key := range ts.publisher.routingKeys() {
		assert.Equal(t, tallyDomain.RoutingKeyCountsChanged, key)
	}
}
