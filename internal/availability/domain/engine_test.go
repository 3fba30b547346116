package domain_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func newEngine(t *testing.T) domain.Engine {
	t.Helper()
	engine, err := domain.NewEngine(domain.DefaultClosedMinutes, losAngeles(t))
	require.NoError(t, err)
	return engine
}

// 2025-01-06 is a Monday.
func mondayAt(t *testing.T, hour, minute int) time.Time {
	return time.Date(2025, time.January, 6, hour, minute, 0, 0, losAngeles(t))
}

func mondayBlocks(t *testing.T) []domain.TimeBlock {
	t.Helper()
	blocks, err := domain.ParseBlocks(domain.DayKeyMonday, domain.DefaultSchedule().Day(domain.DayKeyMonday))
	require.NoError(t, err)
	return blocks
}

func block(label string, isClass bool, start, end string) domain.TimeBlock {
	s, err := domain.ParseClockTime(start)
	if err != nil {
		panic(err)
	}
	e, err := domain.ParseClockTime(end)
	if err != nil {
		panic(err)
	}
	return domain.TimeBlock{Label: label, IsClass: isClass, Start: s, End: e}
}

func TestNewEngine(t *testing.T) {
	engine, err := domain.NewEngine(10, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, engine.ClosedMinutes())
	assert.Equal(t, time.UTC, engine.Location())

	_, err = domain.NewEngine(-1, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidClosedMinutes)
}

func TestEngine_Classify_Scenarios(t *testing.T) {
	engine := newEngine(t)
	blocks := mondayBlocks(t)

	tests := []struct {
		name       string
		now        time.Time
		status     domain.Status
		reason     string
		nextChange *time.Time
	}{
		{
			name:       "first minutes of class",
			now:        mondayAt(t, 8, 15),
			status:     domain.StatusClosed,
			reason:     "Period 2: first 15 min",
			nextChange: ptr(mondayAt(t, 8, 25)),
		},
		{
			name:       "last minutes of class",
			now:        mondayAt(t, 8, 40),
			status:     domain.StatusClosed,
			reason:     "Period 2: last 15 min",
			nextChange: ptr(mondayAt(t, 8, 48)),
		},
		{
			name:       "middle of class",
			now:        mondayAt(t, 8, 30),
			status:     domain.StatusOpen,
			reason:     "Period 2: middle of class",
			nextChange: ptr(mondayAt(t, 8, 33)),
		},
		{
			name:       "non-class block",
			now:        mondayAt(t, 9, 34),
			status:     domain.StatusOpen,
			reason:     "Nutrition Break",
			nextChange: ptr(mondayAt(t, 9, 38)),
		},
		{
			name:       "before school",
			now:        mondayAt(t, 7, 0),
			status:     domain.StatusOutside,
			reason:     domain.ReasonBeforeHours,
			nextChange: ptr(mondayAt(t, 8, 10)),
		},
		{
			name:   "after school",
			now:    mondayAt(t, 13, 30),
			status: domain.StatusOutside,
			reason: domain.ReasonAfterHours,
		},
		{
			name:       "gap between blocks",
			now:        mondayAt(t, 8, 50),
			status:     domain.StatusOpen,
			reason:     domain.ReasonPassingTime,
			nextChange: ptr(mondayAt(t, 8, 52)),
		},
		{
			name:       "class boundary belongs to the later block",
			now:        mondayAt(t, 9, 30),
			status:     domain.StatusOpen,
			reason:     "Nutrition Break",
			nextChange: ptr(mondayAt(t, 9, 38)),
		},
		{
			name:       "closed until boundary is open",
			now:        mondayAt(t, 8, 25),
			status:     domain.StatusOpen,
			reason:     "Period 2: middle of class",
			nextChange: ptr(mondayAt(t, 8, 33)),
		},
		{
			name:       "closed from boundary is closed",
			now:        mondayAt(t, 8, 33),
			status:     domain.StatusClosed,
			reason:     "Period 2: last 15 min",
			nextChange: ptr(mondayAt(t, 8, 48)),
		},
		{
			name:   "day end is after hours",
			now:    mondayAt(t, 13, 0),
			status: domain.StatusOutside,
			reason: domain.ReasonAfterHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Classify(tt.now, blocks)

			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.reason, result.Reason)
			if tt.nextChange == nil {
				assert.Nil(t, result.NextChange)
				return
			}
			require.NotNil(t, result.NextChange)
			assert.True(t, tt.nextChange.Equal(*result.NextChange), "want %s, got %s", tt.nextChange, result.NextChange)
		})
	}
}

func TestEngine_Classify_NoBlocks(t *testing.T) {
	engine := newEngine(t)

	result := engine.Classify(mondayAt(t, 9, 0), nil)

	assert.Equal(t, domain.StatusOutside, result.Status)
	assert.Equal(t, domain.ReasonNoSchedule, result.Reason)
	assert.Nil(t, result.NextChange)
}

func TestEngine_Classify_ConvertsToFacilityTimezone(t *testing.T) {
	engine := newEngine(t)

	// 16:15 UTC is 08:15 in Los Angeles during standard time.
	now := time.Date(2025, time.January, 6, 16, 15, 0, 0, time.UTC)
	result := engine.Classify(now, mondayBlocks(t))

	assert.Equal(t, domain.StatusClosed, result.Status)
	assert.Equal(t, "Period 2: first 15 min", result.Reason)
	require.NotNil(t, result.NextChange)
	assert.True(t, mondayAt(t, 8, 25).Equal(*result.NextChange))
	assert.Equal(t, "America/Los_Angeles", result.NextChange.Location().String())
}

func TestEngine_Classify_BeforeFirstBlockAlwaysOutside(t *testing.T) {
	engine := newEngine(t)
	blocks := mondayBlocks(t)
	dayStart := mondayAt(t, 8, 10)

	for now := mondayAt(t, 0, 0); now.Before(dayStart); now = now.Add(7 * time.Minute) {
		result := engine.Classify(now, blocks)
		require.Equal(t, domain.StatusOutside, result.Status, now.String())
		require.NotNil(t, result.NextChange)
		require.True(t, dayStart.Equal(*result.NextChange))
	}
}

func TestEngine_Classify_AfterLastBlockAlwaysOutside(t *testing.T) {
	engine := newEngine(t)
	blocks := mondayBlocks(t)

	for now := mondayAt(t, 13, 0); now.Before(mondayAt(t, 23, 59)); now = now.Add(11 * time.Minute) {
		result := engine.Classify(now, blocks)
		require.Equal(t, domain.StatusOutside, result.Status, now.String())
		require.Equal(t, domain.ReasonAfterHours, result.Reason)
		require.Nil(t, result.NextChange)
	}
}

func TestEngine_Classify_ShortClassNeverOpens(t *testing.T) {
	engine := newEngine(t)
	blocks := []domain.TimeBlock{block("Advisory", true, "08:00", "08:30")}

	for now := mondayAt(t, 8, 0); now.Before(mondayAt(t, 8, 30)); now = now.Add(time.Minute) {
		result := engine.Classify(now, blocks)
		require.Equal(t, domain.StatusClosed, result.Status, now.String())
	}
	assert.Empty(t, engine.OpenWindows(mondayAt(t, 8, 0), blocks))
}

func TestEngine_Classify_LongClassOpensInMiddle(t *testing.T) {
	engine := newEngine(t)
	blocks := []domain.TimeBlock{block("Advisory", true, "08:00", "08:31")}

	result := engine.Classify(mondayAt(t, 8, 15), blocks)
	assert.Equal(t, domain.StatusOpen, result.Status)
	assert.Equal(t, "Advisory: middle of class", result.Reason)

	windows := engine.OpenWindows(mondayAt(t, 8, 0), blocks)
	require.Len(t, windows, 1)
	assert.Equal(t, time.Minute, windows[0].Duration())
}

func TestEngine_Classify_OverlapFirstMatchWins(t *testing.T) {
	engine := newEngine(t)
	blocks := []domain.TimeBlock{
		block("Assembly", false, "09:00", "10:00"),
		block("Period 3", true, "09:00", "10:00"),
	}

	result := engine.Classify(mondayAt(t, 9, 5), blocks)
	assert.Equal(t, domain.StatusOpen, result.Status)
	assert.Equal(t, "Assembly", result.Reason)

	reversed := []domain.TimeBlock{blocks[1], blocks[0]}
	result = engine.Classify(mondayAt(t, 9, 5), reversed)
	assert.Equal(t, domain.StatusClosed, result.Status)
	assert.Equal(t, "Period 3: first 15 min", result.Reason)
}

func TestEngine_Classify_DegenerateBlockNeverMatches(t *testing.T) {
	engine := newEngine(t)
	blocks := []domain.TimeBlock{
		block("Period 1", true, "08:00", "09:00"),
		block("Broken", false, "09:30", "09:10"),
		block("Period 2", true, "10:00", "11:00"),
	}

	result := engine.Classify(mondayAt(t, 9, 20), blocks)
	assert.Equal(t, domain.StatusOpen, result.Status)
	assert.Equal(t, domain.ReasonPassingTime, result.Reason)
	require.NotNil(t, result.NextChange)
	assert.True(t, mondayAt(t, 9, 30).Equal(*result.NextChange))

	for _, w := range engine.OpenWindows(mondayAt(t, 8, 0), blocks) {
		assert.NotEqual(t, "Broken", w.Label)
	}
}

func TestEngine_Classify_ZeroClosedMinutes(t *testing.T) {
	engine, err := domain.NewEngine(0, losAngeles(t))
	require.NoError(t, err)

	result := engine.Classify(mondayAt(t, 8, 10), mondayBlocks(t))
	assert.Equal(t, domain.StatusOpen, result.Status)
	assert.Equal(t, "Period 2: middle of class", result.Reason)
	require.NotNil(t, result.NextChange)
	assert.True(t, mondayAt(t, 8, 48).Equal(*result.NextChange))
}

func TestEngine_Idempotent(t *testing.T) {
	engine := newEngine(t)
	blocks := mondayBlocks(t)
	snapshot := append([]domain.TimeBlock(nil), blocks...)
	now := mondayAt(t, 10, 40)

	assert.Equal(t, engine.Classify(now, blocks), engine.Classify(now, blocks))
	assert.Equal(t, engine.OpenWindows(now, blocks), engine.OpenWindows(now, blocks))
	assert.Equal(t, snapshot, blocks)
}

func TestEngine_OpenWindows_Monday(t *testing.T) {
	engine := newEngine(t)

	windows := engine.OpenWindows(mondayAt(t, 12, 0), mondayBlocks(t))

	type window struct{ start, end, label string }
	expected := []window{
		{"08:25", "08:33", "Period 2 (middle of class)"},
		{"08:48", "08:52", "Passing time"},
		{"09:07", "09:15", "Period 3 (middle of class)"},
		{"09:30", "09:38", "Nutrition Break"},
		{"09:38", "09:40", "Passing time"},
		{"09:55", "10:03", "Period 4 (middle of class)"},
		{"10:18", "10:22", "Passing time"},
		{"10:37", "10:45", "Period 5 (middle of class)"},
		{"11:00", "11:05", "Passing time"},
		{"11:05", "11:35", "Lunch"},
		{"11:35", "11:40", "Passing time"},
		{"11:55", "12:03", "Period 6 (middle of class)"},
		{"12:18", "12:22", "Passing time"},
		{"12:37", "12:45", "Period 7 (middle of class)"},
	}

	require.Len(t, windows, len(expected))
	for i, want := range expected {
		assert.Equal(t, want.start, windows[i].Start.Format("15:04"), "window %d start", i)
		assert.Equal(t, want.end, windows[i].End.Format("15:04"), "window %d end", i)
		assert.Equal(t, want.label, windows[i].Label, "window %d label", i)
	}
}

func TestEngine_OpenWindows_SortedAndDisjoint(t *testing.T) {
	engine := newEngine(t)

	for _, key := range domain.DayKeys() {
		blocks, err := domain.ParseBlocks(key, domain.DefaultSchedule().Day(key))
		require.NoError(t, err)

		windows := engine.OpenWindows(mondayAt(t, 9, 0), blocks)
		require.NotEmpty(t, windows)
		for i := 1; i < len(windows); i++ {
			assert.False(t, windows[i].Start.Before(windows[i-1].Start), "%s: window %d out of order", key, i)
			assert.False(t, windows[i].Start.Before(windows[i-1].End), "%s: window %d overlaps", key, i)
		}
		for _, w := range windows {
			assert.True(t, w.End.After(w.Start))
		}
	}
}

func TestEngine_OpenWindows_SortsOutOfOrderInput(t *testing.T) {
	engine := newEngine(t)
	blocks := []domain.TimeBlock{
		block("Lunch", false, "12:00", "12:30"),
		block("Break", false, "10:00", "10:15"),
	}

	windows := engine.OpenWindows(mondayAt(t, 9, 0), blocks)

	require.Len(t, windows, 2)
	assert.Equal(t, "Break", windows[0].Label)
	assert.Equal(t, "Lunch", windows[1].Label)
}

func TestEngine_OpenWindows_NoBlocks(t *testing.T) {
	engine := newEngine(t)
	assert.Empty(t, engine.OpenWindows(mondayAt(t, 9, 0), nil))
}

func TestEngine_ClassifyAgreesWithOpenWindows(t *testing.T) {
	engine := newEngine(t)

	for _, key := range domain.DayKeys() {
		blocks, err := domain.ParseBlocks(key, domain.DefaultSchedule().Day(key))
		require.NoError(t, err)
		windows := engine.OpenWindows(mondayAt(t, 0, 0), blocks)

		for now := mondayAt(t, 8, 10); now.Before(mondayAt(t, 15, 0)); now = now.Add(time.Minute) {
			result := engine.Classify(now, blocks)
			if result.Status == domain.StatusOutside {
				continue
			}
			inWindow := false
			for _, w := range windows {
				if !now.Before(w.Start) && now.Before(w.End) {
					inWindow = true
					break
				}
			}
			require.Equal(t, result.Status == domain.StatusOpen, inWindow, "%s at %s: %s", key, now.Format("15:04"), result.Reason)
		}
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
