package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
)

// resolveAt loads the schedule and resolves the day containing at in the
// engine's timezone. A zero at means now.
func resolveAt(ctx context.Context, repo domain.ScheduleRepository, engine domain.Engine, at time.Time) (time.Time, domain.DayKey, []domain.TimeBlock, error) {
	if at.IsZero() {
		at = time.Now()
	}
	at = at.In(engine.Location())

	schedule, err := repo.Load(ctx)
	if err != nil {
		return at, "", nil, fmt.Errorf("load schedule: %w", err)
	}

	blocks, err := domain.ResolveDay(at, schedule)
	if err != nil {
		return at, "", nil, err
	}

	key, _ := domain.DayKeyFor(at.Weekday())
	return at, key, blocks, nil
}
