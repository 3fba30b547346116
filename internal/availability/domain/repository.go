package domain

import "context"

// ScheduleRepository stores the schedule snapshot.
type ScheduleRepository interface {
	// Load returns every day variant. Days without rows are present and empty.
	Load(ctx context.Context) (Schedule, error)
	// ReplaceDay overwrites the rows of a single day, preserving order.
	ReplaceDay(ctx context.Context, key DayKey, records []BlockRecord) error
	// ReplaceAll overwrites every day variant.
	ReplaceAll(ctx context.Context, schedule Schedule) error
	// Exists reports whether a schedule has ever been stored.
	Exists(ctx context.Context) (bool, error)
}
