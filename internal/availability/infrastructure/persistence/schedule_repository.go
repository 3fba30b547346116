package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database"
)

// ScheduleRepository implements domain.ScheduleRepository on SQLite or PostgreSQL.
type ScheduleRepository struct {
	conn database.Connection
	uow  *database.UnitOfWork
}

// NewScheduleRepository creates a ScheduleRepository.
func NewScheduleRepository(conn database.Connection) *ScheduleRepository {
	return &ScheduleRepository{conn: conn, uow: database.NewUnitOfWork(conn)}
}

var _ domain.ScheduleRepository = (*ScheduleRepository)(nil)

func (r *ScheduleRepository) Load(ctx context.Context) (domain.Schedule, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT day_key, label, is_class, start_time, end_time
		FROM schedule_blocks
		ORDER BY day_key, position`)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	schedule := domain.NewSchedule()
	for rows.Next() {
		var (
			key    string
			record domain.BlockRecord
		)
		if err := rows.Scan(&key, &record.Label, &record.IsClass, &record.Start, &record.End); err != nil {
			return nil, fmt.Errorf("scan schedule block: %w", err)
		}
		dayKey := domain.DayKey(key)
		if !dayKey.IsValid() {
			continue
		}
		schedule[dayKey] = append(schedule[dayKey], record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return schedule, nil
}

func (r *ScheduleRepository) ReplaceDay(ctx context.Context, key domain.DayKey, records []domain.BlockRecord) error {
	if !key.IsValid() {
		return domain.ErrUnknownDayKey
	}
	return sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		return r.replaceDay(txCtx, key, records, time.Now().UTC())
	})
}

func (r *ScheduleRepository) ReplaceAll(ctx context.Context, schedule domain.Schedule) error {
	return sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		now := time.Now().UTC()
		for _, key := range domain.DayKeys() {
			if err := r.replaceDay(txCtx, key, schedule[key], now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ScheduleRepository) replaceDay(ctx context.Context, key domain.DayKey, records []domain.BlockRecord, at time.Time) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if _, err := exec.Exec(ctx, `
		INSERT INTO schedule_days (day_key, updated_at) VALUES (?, ?)
		ON CONFLICT (day_key) DO UPDATE SET updated_at = excluded.updated_at`,
		key.String(), at,
	); err != nil {
		return fmt.Errorf("touch %s: %w", key, err)
	}

	if _, err := exec.Exec(ctx, `DELETE FROM schedule_blocks WHERE day_key = ?`, key.String()); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}

	for i, record := range records {
		if _, err := exec.Exec(ctx, `
			INSERT INTO schedule_blocks (day_key, position, label, is_class, start_time, end_time)
			VALUES (?, ?, ?, ?, ?, ?)`,
			key.String(), i, record.Label, record.IsClass, record.Start, record.End,
		); err != nil {
			return fmt.Errorf("insert %s[%d]: %w", key, i, err)
		}
	}
	return nil
}

func (r *ScheduleRepository) Exists(ctx context.Context) (bool, error) {
	var n int64
	if err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `SELECT COUNT(*) FROM schedule_days`).Scan(&n); err != nil {
		return false, fmt.Errorf("check schedule: %w", err)
	}
	return n > 0, nil
}
