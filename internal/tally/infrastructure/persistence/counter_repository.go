package persistence

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// CounterRepository implements domain.Repository on SQLite or PostgreSQL.
type CounterRepository struct {
	conn database.Connection
	uow  *database.UnitOfWork
}

// NewCounterRepository creates a CounterRepository.
func NewCounterRepository(conn database.Connection) *CounterRepository {
	return &CounterRepository{conn: conn, uow: database.NewUnitOfWork(conn)}
}

var _ domain.Repository = (*CounterRepository)(nil)

func (r *CounterRepository) Get(ctx context.Context) (domain.Counts, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT group_name, count FROM tally_counters`)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("load counters: %w", err)
	}
	defer rows.Close()

	var counts domain.Counts
	for rows.Next() {
		var (
			name string
			n    int64
		)
		if err := rows.Scan(&name, &n); err != nil {
			return domain.Counts{}, fmt.Errorf("scan counter: %w", err)
		}
		counts = counts.With(domain.Group(name), int(n))
	}
	if err := rows.Err(); err != nil {
		return domain.Counts{}, fmt.Errorf("load counters: %w", err)
	}
	return counts, nil
}

// Bump clamps in SQL so concurrent writers never observe a negative count.
func (r *CounterRepository) Bump(ctx context.Context, group domain.Group, delta int) (domain.Counts, error) {
	if !group.IsValid() {
		return domain.Counts{}, domain.ErrUnknownGroup
	}
	if err := domain.ValidateDelta(delta); err != nil {
		return domain.Counts{}, err
	}

	var counts domain.Counts
	err := sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		if _, err := database.ExecutorFromContext(txCtx, r.conn).Exec(txCtx, `
			INSERT INTO tally_counters (group_name, count) VALUES (?, ?)
			ON CONFLICT (group_name) DO UPDATE SET count =
				CASE WHEN tally_counters.count + ? < 0 THEN 0 ELSE tally_counters.count + ? END`,
			string(group), domain.Clamp(0, delta), delta, delta,
		); err != nil {
			return fmt.Errorf("bump %s: %w", group, err)
		}

		var err error
		counts, err = r.Get(txCtx)
		return err
	})
	return counts, err
}

func (r *CounterRepository) Reset(ctx context.Context) (domain.Counts, error) {
	var counts domain.Counts
	err := sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		exec := database.ExecutorFromContext(txCtx, r.conn)
		for _, group := range domain.Groups() {
			if _, err := exec.Exec(txCtx, `
				INSERT INTO tally_counters (group_name, count) VALUES (?, 0)
				ON CONFLICT (group_name) DO UPDATE SET count = 0`,
				string(group),
			); err != nil {
				return fmt.Errorf("reset %s: %w", group, err)
			}
		}

		var err error
		counts, err = r.Get(txCtx)
		return err
	})
	return counts, err
}
