package domain

import "context"

// Repository stores the tally. Bump must be atomic and clamp at zero.
type Repository interface {
	Get(ctx context.Context) (Counts, error)
	Bump(ctx context.Context, group Group, delta int) (Counts, error)
	Reset(ctx context.Context) (Counts, error)
}
