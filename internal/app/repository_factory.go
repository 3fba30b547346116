package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	availabilityDomain "github.com/felixgeelhaar/hallpass/internal/availability/domain"
	availabilityPersistence "github.com/felixgeelhaar/hallpass/internal/availability/infrastructure/persistence"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database"
	tallyDomain "github.com/felixgeelhaar/hallpass/internal/tally/domain"
	tallyPersistence "github.com/felixgeelhaar/hallpass/internal/tally/infrastructure/persistence"
	"github.com/felixgeelhaar/hallpass/internal/tally/infrastructure/redisstore"
)

// RepositoryFactory creates repositories for the configured stores.
type RepositoryFactory struct {
	conn   database.Connection
	redis  redis.UniversalClient
	logger *slog.Logger
}

// NewRepositoryFactory creates a new repository factory. A nil redis client
// keeps the tally in the database.
func NewRepositoryFactory(conn database.Connection, redisClient redis.UniversalClient, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{conn: conn, redis: redisClient, logger: logger}
}

// ScheduleRepository creates the schedule repository.
func (f *RepositoryFactory) ScheduleRepository() (availabilityDomain.ScheduleRepository, error) {
	if f.conn == nil {
		return nil, fmt.Errorf("schedule repository: no database connection")
	}
	return availabilityPersistence.NewScheduleRepository(f.conn), nil
}

// TallyRepository creates the tally store: Redis when a client is configured,
// the database otherwise.
func (f *RepositoryFactory) TallyRepository() (tallyDomain.Repository, error) {
	if f.redis != nil {
		f.logger.Debug("tally store: redis")
		return redisstore.New(f.redis, ""), nil
	}
	if f.conn == nil {
		return nil, fmt.Errorf("tally repository: no database connection")
	}
	f.logger.Debug("tally store: database", "driver", f.conn.Driver())
	return tallyPersistence.NewCounterRepository(f.conn), nil
}

// Driver returns the database driver.
func (f *RepositoryFactory) Driver() database.Driver {
	if f.conn == nil {
		return ""
	}
	return f.conn.Driver()
}

// Ping checks every configured store.
func (f *RepositoryFactory) Ping(ctx context.Context) error {
	if f.conn != nil {
		if err := f.conn.Ping(ctx); err != nil {
			return err
		}
	}
	if f.redis != nil {
		return f.redis.Ping(ctx).Err()
	}
	return nil
}
