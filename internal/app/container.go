package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	availabilityCommands "github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	availabilityServices "github.com/felixgeelhaar/hallpass/internal/availability/application/services"
	availabilityDomain "github.com/felixgeelhaar/hallpass/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/hallpass/internal/shared/application"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/migrations"
	tallyCommands "github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	tallyQueries "github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	tallyDomain "github.com/felixgeelhaar/hallpass/internal/tally/domain"
	"github.com/felixgeelhaar/hallpass/internal/tally/infrastructure/redisstore"
	"github.com/felixgeelhaar/hallpass/pkg/config"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	ScheduleRepo availabilityDomain.ScheduleRepository
	TallyRepo    tallyDomain.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Publishers
	Publisher      eventbus.Publisher
	Breakers       []*eventbus.BreakerPublisher
	EventPublisher sharedApplication.EventPublisher

	// Status engine
	Engine availabilityDomain.Engine

	// Schedule Command Handlers
	SaveDayHandler       *availabilityCommands.SaveDayHandler
	AddBlockHandler      *availabilityCommands.AddBlockHandler
	RemoveBlockHandler   *availabilityCommands.RemoveBlockHandler
	ImportCSVHandler     *availabilityCommands.ImportCSVHandler
	ResetScheduleHandler *availabilityCommands.ResetScheduleHandler
	SeedDefaultsHandler  *availabilityCommands.SeedDefaultsHandler

	// Schedule Query Handlers
	GetStatusHandler       *availabilityQueries.GetStatusHandler
	ListOpenWindowsHandler *availabilityQueries.ListOpenWindowsHandler
	GetScheduleHandler     *availabilityQueries.GetScheduleHandler
	ExportCSVHandler       *availabilityQueries.ExportCSVHandler

	// Tally Handlers
	BumpCounterHandler   *tallyCommands.BumpCounterHandler
	ResetCountersHandler *tallyCommands.ResetCountersHandler
	GetCountsHandler     *tallyQueries.GetCountsHandler

	// Health
	Health *observability.HealthRegistry
}

// NewContainer opens the stores, applies migrations, seeds the default
// schedule on first start and builds every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	c.Engine, err = availabilityDomain.NewEngine(cfg.ClosedMinutes, loc)
	if err != nil {
		return nil, err
	}

	if err := c.openDatabase(ctx); err != nil {
		return nil, err
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	factory := NewRepositoryFactory(c.DB, c.redisOrNil(), logger)
	if c.ScheduleRepo, err = factory.ScheduleRepository(); err != nil {
		c.Close()
		return nil, err
	}
	if c.TallyRepo, err = factory.TallyRepository(); err != nil {
		c.Close()
		return nil, err
	}
	c.UnitOfWork = database.NewUnitOfWork(c.DB)

	if err := c.buildPublishers(); err != nil {
		c.Close()
		return nil, err
	}

	c.buildHandlers()
	c.registerHealthChecks()

	seeded, err := c.SeedDefaultsHandler.Handle(ctx, availabilityCommands.SeedDefaultsCommand{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("seed default schedule: %w", err)
	}
	if seeded.Seeded {
		logger.Info("installed default schedule")
	}

	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.Driver(c.Config.DatabaseDriver),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = conn
	c.DBDriver = conn.Driver()
	c.Logger.Info("connected to database", "driver", c.DBDriver)
	return nil
}

// connectRedis is optional in development: a failure falls back to the
// database tally store.
func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	client, err := redisstore.Dial(ctx, c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, tally will use the database", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) redisOrNil() redis.UniversalClient {
	if c.RedisClient == nil {
		return nil
	}
	return c.RedisClient
}

// buildPublishers wraps each configured transport in a circuit breaker and
// fans events out to all of them. Without any transport events are dropped.
func (c *Container) buildPublishers() error {
	breakerConfig := func(name string) eventbus.BreakerConfig {
		return eventbus.BreakerConfig{
			Name:             name,
			FailureThreshold: uint32(max(c.Config.PublishFailureThreshold, 1)),
			OpenTimeout:      c.Config.PublishOpenTimeout,
		}
	}

	var transports []eventbus.Publisher
	add := func(name string, p eventbus.Publisher) {
		breaker := eventbus.NewBreakerPublisher(p, breakerConfig(name), c.Logger)
		c.Breakers = append(c.Breakers, breaker)
		transports = append(transports, breaker)
	}

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			if !c.Config.IsDevelopment() {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, skipping", "error", err)
		} else {
			add("rabbitmq", publisher)
		}
	}

	if c.Config.MQTTBroker != "" {
		publisher, err := eventbus.NewMQTTPublisher(eventbus.MQTTConfig{
			Broker:      c.Config.MQTTBroker,
			ClientID:    c.Config.MQTTClientID,
			TopicPrefix: c.Config.MQTTTopicPrefix,
			Retained: []string{
				availabilityDomain.RoutingKeyStatusChanged,
				tallyDomain.RoutingKeyCountsChanged,
			},
		}, c.Logger)
		if err != nil {
			if !c.Config.IsDevelopment() {
				for _, t := range transports {
					_ = t.Close()
				}
				return fmt.Errorf("failed to connect to MQTT: %w", err)
			}
			c.Logger.Warn("MQTT broker not available, skipping", "error", err)
		} else {
			add("mqtt", publisher)
		}
	}

	switch len(transports) {
	case 0:
		c.Publisher = eventbus.NewNoopPublisher(c.Logger)
	case 1:
		c.Publisher = transports[0]
	default:
		c.Publisher = eventbus.NewFanoutPublisher(transports...)
	}
	c.EventPublisher = eventbus.NewEventPublisher(c.Publisher)
	return nil
}

func (c *Container) buildHandlers() {
	repo, uow, pub, logger := c.ScheduleRepo, c.UnitOfWork, c.EventPublisher, c.Logger

	c.SaveDayHandler = availabilityCommands.NewSaveDayHandler(repo, pub, uow, logger)
	c.AddBlockHandler = availabilityCommands.NewAddBlockHandler(repo, pub, uow, logger)
	c.RemoveBlockHandler = availabilityCommands.NewRemoveBlockHandler(repo, pub, uow, logger)
	c.ImportCSVHandler = availabilityCommands.NewImportCSVHandler(repo, pub, uow, logger)
	c.ResetScheduleHandler = availabilityCommands.NewResetScheduleHandler(repo, pub, uow, logger)
	c.SeedDefaultsHandler = availabilityCommands.NewSeedDefaultsHandler(repo, uow)

	c.GetStatusHandler = availabilityQueries.NewGetStatusHandler(repo, c.Engine)
	c.ListOpenWindowsHandler = availabilityQueries.NewListOpenWindowsHandler(repo, c.Engine)
	c.GetScheduleHandler = availabilityQueries.NewGetScheduleHandler(repo)
	c.ExportCSVHandler = availabilityQueries.NewExportCSVHandler(repo)

	c.BumpCounterHandler = tallyCommands.NewBumpCounterHandler(c.TallyRepo, pub, logger)
	c.ResetCountersHandler = tallyCommands.NewResetCountersHandler(c.TallyRepo, pub, logger)
	c.GetCountsHandler = tallyQueries.NewGetCountsHandler(c.TallyRepo)
}

func (c *Container) registerHealthChecks() {
	c.Health.Register("database", observability.PingChecker("database", true, c.DB.Ping))
	if c.RedisClient != nil {
		client := c.RedisClient
		c.Health.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}
	for _, b := range c.Breakers {
		c.Health.Register("publisher:"+b.Name(), func(context.Context) observability.HealthCheckResult {
			state := b.State()
			status := observability.HealthStatusHealthy
			if state != gobreaker.StateClosed {
				status = observability.HealthStatusDegraded
			}
			return observability.HealthCheckResult{Status: status, Message: "circuit " + state.String()}
		})
	}
}

// NewStatusWatcher builds the worker's status watcher on the container's handlers.
func (c *Container) NewStatusWatcher() *availabilityServices.StatusWatcher {
	return availabilityServices.NewStatusWatcher(
		c.GetStatusHandler,
		c.EventPublisher,
		availabilityServices.StatusWatcherConfig{Interval: c.Config.WatchInterval},
		c.Logger,
	)
}

// Close releases every connection. Errors are logged.
func (c *Container) Close() {
	var errs []error

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event publisher: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}

	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error closing container", "error", err)
	}
}
