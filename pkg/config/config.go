package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Facility
	Timezone      string
	ClosedMinutes int

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// MQTT
	MQTTBroker      string
	MQTTTopicPrefix string
	MQTTClientID    string

	// HTTP
	HTTPAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Worker
	WatchInterval    time.Duration
	WorkerHealthAddr string

	// Publishing
	PublishFailureThreshold int
	PublishOpenTimeout      time.Duration
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Timezone:      getEnv("HALLPASS_TIMEZONE", "America/Los_Angeles"),
		ClosedMinutes: getIntEnv("HALLPASS_CLOSED_MINUTES", 15),

		DatabaseURL:    databaseURL,
		DatabaseDriver: getEnv("DATABASE_DRIVER", "auto"),
		SQLitePath:     getEnv("SQLITE_PATH", defaultSQLitePath()),
		LocalMode:      databaseURL == "",

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "hallpass"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "hallpass"),

		HTTPAddr: getEnv("HTTP_ADDR", "0.0.0.0:5050"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		WatchInterval:    getDurationEnv("WATCH_INTERVAL", 15*time.Second),
		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		PublishFailureThreshold: getIntEnv("PUBLISH_FAILURE_THRESHOLD", 5),
		PublishOpenTimeout:      getDurationEnv("PUBLISH_OPEN_TIMEOUT", 30*time.Second),
	}

	if cfg.LocalMode && cfg.DatabaseDriver == "auto" {
		cfg.DatabaseDriver = "sqlite"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.ClosedMinutes < 0 {
		errs = append(errs, fmt.Errorf("HALLPASS_CLOSED_MINUTES must not be negative, got %d", c.ClosedMinutes))
	}
	if c.WatchInterval <= 0 {
		errs = append(errs, fmt.Errorf("WATCH_INTERVAL must be positive, got %s", c.WatchInterval))
	}
	switch c.DatabaseDriver {
	case "auto", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not one of auto, sqlite, postgres", c.DatabaseDriver))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location loads the facility timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("HALLPASS_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".hallpass", "data.db")
	}
	return filepath.Join(home, ".hallpass", "data.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
