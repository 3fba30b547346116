package config

import (
	"os"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
	"HALLPASS_TIMEZONE", "HALLPASS_CLOSED_MINUTES",
	"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH",
	"REDIS_URL", "RABBITMQ_URL",
	"MQTT_BROKER", "MQTT_TOPIC_PREFIX", "MQTT_CLIENT_ID",
	"HTTP_ADDR", "MCP_ADDR", "MCP_AUTH_TOKEN",
	"WATCH_INTERVAL", "WORKER_HEALTH_ADDR",
	"PUBLISH_FAILURE_THRESHOLD", "PUBLISH_OPEN_TIMEOUT",
}

// clearEnv unsets every key Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, 15, cfg.ClosedMinutes)

	assert.True(t, cfg.LocalMode)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Contains(t, cfg.SQLitePath, ".hallpass")

	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "hallpass", cfg.MQTTTopicPrefix)

	assert.Equal(t, "0.0.0.0:5050", cfg.HTTPAddr)
	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
	assert.Equal(t, 15*time.Second, cfg.WatchInterval)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
	assert.Equal(t, 5, cfg.PublishFailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.PublishOpenTimeout)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("HALLPASS_TIMEZONE", "America/New_York")
	t.Setenv("HALLPASS_CLOSED_MINUTES", "10")
	t.Setenv("DATABASE_URL", "postgres://hallpass@localhost/hallpass")
	t.Setenv("WATCH_INTERVAL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10, cfg.ClosedMinutes)
	assert.False(t, cfg.LocalMode)
	assert.Equal(t, "auto", cfg.DatabaseDriver)
	assert.Equal(t, time.Minute, cfg.WatchInterval)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HALLPASS_CLOSED_MINUTES", "fifteen")
	t.Setenv("WATCH_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.ClosedMinutes)
	assert.Equal(t, 15*time.Second, cfg.WatchInterval)
}

func TestValidate(t *testing.T) {
	valid := Config{Timezone: "UTC", ClosedMinutes: 0, WatchInterval: time.Second, DatabaseDriver: "auto"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{name: "negative closed minutes", mutate: func(c *Config) { c.ClosedMinutes = -1 }, msg: "HALLPASS_CLOSED_MINUTES"},
		{name: "zero watch interval", mutate: func(c *Config) { c.WatchInterval = 0 }, msg: "WATCH_INTERVAL"},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, msg: "DATABASE_DRIVER"},
		{name: "unknown timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, msg: "HALLPASS_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
