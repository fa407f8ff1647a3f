package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "TASKS_SERVICE_PORT", "DB_DRIVER", "KAFKA_TOPIC", "ES_INDEX", "AUTO_MIGRATE", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 5003, cfg.ServerPort)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "task_events", cfg.KafkaTopic)
	assert.Equal(t, "tasks", cfg.ESIndex)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TASKS_SERVICE_PORT", "6000")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()
	assert.Equal(t, 6000, cfg.ServerPort)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)

	t.Setenv("SERVER_PORT", "7000")
	assert.Equal(t, 7000, Load().ServerPort)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_FLOAT", "nope")
	t.Setenv("X_BOOL", "nope")
	t.Setenv("X_DUR", "nope")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.Equal(t, 1.5, EnvFloatDefault("X_FLOAT", 1.5))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Minute, EnvDurationDefault("X_DUR", time.Minute))
}

func TestValidate(t *testing.T) {
	drivers := []string{"pgx", "postgres", "sqlite"}

	ok := Config{DatabaseURL: "postgres://x", DBDriver: "pgx", TrustedProxies: []string{"10.0.0.0/8"}}
	require.NoError(t, ok.Validate(drivers...))

	bad := Config{DBDriver: "mysql", TrustedProxies: []string{"10.0.0.1"}}
	err := bad.Validate(drivers...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.0.0/16")
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, Load().TrustedProxies)
}
