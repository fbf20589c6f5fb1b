package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenEnvUnset(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.Empty(t, cfg.TestDataDir)
	assert.Equal(t, 8, cfg.MaxParallelTasks)
}

func TestLoad_HonorsEnvOverrides(t *testing.T) {
	t.Setenv("DASHQL_PORT", "9090")
	t.Setenv("DASHQL_LOG_LEVEL", "debug")
	t.Setenv("DASHQL_DATABASE_DSN", "postgres://localhost/dashql")
	t.Setenv("DASHQL_JWT_SECRET", "prod-secret")
	t.Setenv("DASHQL_MAX_PARALLEL_TASKS", "16")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/dashql", cfg.DatabaseDSN)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, 16, cfg.MaxParallelTasks)
}

func TestLoad_FallsBackOnUnparseableInt(t *testing.T) {
	t.Setenv("DASHQL_MAX_PARALLEL_TASKS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 8, cfg.MaxParallelTasks)
}

func TestGetPortInt(t *testing.T) {
	cfg := &Config{Port: "3000"}
	assert.Equal(t, 3000, cfg.GetPortInt())
}

func TestGetPortInt_ReturnsZeroForNonNumericPort(t *testing.T) {
	cfg := &Config{Port: "not-a-port"}
	assert.Equal(t, 0, cfg.GetPortInt())
}
