// Package config loads process configuration from environment variables
// (see SPEC_FULL.md §2.3).
package config

import (
	"os"
	"strconv"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Port string

	LogLevel string

	// DatabaseDSN selects a Postgres-backed SessionStore when set; an
	// empty value falls back to MemorySessionStore.
	DatabaseDSN string

	// JWTSecret signs/validates websocket bearer tokens.
	JWTSecret string

	// OpenAIAPIKey enables the optional visualization insight generator
	// when set; insights are skipped entirely otherwise.
	OpenAIAPIKey string

	// TestDataDir holds DASHQL_TEST_DATA. LocalRuntime reads that variable
	// itself for test:// imports and does not use this field.
	TestDataDir string

	MaxParallelTasks int
}

// Load reads Config from the environment, applying the defaults a local
// development run needs.
func Load() *Config {
	return &Config{
		Port:             getEnv("DASHQL_PORT", "8080"),
		LogLevel:         getEnv("DASHQL_LOG_LEVEL", "info"),
		DatabaseDSN:      getEnv("DASHQL_DATABASE_DSN", ""),
		JWTSecret:        getEnv("DASHQL_JWT_SECRET", "dev-secret"),
		OpenAIAPIKey:     getEnv("DASHQL_OPENAI_API_KEY", ""),
		TestDataDir:      getEnv("DASHQL_TEST_DATA", ""),
		MaxParallelTasks: getEnvInt("DASHQL_MAX_PARALLEL_TASKS", 8),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// GetPortInt returns Port parsed as an integer, or 0 if it isn't numeric.
func (c *Config) GetPortInt() int {
	p, _ := strconv.Atoi(c.Port)
	return p
}
