// Package logger configures the process-wide zerolog logger, the same
// structured-logging library the scheduler package uses to log task
// failures; this keeps one logging stack in play instead of the
// standard library's slog alongside it.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup configures and returns a zerolog.Logger writing JSON to stdout at
// the given level ("debug", "info", "warn", "error"; anything else falls
// back to "info"). It also sets zerolog.DefaultContextLogger so contexts
// without an attached logger still get one.
func Setup(level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// Default returns a logger at info level, for callers that don't need a
// configurable level (e.g. tests).
func Default() zerolog.Logger {
	return Setup("info")
}
