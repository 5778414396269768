// Package logging wires the process-wide slog default to a tint handler.
// The engine itself only emits debug and warn records (rejected commands,
// degenerate charge bases), so embedding applications typically call Setup
// once at startup and otherwise ignore this package.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored handler at the level named by the LOG_LEVEL
// environment variable, defaulting to INFO.
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel installs a colored handler at an explicit level. Tests use
// this to silence the engine's debug chatter.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// ParseLevel maps a level name (debug, info, warn, error, any case) to its
// slog level. Unrecognized names fall back to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
