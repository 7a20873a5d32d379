package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger creates a console logger on stderr at the given level.
// Unknown levels fall back to warn so that normal output stays clean.
func setupLogger(logLevel string) zerolog.Logger {
	return newLogger(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func newLogger(logLevel string) zerolog.Logger {
	level := zerolog.WarnLevel
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
