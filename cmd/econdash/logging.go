package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

func parseLevel(level string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// newConsoleLogger logs human-readable lines to w. Used by the
// non-interactive commands.
func newConsoleLogger(w io.Writer, level string, debug bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(parseLevel(level, debug)).
		With().
		Timestamp().
		Logger()
}

// newFileLogger logs JSON lines to path. The dashboard owns the terminal, so
// it never logs to stderr.
func newFileLogger(path, level string, debug bool) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).
		Level(parseLevel(level, debug)).
		With().
		Timestamp().
		Logger()
	return log, f, nil
}

func componentLogger(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
