// Package logger provides a configured zerolog logger. The TUI owns the
// terminal, so logs go to a file instead of stderr.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Open returns a logger writing to the file at path, creating it if needed.
// An empty path or an unwritable file yields a disabled logger rather than an
// error; logging must never take the app down.
func Open(path, level string) (zerolog.Logger, func()) {
	lvl := parseLevel(level)
	if strings.TrimSpace(path) == "" {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	lg := New(f).Level(lvl)
	return lg, func() { _ = f.Close() }
}

// New returns a zerolog logger writing to w with the app's standard fields.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Str("service", "agenda").
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
