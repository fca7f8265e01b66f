package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a config level name to a zerolog level (defaults to info)
func ParseLevel(level string) zerolog.Level {
	switch level {
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

// New builds a logger writing to w in the given format
func New(w io.Writer, level, format string) zerolog.Logger {
	if format == "json" {
		return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Init initializes the global logger with the specified level and format.
// Output goes to stdout so diagnostics land next to scp and ssh output.
func Init(level, format string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = New(os.Stdout, level, format)
}

// Get returns a reference to the global logger
func Get() *zerolog.Logger {
	return &log.Logger
}
