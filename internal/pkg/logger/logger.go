package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// New creates a console logger with the given level. Output is colored on
// development machines only.
func New(level string, dev bool) zerolog.Logger {
	return newConsole(level, zerolog.ConsoleWriter{Out: os.Stdout, NoColor: !dev})
}

// NewWithWriter creates an uncolored logger writing to w
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return newConsole(level, zerolog.ConsoleWriter{Out: w, NoColor: true})
}

func newConsole(level string, w zerolog.ConsoleWriter) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// ParseLevel parses log level string to zerolog.Level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// GormLevel maps the application log level onto GORM's SQL logger.
// Only debug enables statement tracing.
func GormLevel(level string) gormlogger.LogLevel {
	switch ParseLevel(level) {
	case zerolog.DebugLevel:
		return gormlogger.Info
	case zerolog.ErrorLevel, zerolog.FatalLevel:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
