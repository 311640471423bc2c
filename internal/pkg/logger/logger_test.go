package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("slug", "hello").Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "slug=hello")
}

func TestConsoleColorsOnlyWhenEnabled(t *testing.T) {
	var colored, plain bytes.Buffer
	coloredLog := newConsole("info", zerolog.ConsoleWriter{Out: &colored})
	coloredLog.Info().Msg("hello")
	plainLog := newConsole("info", zerolog.ConsoleWriter{Out: &plain, NoColor: true})
	plainLog.Info().Msg("hello")

	assert.Contains(t, colored.String(), "\x1b[")
	assert.NotContains(t, plain.String(), "\x1b[")
}
