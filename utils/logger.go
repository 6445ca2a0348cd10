package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new Logger writing coloured console output to stdout.
func NewLogger() *Logger {
	return NewConsoleLogger(os.Stdout)
}

// NewConsoleLogger writes human-readable lines to w.
func NewConsoleLogger(w io.Writer) *Logger {
	return NewLoggerTo(zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"})
}

// NewLoggerTo creates a Logger writing to w at info level.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// SetLevel switches the minimum level ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func (l *Logger) SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return
	}
	l.zl = l.zl.Level(lvl)
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}
