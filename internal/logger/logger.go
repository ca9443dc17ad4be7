// Package logger provides structured logging backed by charmbracelet/log.
package logger

import (
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// Level names accepted in config and on the command line.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Config configures [New].
type Config struct {
	Level  string
	Output io.Writer
	JSON   bool
}

// DefaultConfig logs warnings and errors to stderr.
func DefaultConfig() Config {
	return Config{Level: WarnLevel, Output: os.Stderr}
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

// New builds a logger. An unknown level is an error.
func New(cfg Config) (Logger, error) {
	level := charmlog.WarnLevel

	if cfg.Level != "" {
		parsed, err := charmlog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}

		level = parsed
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "pontos",
	})

	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}

	return &charmLogger{l: l}, nil
}

// With returns a logger that adds keyvals to every entry. Loggers not
// created by [New] are returned unchanged.
func With(log Logger, keyvals ...any) Logger {
	if c, ok := log.(*charmLogger); ok {
		return &charmLogger{l: c.l.With(keyvals...)}
	}

	return log
}

// Nop discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
