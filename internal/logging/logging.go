package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a deliberately small, framework-agnostic logging interface.
// Components receive a Logger and scope it with With; nothing below main
// touches zap directly.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning.
	Warn(msg string, fields ...Field)

	// Error logs an error.
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// Field is a simple key/value pair for structured logging fields.
type Field struct {
	Key   string
	Value interface{}
}

// Sink selects where console output goes.
type Sink string

const (
	SinkStdout Sink = "stdout"
	SinkStderr Sink = "stderr"
)

// Config controls logger construction.
type Config struct {
	Level string `yaml:"level"`

	// Sink is the console destination. Audits in JSON mode switch it to
	// stderr so stdout carries only the report document.
	Sink Sink `yaml:"sink"`

	// File, when set, adds a rotating JSON log file.
	File string `yaml:"file"`
}

// ZapLogger adapts a *zap.Logger to Logger.
type ZapLogger struct {
	z *zap.Logger
}

// NewLogger builds a zap-backed Logger from cfg. The returned closer flushes
// the logger and closes the rotating file, if any; call it before exit.
func NewLogger(cfg Config) (*ZapLogger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var plugins []Plugin
	switch cfg.Sink {
	case SinkStderr:
		plugins = append(plugins, NewStderrPlugin(level))
	case SinkStdout, "":
		plugins = append(plugins, NewStdoutPlugin(level))
	default:
		return nil, nil, fmt.Errorf("unknown log sink %q", cfg.Sink)
	}

	var file io.Closer
	if cfg.File != "" {
		var p Plugin
		p, file = NewFilePlugin(cfg.File, level)
		plugins = append(plugins, p)
	}

	z := NewZap(zapcore.NewTee(plugins...))
	l := &ZapLogger{z: z}
	return l, closerFunc(func() error {
		_ = z.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}), nil
}

// FromZap wraps an existing zap logger, mostly for tests using zaptest/observer.
func FromZap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &ZapLogger{z: zap.NewNop()}
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

func (l *ZapLogger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, toZap(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...Field) {
	l.z.Info(msg, toZap(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, toZap(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...Field) {
	l.z.Error(msg, toZap(fields)...)
}

func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{z: l.z.With(toZap(fields)...)}
}

func toZap(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.String(f.Key, err.Error()))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
