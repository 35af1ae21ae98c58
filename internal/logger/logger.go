package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger interface defines the methods required for logging
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
}

// Format selects the slog handler
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// SlogLogger implements the Logger interface using slog
type SlogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// New creates a new SlogLogger with the given level, output and format
func New(level slog.Level, output io.Writer, format Format) *SlogLogger {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return &SlogLogger{
		logger: slog.New(handler),
		ctx:    context.Background(),
	}
}

// Default returns a new SlogLogger with default settings
func Default() *SlogLogger {
	return New(slog.LevelInfo, os.Stdout, FormatJSON)
}

// Discard returns a logger that drops everything, for tests
func Discard() *SlogLogger {
	return New(slog.LevelError+1, io.Discard, FormatText)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Log(l.ctx, slog.LevelDebug, msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Log(l.ctx, slog.LevelInfo, msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Log(l.ctx, slog.LevelWarn, msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Log(l.ctx, slog.LevelError, msg, args...)
}

// WithField returns a new logger with the given field
func (l *SlogLogger) WithField(key string, value any) Logger {
	return &SlogLogger{
		logger: l.logger.With(key, value),
		ctx:    l.ctx,
	}
}

// WithFields returns a new logger with the given fields
func (l *SlogLogger) WithFields(fields map[string]any) Logger {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	return &SlogLogger{
		logger: l.logger.With(attrs...),
		ctx:    l.ctx,
	}
}

// WithContext returns a new logger with the given context
func (l *SlogLogger) WithContext(ctx context.Context) Logger {
	return &SlogLogger{
		logger: l.logger,
		ctx:    ctx,
	}
}
