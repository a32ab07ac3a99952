package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service, level string) *Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service, level string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() *Logger {
	return NewWithWriter("test", "error", io.Discard)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger for a sub-service sharing the same output.
func (l *Logger) With(service string) *Logger {
	return &Logger{service: service, hostname: l.hostname, handler: l.handler}
}

func (l *Logger) Info(action, message string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, nil, fields)
}

func (l *Logger) Debug(action, message string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, nil, fields)
}

func (l *Logger) Warn(action, message string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, action, message, nil, fields)
}

func (l *Logger) Error(action, message string, err error, fields map[string]interface{}) {
	l.log(slog.LevelError, action, message, err, fields)
}

func (l *Logger) log(level slog.Level, action, message string, err error, fields map[string]interface{}) {
	if !l.handler.Enabled(context.Background(), level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	for key, value := range fields {
		attrs = append(attrs, slog.Any(key, value))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}
