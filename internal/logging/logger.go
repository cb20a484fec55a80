package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog with the small surface the rest of the app uses.
type Logger struct {
	l *slog.Logger
}

// NewLogger creates a logger. Development mode uses human-readable text
// output at debug level; production uses JSON at info level.
func NewLogger(development bool) *Logger {
	var handler slog.Handler
	if development {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{l: slog.New(handler)}
}

func (log *Logger) Info(msg string, args ...any) {
	log.l.Info(msg, args...)
}

func (log *Logger) Warn(msg string, args ...any) {
	log.l.Warn(msg, args...)
}

func (log *Logger) Error(msg string, args ...any) {
	log.l.Error(msg, args...)
}

func (log *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	log.l.Log(ctx, level, msg, args...)
}

// WithFields returns a child logger that always includes the given fields.
func (log *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l: log.l.With(args...)}
}
