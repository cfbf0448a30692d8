package primecache

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with primecache-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBound adds a bound field to the logger.
func (l *Logger) WithBound(bound int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bound", bound),
	}
}

// LogBuild logs the end of a build.
func (l *Logger) LogBuild(ctx context.Context, stats BuildStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "prime cache build failed",
			"duration", stats.Duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "prime cache built",
		"primes", stats.Primes,
		"workers", stats.Workers,
		"marks_bytes", stats.MarksBytes,
		"duration", stats.Duration,
		"values_per_sec", stats.Throughput(),
	)
}

// LogQuery logs a range query.
func (l *Logger) LogQuery(ctx context.Context, start, end, results int, err error) {
	if err != nil {
		l.WarnContext(ctx, "range query rejected",
			"start", start,
			"end", end,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "range query completed",
		"start", start,
		"end", end,
		"results", results,
	)
}
