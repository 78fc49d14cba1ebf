package ndb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with consistent field names for fit and
// evaluation operations.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogClustering logs the start of the clustering pass.
// Clustering can take minutes on large sample sets.
func (l *Logger) LogClustering(ctx context.Context, samples, dimsUsed, dims, bins int) {
	l.InfoContext(ctx, "clustering training samples",
		"samples", samples,
		"dims_used", dimsUsed,
		"dims", dims,
		"bins", bins,
	)
}

// LogFit logs the outcome of a fit.
func (l *Logger) LogFit(ctx context.Context, samples, dims, bins int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"samples", samples,
			"dims", dims,
			"bins", bins,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"samples", samples,
			"dims", dims,
			"bins", bins,
		)
	}
}

// LogEvaluate logs the outcome of an evaluation run.
func (l *Logger) LogEvaluate(ctx context.Context, label string, samples, ndb int, js float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluation failed",
			"label", label,
			"samples", samples,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "evaluation completed",
			"label", label,
			"samples", samples,
			"ndb", ndb,
			"js", js,
		)
	}
}

// LogSnapshot logs a snapshot save or restore.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot "+op+" completed",
			"name", name,
		)
	}
}
