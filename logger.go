package ifcb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bin-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithBin adds the bin LID to the logger.
func (l *Logger) WithBin(lid string) *Logger {
	return &Logger{
		Logger: l.Logger.With("bin", lid),
	}
}

// WithTarget adds a target number field to the logger.
func (l *Logger) WithTarget(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("target", n),
	}
}

// WithSchema adds the schema name to the logger.
func (l *Logger) WithSchema(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("schema", name),
	}
}

// LogOpen logs opening a bin.
func (l *Logger) LogOpen(ctx context.Context, targets, images int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bin opened",
			"targets", targets,
			"images", images,
		)
	}
}

// LogImageRead logs reading one target's image.
func (l *Logger) LogImageRead(ctx context.Context, n int, stitched bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "image read failed",
			"target", n,
			"stitched", stitched,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "image read",
			"target", n,
			"stitched", stitched,
		)
	}
}

// LogStitch logs the result of split-pair detection.
func (l *Logger) LogStitch(ctx context.Context, pairs int, threshold int) {
	l.DebugContext(ctx, "stitched pairs detected",
		"pairs", pairs,
		"threshold", threshold,
	)
}

// LogClose logs releasing a bin.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bin closed")
	}
}
