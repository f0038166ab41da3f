package homoglyph

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with homoglyph-specific helpers so that field
// names stay consistent across the indexer, the aggregator and the CLIs.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithFont adds a font field to the logger.
func (l *Logger) WithFont(font string) *Logger {
	return &Logger{Logger: l.Logger.With("font", font)}
}

// LogIndex logs the outcome of indexing one font.
func (l *Logger) LogIndex(ctx context.Context, ix *Index, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index failed", "error", err)
		return
	}
	l.InfoContext(ctx, "index built",
		"size", ix.Size,
		"rendered", ix.Rendered,
		"retained", len(ix.Codepoints),
		"groups", ix.NumGroups,
		"render_errors", ix.RenderErrors,
	)
}

// LogFontSkipped logs a font excluded from a corpus run.
func (l *Logger) LogFontSkipped(ctx context.Context, font string, err error) {
	l.WarnContext(ctx, "font skipped", "font", font, "error", err)
}

// LogAggregate logs a finished aggregation.
func (l *Logger) LogAggregate(ctx context.Context, fonts, labels int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregation failed",
			"fonts", fonts,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "aggregation completed",
		"fonts", fonts,
		"labels", labels,
	)
}
