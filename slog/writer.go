package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagebrief"
)

// Ensure LoggingResultWriter implements pagebrief.ResultWriter.
var _ pagebrief.ResultWriter = (*LoggingResultWriter)(nil)

// LoggingResultWriter wraps a ResultWriter with logging.
type LoggingResultWriter struct {
	next   pagebrief.ResultWriter
	logger *slog.Logger
}

// NewLoggingResultWriter creates a new LoggingResultWriter.
func NewLoggingResultWriter(next pagebrief.ResultWriter, logger *slog.Logger) *LoggingResultWriter {
	return &LoggingResultWriter{next: next, logger: logger}
}

// SaveResult delegates to the wrapped writer and logs the written path.
func (w *LoggingResultWriter) SaveResult(ctx context.Context, dir, sourceURL string, result *pagebrief.Result) (path string, err error) {
	defer func(begin time.Time) {
		w.logger.Info("save result",
			"url", sourceURL,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.SaveResult(ctx, dir, sourceURL, result)
}
