package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagebrief"
)

// Ensure LoggingCompleter implements pagebrief.Completer.
var _ pagebrief.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with debug logging.
type LoggingCompleter struct {
	next   pagebrief.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next pagebrief.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete logs prompt and reply sizes and delegates to the wrapped completer.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("complete",
			"prompt", len(prompt),
			"reply", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, prompt)
}
