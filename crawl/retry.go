package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagebrief"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Permanent reports whether retrying a failed fetch cannot help.
// Missing pages and invalid URLs are permanent; network errors and other
// HTTP failures are not.
func Permanent(err error) bool {
	switch pagebrief.ErrorCode(err) {
	case pagebrief.ENOTFOUND, pagebrief.EINVALID:
		return true
	}
	return false
}

// FetchWithRetry fetches url with the default backoff delays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays calls fetch until it succeeds, sleeping delays[i]
// before retry i+1. One attempt is made per delay plus the initial one.
// Permanent errors and context cancellation stop retrying immediately.
// Each retry is logged at debug level when logger is non-nil.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			if logger != nil {
				logger.Debug("retry fetch", "url", url, "attempt", attempt+1, "err", lastErr)
			}
			timer := time.NewTimer(delays[attempt-1])
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if Permanent(err) || ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}
