// Package slog decorates pagebrief services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagebrief"
)

// Ensure LoggingFetcher implements pagebrief.Fetcher.
var _ pagebrief.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   pagebrief.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagebrief.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingContentFetcher implements pagebrief.ContentFetcher.
var _ pagebrief.ContentFetcher = (*LoggingContentFetcher)(nil)

// LoggingContentFetcher wraps a ContentFetcher with logging.
type LoggingContentFetcher struct {
	next   pagebrief.ContentFetcher
	logger *slog.Logger
}

// NewLoggingContentFetcher creates a new LoggingContentFetcher.
func NewLoggingContentFetcher(next pagebrief.ContentFetcher, logger *slog.Logger) *LoggingContentFetcher {
	return &LoggingContentFetcher{next: next, logger: logger}
}

// FetchContent delegates to the wrapped fetcher and logs how much text came back.
func (f *LoggingContentFetcher) FetchContent(ctx context.Context, url string) (content *pagebrief.Content, err error) {
	defer func(begin time.Time) {
		var chars, markdown int
		if content != nil {
			chars, markdown = len(content.Text), len(content.Markdown)
		}
		f.logger.Info("fetch content",
			"url", url,
			"text", chars,
			"markdown", markdown,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchContent(ctx, url)
}
