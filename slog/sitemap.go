package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagebrief"
)

var _ pagebrief.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs sitemap lookups made before a crawl.
// A failed lookup is a warning since the crawl falls back to link walking.
type LoggingSitemapService struct {
	next   pagebrief.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next pagebrief.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "read sitemap",
			"site", baseURL,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL)
}
