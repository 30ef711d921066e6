// Package crawl discovers same-site pages for batch briefs.
// It walks links breadth-first from a start URL, or reads the site's
// sitemap when asked to, and returns the page URLs to submit.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/pagebrief"
)

// Frontier sizing for a single crawl.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Crawl limits used when Options leaves them unset.
const (
	DefaultMaxPages = 5
	DefaultMaxDepth = 2
)

// Options bounds a crawl.
type Options struct {
	// MaxPages caps the number of URLs returned, start URL included.
	MaxPages int

	// MaxDepth is the number of link hops followed from the start URL.
	// Zero returns only the start URL.
	MaxDepth int

	// Sitemap tries the site's sitemap before walking links.
	Sitemap bool
}

// DefaultOptions returns five pages, two levels deep, without sitemaps.
func DefaultOptions() Options {
	return Options{MaxPages: DefaultMaxPages, MaxDepth: DefaultMaxDepth}
}

func (o Options) normalized() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	return o
}

// Crawler discovers pages on the same host as a start URL.
type Crawler struct {
	Fetcher pagebrief.Fetcher
	Links   pagebrief.LinkSelector

	// Sitemaps is consulted when Options.Sitemap is set. Optional.
	Sitemaps pagebrief.SitemapService

	// RateLimiter spaces out requests per host. Optional.
	RateLimiter pagebrief.DomainLimiter

	// RetryDelays overrides DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Discover returns up to opts.MaxPages URLs on baseURL's host, baseURL
// first. Pages whose links can't be read are still returned; the failure
// is logged and the walk continues.
func (c *Crawler) Discover(ctx context.Context, baseURL string, opts Options) ([]string, error) {
	start, err := pagebrief.ValidateURL(baseURL)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()

	if opts.Sitemap && c.Sitemaps != nil {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, start)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			c.logger().Warn("sitemap discovery failed", "url", start, "err", err)
		case len(urls) > 0:
			return limitPages(start, urls, opts.MaxPages), nil
		default:
			c.logger().Debug("no sitemap urls, walking links", "url", start)
		}
	}

	return c.walk(ctx, start, opts)
}

// walk visits pages breadth-first. Depth counts hops from the start URL.
func (c *Crawler) walk(ctx context.Context, start string, opts Options) ([]string, error) {
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(pagebrief.DiscoveredLink{URL: start})

	var pages []string
	for len(pages) < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		pages = append(pages, link.URL)

		if link.Depth >= opts.MaxDepth || len(pages) >= opts.MaxPages {
			continue
		}

		found, err := c.pageLinks(ctx, link.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger().Warn("read links failed", "url", link.URL, "err", err)
			continue
		}
		for _, l := range found {
			l.Depth = link.Depth + 1
			frontier.Push(l)
		}
	}

	c.logger().Debug("crawl walked", "url", start, "pages", len(pages), "seen", frontier.SeenCount())
	return pages, nil
}

// pageLinks fetches pageURL and returns its crawlable links.
func (c *Crawler) pageLinks(ctx context.Context, pageURL string) ([]pagebrief.DiscoveredLink, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, err
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, c.Logger, delays)
	if err != nil {
		return nil, err
	}

	return c.Links.ExtractLinks(html, pageURL)
}

// limitPages puts start first, drops duplicates and caps the list at max.
func limitPages(start string, urls []string, max int) []string {
	out := []string{start}
	seen := map[string]bool{start: true}
	for _, u := range urls {
		if len(out) >= max {
			break
		}
		u = stripFragment(u)
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
