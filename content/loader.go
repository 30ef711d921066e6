// Package content turns a URL into the text and Markdown the analyzer reads.
// It chains fetching, main-content selection, plain-text cleanup and
// Markdown conversion.
package content

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/crawl"
	"github.com/fwojciec/pagebrief/goquery"
)

// DefaultMinTextLength is the cleaned text length, in runes, below which a
// page counts as thin and the fallback fetcher is tried.
const DefaultMinTextLength = 200

// Ensure Loader implements pagebrief.ContentFetcher at compile time.
var _ pagebrief.ContentFetcher = (*Loader)(nil)

// Loader implements pagebrief.ContentFetcher.
type Loader struct {
	Fetcher pagebrief.Fetcher

	// Fallback renders pages in a browser. Optional. It is used when
	// Fetcher fails with a retryable error or returns a thin page.
	Fallback pagebrief.Fetcher

	// Extractors select the main content and are tried in order.
	// When all of them fail the whole document is used.
	Extractors []pagebrief.Extractor

	// Converter produces Markdown of the main content. Optional.
	Converter pagebrief.Converter

	// RetryDelays overrides crawl.DefaultRetryDelays for Fetcher.
	RetryDelays []time.Duration

	// MinTextLength overrides DefaultMinTextLength.
	MinTextLength int

	Logger *slog.Logger
}

// NewLoader returns a Loader that tries extractors in the given order.
func NewLoader(fetcher pagebrief.Fetcher, converter pagebrief.Converter, extractors ...pagebrief.Extractor) *Loader {
	return &Loader{
		Fetcher:    fetcher,
		Converter:  converter,
		Extractors: extractors,
	}
}

// FetchContent fetches url and reduces it to its main content.
// Every failure is reported as EFETCH.
func (l *Loader) FetchContent(ctx context.Context, url string) (*pagebrief.Content, error) {
	delays := l.RetryDelays
	if delays == nil {
		delays = crawl.DefaultRetryDelays()
	}

	html, err := crawl.FetchWithRetryDelays(ctx, url, l.Fetcher.Fetch, l.Logger, delays)
	if err != nil {
		if l.Fallback == nil || crawl.Permanent(err) || ctx.Err() != nil {
			return nil, fetchError(err)
		}
		l.logger().Info("fetch failed, rendering in browser", "url", url, "err", err)
		html, err = l.Fallback.Fetch(ctx, url)
		if err != nil {
			return nil, fetchError(err)
		}
	}

	c := l.reduce(url, html)

	if l.Fallback != nil && utf8.RuneCountInString(c.Text) < l.minTextLength() {
		c = l.rerender(ctx, url, c)
	}

	if c.Text == "" {
		return nil, pagebrief.Errorf(pagebrief.EFETCH, "no content extracted from %s", url)
	}
	return c, nil
}

// rerender fetches a thin page through the browser and keeps whichever
// version has substantially more text.
func (l *Loader) rerender(ctx context.Context, url string, plain *pagebrief.Content) *pagebrief.Content {
	html, err := l.Fallback.Fetch(ctx, url)
	if err != nil {
		l.logger().Warn("browser render failed", "url", url, "err", err)
		return plain
	}

	rendered := l.reduce(url, html)
	if textDiffers(plain.Text, rendered.Text) {
		l.logger().Debug("using browser render", "url", url, "plain", len(plain.Text), "rendered", len(rendered.Text))
		return rendered
	}
	return plain
}

// textDiffers reports whether rendered text is more than half again as long
// as the plain fetch, which means scripts add real content.
func textDiffers(plain, rendered string) bool {
	if plain == "" {
		return rendered != ""
	}
	return float64(len(rendered)) > float64(len(plain))*1.5
}

// reduce selects the main content of html and derives text and Markdown.
func (l *Loader) reduce(url, html string) *pagebrief.Content {
	c := &pagebrief.Content{URL: url, RawHTML: html}

	for _, ex := range l.Extractors {
		r, err := ex.Extract(html)
		if err != nil {
			l.logger().Debug("extractor failed", "url", url, "err", err)
			continue
		}
		if c.Title == "" {
			c.Title = r.Title
		}
		if strings.TrimSpace(r.ContentHTML) == "" {
			continue
		}
		c.MainHTML = r.ContentHTML
		break
	}

	if c.MainHTML != "" {
		if text, err := goquery.PlainText(c.MainHTML); err == nil {
			c.Text = text
		}
	}
	if c.Text == "" {
		// No usable main content: read the whole document and skip Markdown,
		// which would be mostly navigation.
		c.MainHTML = ""
		if text, err := goquery.PlainText(html); err == nil {
			c.Text = text
		}
		return c
	}

	if l.Converter != nil {
		md, err := l.Converter.Convert(c.MainHTML)
		if err != nil {
			l.logger().Debug("markdown conversion failed", "url", url, "err", err)
		} else {
			c.Markdown = md
		}
	}
	return c
}

func (l *Loader) minTextLength() int {
	if l.MinTextLength > 0 {
		return l.MinTextLength
	}
	return DefaultMinTextLength
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// fetchError reports err as EFETCH, keeping the application message when
// there is one.
func fetchError(err error) error {
	if code := pagebrief.ErrorCode(err); code == pagebrief.EFETCH {
		return err
	} else if code == pagebrief.EINTERNAL {
		return pagebrief.Errorf(pagebrief.EFETCH, "%v", err)
	}
	return pagebrief.Errorf(pagebrief.EFETCH, "%s", pagebrief.ErrorMessage(err))
}
