// Package rod renders JavaScript-heavy pages in headless Chrome via go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
// Kept consistent with http.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements pagebrief.Fetcher at compile time.
var _ pagebrief.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a managed headless browser.
// Fetcher is safe for concurrent use; each fetch opens its own tab.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	userAgent    string
	bin          string
	recycleAfter int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent for every tab.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRecycleAfter restarts the browser after n rendered pages.
// Zero keeps one browser for the Fetcher's lifetime.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// WithBrowserBin sets the Chrome or Chromium executable.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// NewFetcher returns a Fetcher that starts the browser on its first fetch.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if no Chrome or Chromium executable is installed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(f)
	}

	if f.bin == "" {
		bin, ok := launcher.LookPath()
		if !ok {
			return nil, pagebrief.Errorf(pagebrief.EINVALID, "chrome or chromium not found")
		}
		f.bin = bin
	}

	f.manager = NewBrowserManager(f.bin, f.recycleAfter)
	return f, nil
}

// Fetch opens url in a new tab, waits for the load event and returns the
// rendered document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening tab: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fmt.Errorf("setting user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", renderError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", renderError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", renderError(ctx, url, err)
	}
	return html, nil
}

// renderError keeps context errors matchable with errors.Is and reports
// everything else as EFETCH.
func renderError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("rendering %s: %w", url, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("rendering %s: %w", url, err)
	}
	return pagebrief.Errorf(pagebrief.EFETCH, "rendering %s: %v", url, err)
}

// Close shuts the browser down. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the browser process ID, or 0 before the first fetch.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
