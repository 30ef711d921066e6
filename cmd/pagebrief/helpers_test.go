package main_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/dispatch"
	"github.com/fwojciec/pagebrief/fs"
	"github.com/fwojciec/pagebrief/mock"
	"github.com/stretchr/testify/require"
)

// safeBuffer is a bytes.Buffer that task observers may write to while the
// test reads it.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// pageContent serves a short text for every URL and fails URLs that
// contain "broken".
func pageContent() *mock.ContentFetcher {
	return &mock.ContentFetcher{
		FetchContentFn: func(_ context.Context, url string) (*pagebrief.Content, error) {
			if strings.Contains(url, "broken") {
				return nil, pagebrief.Errorf(pagebrief.EFETCH, "HTTP 404 for %s", url)
			}
			return &pagebrief.Content{URL: url, Title: "Page", Text: "Rate limiters smooth bursts of traffic."}, nil
		},
	}
}

// pageAnalyzer titles each brief after the page's URL.
func pageAnalyzer() *mock.Analyzer {
	return &mock.Analyzer{
		TitleFn: func(_ context.Context, c *pagebrief.Content) (string, error) {
			return "Brief of " + c.URL, nil
		},
		KeywordsFn: func(context.Context, *pagebrief.Content) ([]string, error) {
			return []string{"rate limiting", "traffic"}, nil
		},
		SummaryFn: func(context.Context, *pagebrief.Content) (string, error) {
			return "Rate limiters smooth bursts.", nil
		},
		HashtagsFn: func(context.Context, *pagebrief.Content) ([]string, error) {
			return []string{"#ratelimiting"}, nil
		},
		ArticleFn: func(context.Context, *pagebrief.Content) (string, error) {
			return "## Smoothing Bursts\n\nRate limiters smooth bursts of traffic.", nil
		},
	}
}

// newDispatcher returns an open dispatcher saving into dir.
func newDispatcher(t *testing.T, dir string, autoSave bool) *dispatch.Dispatcher {
	t.Helper()

	d := dispatch.NewDispatcher(pageContent(), pageAnalyzer(), fs.NewWriter())
	s := pagebrief.DefaultSettings(dir)
	s.AutoSave = autoSave
	d.SetSettings(*s)
	require.NoError(t, d.Open())
	t.Cleanup(func() { _ = d.Close() })
	return d
}
