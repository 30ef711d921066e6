package mock

import (
	"context"

	"github.com/fwojciec/pagebrief"
)

var _ pagebrief.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagebrief.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ pagebrief.ContentFetcher = (*ContentFetcher)(nil)

// ContentFetcher is a mock implementation of pagebrief.ContentFetcher.
type ContentFetcher struct {
	FetchContentFn func(ctx context.Context, url string) (*pagebrief.Content, error)
}

func (f *ContentFetcher) FetchContent(ctx context.Context, url string) (*pagebrief.Content, error) {
	return f.FetchContentFn(ctx, url)
}
