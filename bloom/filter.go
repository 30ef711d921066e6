// Package bloom tracks which URLs a crawl has already queued.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a Bloom filter keyed by normalized URL.
// It may report an unseen URL as seen, never the reverse.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records rawURL.
func (f *Filter) Add(rawURL string) {
	f.f.AddString(key(rawURL))
}

// Test reports whether rawURL may have been added.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(key(rawURL))
}

// TestAndAdd records rawURL and reports whether it may have been added
// before.
func (f *Filter) TestAndAdd(rawURL string) bool {
	return f.f.TestAndAddString(key(rawURL))
}

// EstimatedCount returns the approximate number of URLs added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// key lowercases scheme and host so that HTTP://Example.com/a and
// http://example.com/a collide. Paths are case sensitive and kept.
func key(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
