package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/bloom"
)

// Compile-time interface verification.
var _ pagebrief.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter deduplication.
// Links come out in the order they were pushed, which makes the crawl
// breadth-first. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []pagebrief.DiscoveredLink
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewFilter(n, fpRate)}
}

// Push adds a link to the back of the queue.
// Returns false if the URL has already been seen. URLs differing only by
// fragment are duplicates; the stored URL has no fragment.
func (f *Frontier) Push(link pagebrief.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.seen.TestAndAdd(link.URL) {
		return false
	}
	f.queue = append(f.queue, link)
	return true
}

// Pop removes and returns the oldest link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (pagebrief.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return pagebrief.DiscoveredLink{}, false
	}
	link := f.queue[0]
	f.queue[0] = pagebrief.DiscoveredLink{}
	f.queue = f.queue[1:]
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued at any point.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

// SeenCount returns the approximate number of distinct URLs pushed.
func (f *Frontier) SeenCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.EstimatedCount()
}

func stripFragment(u string) string {
	if idx := strings.IndexByte(u, '#'); idx != -1 {
		return u[:idx]
	}
	return u
}
