package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	link := pagebrief.DiscoveredLink{URL: "https://example.com/news/one"}

	assert.True(t, f.Push(link), "first push should succeed")
	assert.False(t, f.Push(link), "duplicate URL should be rejected")
	assert.False(t, f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/news/one#comments"}),
		"fragment variant should be rejected")
}

func TestFrontier_Pop_returns_links_in_push_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/", Depth: 0})
	f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/a", Depth: 1})
	f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/b#x", Depth: 1})

	var got []pagebrief.DiscoveredLink
	for {
		link, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, link)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "https://example.com/", got[0].URL)
	assert.Equal(t, "https://example.com/a", got[1].URL)
	assert.Equal(t, "https://example.com/b", got[2].URL)
	assert.Equal(t, 1, got[2].Depth)
}

func TestFrontier_Len_and_Seen(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.Equal(t, 0, f.Len())

	f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/a"})
	f.Push(pagebrief.DiscoveredLink{URL: "https://example.com/b"})
	assert.Equal(t, 2, f.Len())

	_, _ = f.Pop()
	assert.Equal(t, 1, f.Len())
	assert.True(t, f.Seen("https://example.com/a"), "popped URLs stay seen")
	assert.True(t, f.Seen("https://example.com/b#top"))
	assert.False(t, f.Seen("https://example.com/c"))
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.001)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Push(pagebrief.DiscoveredLink{URL: fmt.Sprintf("https://example.com/%d/%d", worker, j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, f.Len())
}
