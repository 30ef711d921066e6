package goquery_test

import (
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSelector_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="/news/one">First story</a>
<a href="two">Second
   story</a>
<a href="https://example.com/news/three">Third</a>
</body>`

		links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/news/")

		require.NoError(t, err)
		assert.Equal(t, []pagebrief.DiscoveredLink{
			{URL: "https://example.com/news/one", Text: "First story"},
			{URL: "https://example.com/news/two", Text: "Second story"},
			{URL: "https://example.com/news/three", Text: "Third"},
		}, links)
	})

	t.Run("keeps only same host http links", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="https://other.org/page">External</a>
<a href="https://blog.example.com/page">Subdomain</a>
<a href="mailto:desk@example.com">Mail</a>
<a href="javascript:void(0)">Script</a>
<a href="ftp://example.com/file">FTP</a>
<a href="/local">Local</a>
</body>`

		links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/local", links[0].URL)
	})

	t.Run("skips binary file types", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="/report.pdf">PDF</a>
<a href="/photo.JPG">Photo</a>
<a href="/chart.png">Chart</a>
<a href="/anim.gif">Gif</a>
<a href="/story.html">Story</a>
</body>`

		links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/story.html", links[0].URL)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="/page#top">Top</a>
<a href="/page#bottom">Bottom</a>
<a href="#section">Self</a>
<a href="">Empty</a>
</body>`

		links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/start")

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/page", links[0].URL)
		assert.Equal(t, "Top", links[0].Text)
	})

	t.Run("returns invalid error for bad base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkSelector().ExtractLinks("<a href='/x'>x</a>", "://bad")

		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})
}
