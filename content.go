package pagebrief

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ExtractResult holds the main content selected from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor selects the main content of an HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// Content is a fetched page reduced to what the language model needs.
type Content struct {
	URL      string
	RawHTML  string
	MainHTML string
	Title    string
	Text     string // cleaned plain text
	Markdown string // main content as markdown, may be empty
}

// ArticleSource returns the best available input for article formatting.
func (c *Content) ArticleSource() string {
	if c.Markdown != "" {
		return c.Markdown
	}
	return c.Text
}

// ContentFetcher fetches a page and reduces it to its main content.
type ContentFetcher interface {
	// FetchContent returns the page's content.
	// Returns EFETCH on network failure, non-2xx responses or when no text
	// could be extracted.
	FetchContent(ctx context.Context, url string) (*Content, error)
}
