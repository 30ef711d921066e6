// Package readability selects the main article of a page with go-readability.
// It serves as the fallback when trafilatura finds nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/pagebrief"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagebrief.Extractor at compile time.
var _ pagebrief.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content fragment.
func (e *Extractor) Extract(rawHTML string) (*pagebrief.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagebrief.Errorf(pagebrief.EEXTRACT, "readability: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, pagebrief.Errorf(pagebrief.EEXTRACT, "readability: no main content")
	}

	return &pagebrief.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
