// Package trafilatura selects the main article of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/pagebrief"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagebrief.Extractor at compile time.
var _ pagebrief.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Comments are dropped; trafilatura's own readability and dom-distiller
// fallbacks stay enabled.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the page title and the main content as an HTML fragment.
// A page with no recognizable main content is an EEXTRACT error.
func (e *Extractor) Extract(rawHTML string) (*pagebrief.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, pagebrief.Errorf(pagebrief.EEXTRACT, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, pagebrief.Errorf(pagebrief.EEXTRACT, "trafilatura: no main content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}

	return &pagebrief.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: buf.String(),
	}, nil
}
