// Package goquery reads page text and links with PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagebrief"
)

// PlainText returns the visible text of an HTML document or fragment.
// Script, style and noscript elements are dropped, each line is trimmed and
// the non-empty lines are joined with single spaces.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", pagebrief.Errorf(pagebrief.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	// Block elements end lines so words from adjacent blocks don't fuse.
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, br, tr, section, article, blockquote, pre").
		Each(func(_ int, sel *goquery.Selection) {
			sel.AppendHtml("\n")
		})

	var parts []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, strings.Join(strings.Fields(line), " "))
		}
	}
	return strings.Join(parts, " "), nil
}
