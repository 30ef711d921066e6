package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagebrief"
)

// Ensure LinkSelector implements pagebrief.LinkSelector at compile time.
var _ pagebrief.LinkSelector = (*LinkSelector)(nil)

// DefaultSkipExtensions lists file types that are never crawled.
var DefaultSkipExtensions = []string{".pdf", ".jpg", ".png", ".gif"}

// LinkSelector extracts crawlable anchors from a page: http(s) links on the
// same host as the page, excluding binary file types.
type LinkSelector struct {
	// SkipExtensions are matched case-insensitively against the URL path.
	SkipExtensions []string
}

// NewLinkSelector returns a LinkSelector using DefaultSkipExtensions.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{SkipExtensions: DefaultSkipExtensions}
}

// ExtractLinks returns links in document order, deduplicated by URL with
// fragments stripped. Links back to baseURL itself are dropped.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]pagebrief.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []pagebrief.DiscoveredLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == nil || !s.crawlable(base, resolved) {
			return
		}

		u := resolved.String()
		if seen[u] {
			return
		}
		seen[u] = true
		links = append(links, pagebrief.DiscoveredLink{
			URL:  u,
			Text: strings.Join(strings.Fields(sel.Text()), " "),
		})
	})

	return links, nil
}

func (s *LinkSelector) crawlable(base, u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host != base.Host {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, skip := range s.SkipExtensions {
		if ext == skip {
			return false
		}
	}
	return true
}

// resolveURL resolves href against base with the fragment stripped.
// Returns nil for unparseable or empty hrefs and for links to base itself.
func resolveURL(base *url.URL, href string) *url.URL {
	if href == "" {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return nil
	}
	return resolved
}
