package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagebrief"
)

// Ensure SitemapService implements pagebrief.SitemapService.
var _ pagebrief.SitemapService = (*SitemapService)(nil)

// SitemapService lists a site's pages from its sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL's
// host. Sitemaps come from robots.txt Sitemap: directives, falling back to
// /sitemap.xml; sitemap indexes are followed. Only URLs on the same host
// are returned, and when baseURL has a path only URLs under that path.
// A site without sitemaps yields an empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "invalid base URL %q", baseURL)
	}

	root := url.URL{Scheme: base.Scheme, Host: base.Host}
	sitemaps, err := s.findSitemaps(ctx, &root)
	if err != nil {
		return nil, err
	}

	w := &walker{svc: s, visited: make(map[string]bool)}
	for _, sm := range sitemaps {
		if err := w.walk(ctx, sm); err != nil {
			return nil, err
		}
	}

	prefix := strings.TrimSuffix(base.Path, "/")
	urls := []string{}
	seen := make(map[string]bool)
	for _, u := range w.urls {
		if seen[u] || !inScope(u, base.Host, prefix) {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

// inScope reports whether rawURL is on host and under the path prefix.
// Prefixes match on segment boundaries: /docs matches /docs/intro but not
// /documentation.
func inScope(rawURL, host, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Host, host) {
		return false
	}
	if prefix == "" {
		return true
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// findSitemaps reads Sitemap: directives from robots.txt and falls back to
// /sitemap.xml when there are none.
func (s *SitemapService) findSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robots); err == nil {
		defer body.Close()
		if sitemaps := parseRobots(body); len(sitemaps) > 0 {
			return sitemaps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func parseRobots(r io.Reader) []string {
	const directive = "sitemap:"

	var sitemaps []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if u := strings.TrimSpace(line[len(directive):]); u != "" {
			sitemaps = append(sitemaps, u)
		}
	}
	return sitemaps
}

// walker collects page URLs from a tree of sitemaps.
type walker struct {
	svc     *SitemapService
	visited map[string]bool
	urls    []string
}

func (w *walker) walk(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap %s", sitemapURL)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.walk(ctx, child); err != nil {
				return err
			}
		}
	default:
		w.urls = append(w.urls, locs(root, "url")...)
	}
	return nil
}

// locs returns the trimmed <loc> text of each tag child of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapService) newRequest(ctx context.Context, method, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	return req, nil
}

// get fetches target and returns the body of a 200 response.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := s.newRequest(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, pagebrief.Errorf(pagebrief.EFETCH, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

// exists reports whether a HEAD request for target returns 200 OK.
func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := s.newRequest(ctx, http.MethodHead, target)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
