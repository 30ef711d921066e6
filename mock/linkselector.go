package mock

import (
	"context"

	"github.com/fwojciec/pagebrief"
)

var _ pagebrief.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of pagebrief.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]pagebrief.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]pagebrief.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

var _ pagebrief.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of pagebrief.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ pagebrief.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pagebrief.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
