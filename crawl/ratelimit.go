package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/pagebrief"
	"golang.org/x/time/rate"
)

var _ pagebrief.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the polite crawl rate for a single host.
const DefaultRequestsPerSecond = 1.0

// DomainLimiter provides per-host rate limiting using token buckets.
// Requests to different hosts don't wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per host with no bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed. Host names are
// compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
