package clip

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/pagemd"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the per-site fetch rate used by the CLI.
const DefaultRequestsPerSecond = 2

var _ pagemd.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out fetches to each site with a token bucket per
// site. Hosts share a bucket when they differ only by port or a leading
// "www.".
type DomainLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rps       float64
	overrides map[string]float64
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithDomainRate sets the rate for one site, overriding the default.
func WithDomainRate(host string, rps float64) LimiterOption {
	return func(d *DomainLimiter) {
		d.overrides[SiteKey(host)] = rps
	}
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each site, with no bursting. A rate of zero or less leaves
// the site unthrottled.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rps:       rps,
		overrides: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rate returns the requests per second allowed to host's site.
func (d *DomainLimiter) Rate(host string) float64 {
	if rps, ok := d.overrides[SiteKey(host)]; ok {
		return rps
	}
	return d.rps
}

// Wait blocks until host's site may be fetched again. Returns an error
// if ctx is canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := SiteKey(host)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limit := rate.Inf
		if rps := d.Rate(host); rps > 0 {
			limit = rate.Limit(rps)
		}
		limiter = rate.NewLimiter(limit, 1)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// SiteKey reduces a host to the site it belongs to: lowercased, without
// port or a leading "www.".
func SiteKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}
