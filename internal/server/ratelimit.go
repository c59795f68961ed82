package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// tenantLimiter applies a token-bucket rate limit per tenant. Limiters are
// created lazily and never expire; the tenant population is small and
// bounded by the registry.
type tenantLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newTenantLimiter(perSecond float64, burst int) *tenantLimiter {
	return &tenantLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// allow reports whether the tenant may make a request now.
func (tl *tenantLimiter) allow(tenantID string) bool {
	tl.mu.Lock()
	l, ok := tl.limiters[tenantID]
	if !ok {
		l = rate.NewLimiter(tl.limit, tl.burst)
		tl.limiters[tenantID] = l
	}
	tl.mu.Unlock()
	return l.Allow()
}
