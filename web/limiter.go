package web

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultHostRate is the default requests per second allowed per host.
const DefaultHostRate = 1.0

// HostLimiter rate limits requests per host with one token bucket each, so
// agents researching several sites are not serialized behind one another.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host, without bursting.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	h.mu.Lock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), 1)
		h.limiters[host] = l
	}
	h.mu.Unlock()

	return l.Wait(ctx)
}
