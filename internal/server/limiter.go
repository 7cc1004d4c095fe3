package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// ipLimiters keeps one token bucket per client IP.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// allow reports whether a request from the given IP fits within its budget.
func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
