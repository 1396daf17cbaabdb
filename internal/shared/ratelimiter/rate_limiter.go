package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether an operation identified by key may proceed now.
type Limiter interface {
	Allow(key string) bool
}

// KeyedRateLimiter keeps one token bucket per key (e.g. client IP).
// Buckets idle for longer than idleTTL are dropped on the next sweep.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	lastGC  time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perInterval operations per interval for each key, with the given burst.
// A burst below 1 is raised to 1.
func NewRateLimiter(perInterval int, interval time.Duration, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(perInterval) / interval.Seconds()),
		burst:   burst,
		idleTTL: 10 * interval,
		now:     time.Now,
	}
}

// Allow reports whether key may perform one more operation now.
func (rl *KeyedRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops idle buckets at most once per idleTTL. Callers hold rl.mu.
func (rl *KeyedRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastGC) < rl.idleTTL {
		return
	}
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.idleTTL {
			delete(rl.buckets, k)
		}
	}
	rl.lastGC = now
}
