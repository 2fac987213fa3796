// Package ratelimit implements the injected per-user request limiter with
// token buckets.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PerUser keeps one token bucket per user id. It implements domain.Limiter
// and is injected into the service rather than living as process state
// behind the engine's back.
type PerUser struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewPerUser allows perMinute requests per user with the given burst.
func NewPerUser(perMinute, burst int) *PerUser {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &PerUser{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
	}
}

// Allow reports whether the user may proceed now.
func (l *PerUser) Allow(userID string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[userID]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[userID] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}
