// Package middleware provides the HTTP middleware chain: bearer-token
// auth, request logging, panic recovery, CORS, and per-IP rate limiting.
package middleware

import (
	"net/http"
	"sync"
	"time"
)

// bucket tracks a sliding-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

type limiter struct {
	mu        sync.Mutex
	window    time.Duration
	buckets   map[string]*bucket
	nextSweep time.Time
}

func newLimiter(window time.Duration) *limiter {
	return &limiter{
		window:    window,
		buckets:   map[string]*bucket{},
		nextSweep: time.Now().Add(window),
	}
}

// bucket returns the bucket for ip. Expired buckets are swept at most
// once per window during lookup, so memory stays bounded without a
// background goroutine.
func (l *limiter) bucket(ip string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.nextSweep) {
		for key, b := range l.buckets {
			b.mu.Lock()
			expired := now.After(b.resetAt)
			b.mu.Unlock()
			if expired {
				delete(l.buckets, key)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	if b, ok := l.buckets[ip]; ok {
		return b
	}

	b := &bucket{resetAt: now.Add(l.window)}
	l.buckets[ip] = b
	return b
}

// RateLimit returns a middleware that limits each IP to max requests
// per window. Example: middleware.RateLimit(100, time.Minute)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			if !l.bucket(ip).allow(max, window) {
				http.Error(w, `{"status":429,"message":"Too Many Requests"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
