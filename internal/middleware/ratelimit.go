package middleware

import (
	"net/http"
	"sync"
	"time"
)

type window struct {
	count    int
	resetsAt time.Time
}

// RateLimiter is a fixed-window in-memory limiter, used to slow
// credential-guessing on the login and register endpoints.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
	}
}

// Allow returns true if the key has not exceeded limit within the window.
func (rl *RateLimiter) Allow(key string, limit int, span time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.resetsAt) {
		rl.windows[key] = &window{count: 1, resetsAt: now.Add(span)}
		return true
	}
	w.count++
	return w.count <= limit
}

// Cleanup removes expired windows.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, w := range rl.windows {
		if now.After(w.resetsAt) {
			delete(rl.windows, key)
		}
	}
}

// RateLimit returns middleware that limits requests per key.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, limit int, span time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(keyFunc(r), limit, span) {
				writeAuthError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
