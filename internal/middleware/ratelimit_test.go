package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		if !rl.Allow("1.2.3.4", 5, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4", 5, time.Minute) {
		t.Error("sixth request should be denied")
	}
	// Other keys are unaffected.
	if !rl.Allow("5.6.7.8", 5, time.Minute) {
		t.Error("different key should be allowed")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter()

	if !rl.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("second request in window should be denied")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("k", 1, 10*time.Millisecond) {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow("stale", 1, time.Nanosecond)
	rl.Allow("fresh", 1, time.Hour)
	time.Sleep(time.Millisecond)
	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.windows["stale"]; ok {
		t.Error("expected stale window to be removed")
	}
	if _, ok := rl.windows["fresh"]; !ok {
		t.Error("expected fresh window to survive cleanup")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	keyFunc := func(r *http.Request) string { return "fixed" }

	handler := RateLimit(rl, keyFunc, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/session", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/session", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}
