package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticLimiter struct {
	allow bool
	keys  []string
}

func (s *staticLimiter) Allow(key string) bool {
	s.keys = append(s.keys, key)
	return s.allow
}

func newTestClientLimiter(rps float64, burst int) (*ClientLimiter, *controllableClock) {
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	limiter := NewClientLimiter(rps, burst)
	limiter.clock = clock.Now
	return limiter, clock
}

func requestFrom(method, target, remoteAddr string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimitMiddlewareBlocksWhenLimiterDenies(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After 1, got %q", got)
	}
}

func TestRateLimitMiddlewarePassesWhenLimiterAllows(t *testing.T) {
	var called bool
	middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestRateLimitMiddlewareKeysByRemoteHost(t *testing.T) {
	limiter := &staticLimiter{allow: true}
	middleware := rateLimitMiddleware(limiter, http.NotFoundHandler())

	middleware.ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodGet, "/", "10.0.0.1:5000"))
	middleware.ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodGet, "/", "10.0.0.1:6000"))
	middleware.ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodGet, "/", "[2001:db8::1]:443"))

	want := []string{"10.0.0.1", "10.0.0.1", "2001:db8::1"}
	if len(limiter.keys) != len(want) {
		t.Fatalf("expected %d lookups, got %v", len(want), limiter.keys)
	}
	for i, key := range want {
		if limiter.keys[i] != key {
			t.Fatalf("lookup %d: expected %q, got %q", i, key, limiter.keys[i])
		}
	}
}

func TestClientLimiterUsesDefaults(t *testing.T) {
	limiter := NewClientLimiter(0, 0)
	if !limiter.Allow("a") {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.Allow("a") {
		t.Fatalf("expected burst of 1 to be spent")
	}
}

func TestClientLimiterSeparatesClients(t *testing.T) {
	limiter, clock := newTestClientLimiter(1, 1)

	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("expected first client to be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatalf("expected first client to be limited")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("expected second client to keep its own budget")
	}

	clock.Advance(time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("expected first client to refill after a second")
	}
}

func TestClientLimiterSweepDropsIdleClients(t *testing.T) {
	limiter, clock := newTestClientLimiter(1, 1)

	limiter.Allow("10.0.0.1")
	clock.Advance(defaultClientIdle / 2)
	limiter.Allow("10.0.0.2")

	if removed := limiter.Sweep(); removed != 0 {
		t.Fatalf("expected nothing idle yet, removed %d", removed)
	}

	clock.Advance(defaultClientIdle/2 + time.Second)
	if removed := limiter.Sweep(); removed != 1 {
		t.Fatalf("expected one idle client, removed %d", removed)
	}
	if limiter.Len() != 1 {
		t.Fatalf("expected one tracked client, got %d", limiter.Len())
	}
}

func TestClientLimiterRunStopsOnCancel(t *testing.T) {
	limiter := NewClientLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- limiter.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestNilClientLimiterAllows(t *testing.T) {
	var limiter *ClientLimiter
	if !limiter.Allow("anyone") {
		t.Fatalf("expected nil limiter to allow")
	}
}
