package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultClientIdle = 10 * time.Minute

// rateLimiter decides whether the client identified by key may send another request.
type rateLimiter interface {
	Allow(key string) bool
}

type clientBucket struct {
	limiter *rate.Limiter
	seenAt  time.Time
}

// ClientLimiter keeps one token bucket per client address. Buckets idle for
// longer than the idle window are dropped by Sweep.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket

	limit rate.Limit
	burst int
	idle  time.Duration
	clock func() time.Time
}

// NewClientLimiter allows each client ratePerSecond requests with bursts of
// up to burst. Non-positive values fall back to 1.
func NewClientLimiter(ratePerSecond float64, burst int) *ClientLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ClientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(ratePerSecond),
		burst:   burst,
		idle:    defaultClientIdle,
		clock:   time.Now,
	}
}

// Allow spends one token from the bucket of key.
func (l *ClientLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	bucket, ok := l.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
	}
	bucket.seenAt = now
	return bucket.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Sweep drops buckets of clients idle past the idle window and returns how many were removed.
func (l *ClientLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	removed := 0
	for key, bucket := range l.clients {
		if now.Sub(bucket.seenAt) > l.idle {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle clients every interval until ctx is cancelled.
func (l *ClientLimiter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// clientKey identifies the caller by remote host. The session cookie is
// client-controlled and is not used.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow(clientKey(r)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded", "Wait a moment before calculating again")
	})
}
