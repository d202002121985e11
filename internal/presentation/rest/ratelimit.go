package rest

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket is a token bucket for one client.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	refillRate float64 // tokens per second
	maxTokens  float64
	idleTTL    time.Duration
	now        func() time.Time
}

// NewRateLimiter allows rps sustained requests per second per client with
// bursts up to burst. A burst below one is raised to one.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		refillRate: rps,
		maxTokens:  float64(burst),
		idleTTL:    10 * time.Minute,
		now:        time.Now,
	}
}

// Allow reports whether a request from client is permitted and consumes a
// token if so.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[client]
	if !ok {
		rl.evictIdle(now)
		b = &bucket{tokens: rl.maxTokens, lastSeen: now}
		rl.buckets[client] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.refillRate
	if b.tokens > rl.maxTokens {
		b.tokens = rl.maxTokens
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// evictIdle drops buckets that have refilled completely. Caller holds mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idleTTL {
			delete(rl.buckets, k)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			errorResponse(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
