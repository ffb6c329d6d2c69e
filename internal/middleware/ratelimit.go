package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/stellar-txkit/internal/httputil"
)

// RateLimiter counts requests per client in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*window
	sweptAt time.Time
	now     func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter allows limit requests per window and client.
func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  per,
		clients: make(map[string]*window),
		sweptAt: time.Now(),
		now:     time.Now,
	}
}

// Limit returns the configured request budget and window.
func (rl *RateLimiter) Limit() (int, time.Duration) {
	return rl.limit, rl.window
}

// Allow takes one request from key's budget.
// Returns (allowed, remaining, resetAt).
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)
	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.window)}
		rl.clients[key] = w
	}
	if w.count >= rl.limit {
		return false, 0, w.resetAt
	}
	w.count++
	return true, rl.limit - w.count, w.resetAt
}

// Remaining reports key's budget without spending it.
func (rl *RateLimiter) Remaining(key string) (int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		return rl.limit, now.Add(rl.window)
	}
	return rl.limit - w.count, w.resetAt
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.sweptAt) < rl.window {
		return
	}
	for key, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, key)
		}
	}
	rl.sweptAt = now
}

// RateLimitKey is the limiter key of the client that sent r.
func RateLimitKey(r *http.Request) string {
	return clientKey(r, "rate")
}

// RateLimit rejects clients that exceed rl's budget with 429. A nil
// limiter disables the check.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetAt := rl.Allow(RateLimitKey(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(resetAt.Sub(rl.now()).Seconds())+1))
				httputil.RespondError(w, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
