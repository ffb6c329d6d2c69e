package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowAndReset(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(2, time.Second)
	rl.now = clock.now

	allowed, remaining, _ := rl.Allow("a")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, _ = rl.Allow("a")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, resetAt := rl.Allow("a")
	assert.False(t, allowed)
	assert.Equal(t, clock.t.Add(time.Second), resetAt)

	left, _ := rl.Remaining("b")
	assert.Equal(t, 2, left, "clients are counted separately")

	clock.advance(time.Second)
	allowed, remaining, _ = rl.Allow("a")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}

func TestRateLimiterSweepsExpiredWindows(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(10, time.Minute)
	rl.now = clock.now
	rl.sweptAt = clock.t

	rl.Allow("stale")
	clock.advance(2 * time.Minute)
	rl.Allow("fresh")

	assert.NotContains(t, rl.clients, "stale")
	assert.Contains(t, rl.clients, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := send("192.0.2.1:1000")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = send("192.0.2.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), `"rate_limited"`)

	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:1000").Code)
}

func TestRateLimitNilLimiter(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := RateLimit(nil)(next)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}
