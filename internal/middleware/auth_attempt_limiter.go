package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	defaultMaxFailures   = 5
	defaultFailureWindow = 5 * time.Minute
	defaultBlockDuration = 15 * time.Minute
)

// AuthAttemptLimiter blocks a client for a while after too many failed
// token checks within a window.
type AuthAttemptLimiter struct {
	mu          sync.Mutex
	clients     map[string]*failures
	maxFailures int
	window      time.Duration
	block       time.Duration
	sweptAt     time.Time
	now         func() time.Time
}

type failures struct {
	count        int
	since        time.Time
	blockedUntil time.Time
	seen         time.Time
}

// NewAuthAttemptLimiter applies defaults to non-positive arguments.
func NewAuthAttemptLimiter(maxFailures int, window, block time.Duration) *AuthAttemptLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultFailureWindow
	}
	if block <= 0 {
		block = defaultBlockDuration
	}
	return &AuthAttemptLimiter{
		clients:     make(map[string]*failures),
		maxFailures: maxFailures,
		window:      window,
		block:       block,
		sweptAt:     time.Now(),
		now:         time.Now,
	}
}

// Blocked reports whether key is serving a block.
func (l *AuthAttemptLimiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	defer l.sweepLocked(now)
	f, ok := l.clients[key]
	if !ok {
		return false
	}
	f.seen = now
	return now.Before(f.blockedUntil)
}

// Failed records a failed attempt and starts a block once the window holds
// maxFailures of them.
func (l *AuthAttemptLimiter) Failed(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	defer l.sweepLocked(now)
	f, ok := l.clients[key]
	if !ok || now.Sub(f.since) > l.window {
		if !ok {
			f = &failures{}
			l.clients[key] = f
		}
		f.count, f.since = 0, now
	}
	f.seen = now
	f.count++
	if f.count >= l.maxFailures {
		f.blockedUntil = now.Add(l.block)
		f.count, f.since = 0, now
	}
}

// Succeeded forgets the failures of key.
func (l *AuthAttemptLimiter) Succeeded(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, key)
}

func (l *AuthAttemptLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.sweptAt) < l.window {
		return
	}
	for key, f := range l.clients {
		if now.After(f.blockedUntil) && now.Sub(f.seen) > l.window {
			delete(l.clients, key)
		}
	}
	l.sweptAt = now
}

// clientKey identifies the caller by remote IP, prefixed by purpose.
// chi's RealIP middleware runs first when the server sits behind a proxy.
func clientKey(r *http.Request, purpose string) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return purpose + ":" + host
}
