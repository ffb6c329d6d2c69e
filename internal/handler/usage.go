package handler

import (
	"net/http"

	"github.com/stellar-txkit/internal/middleware"
)

// UsageHandler reports the caller's remaining request budget.
type UsageHandler struct {
	rateLimiter *middleware.RateLimiter
}

func NewUsageHandler(rl *middleware.RateLimiter) *UsageHandler {
	return &UsageHandler{rateLimiter: rl}
}

type RateLimitInfo struct {
	MaxRequests   int   `json:"max_requests"`
	WindowSeconds int   `json:"window_seconds"`
	Remaining     int   `json:"remaining"`
	ResetAt       int64 `json:"reset_at"`
}

func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, window := h.rateLimiter.Limit()
	remaining, resetAt := h.rateLimiter.Remaining(middleware.RateLimitKey(r))
	RespondJSON(w, http.StatusOK, RateLimitInfo{
		MaxRequests:   limit,
		WindowSeconds: int(window.Seconds()),
		Remaining:     remaining,
		ResetAt:       resetAt.Unix(),
	})
}
