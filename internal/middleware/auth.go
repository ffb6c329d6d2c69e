package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/stellar-txkit/internal/httputil"
)

// BearerToken requires the Authorization header to carry token. An empty
// token disables the check. Failures count against limiter, which may be
// nil.
func BearerToken(token string, limiter *AuthAttemptLimiter) func(http.Handler) http.Handler {
	want := sha256.Sum256([]byte(token))
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r, "token")
			if limiter != nil && limiter.Blocked(key) {
				httputil.RespondError(w, http.StatusTooManyRequests, "rate_limited", "Too many authentication failures")
				return
			}

			got, ok := bearer(r)
			if !ok {
				if limiter != nil {
					limiter.Failed(key)
				}
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}
			gotSum := sha256.Sum256([]byte(got))
			if subtle.ConstantTimeCompare(gotSum[:], want[:]) != 1 {
				if limiter != nil {
					limiter.Failed(key)
				}
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid bearer token")
				return
			}

			if limiter != nil {
				limiter.Succeeded(key)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
