package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// RateLimit rejects requests beyond the limiter's rate with 429 and the
// JSON envelope. A nil limiter disables limiting.
func RateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			apperrors.WriteErrorCode(w, http.StatusTooManyRequests,
				"RATE_LIMITED", "too many uploads, retry later", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
