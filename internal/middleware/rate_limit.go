package middleware

import (
	"net/http"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/cache"
	"github.com/baharkarakas/wallet-api/internal/metrics"
)

// RateLimit rejects requests with 429 when l denies them. A nil limiter
// disables limiting.
func RateLimit(l cache.Limiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context()) {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Retry-After", "1")
				httpx.WriteCode(w, apperr.CodeRateLimited, "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
