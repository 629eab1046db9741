package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"briteverify/pkg/platform/httputil"
	"briteverify/pkg/requestcontext"
)

const (
	apiKeyPrefix    = "ApiKey:"
	requestIDHeader = "X-Request-ID"
)

// RequestID propagates the caller's X-Request-ID, minting one when absent, and
// echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIKey rejects requests whose Authorization header is not "ApiKey: <key>".
func RequireAPIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), apiKeyPrefix); ok {
				got := []byte(strings.TrimSpace(after))
				if subtle.ConstantTimeCompare(got, want) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			logger.WarnContext(ctx, "unauthorized access - invalid api key",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid API key")
		})
	}
}

// RateLimitEvery answers every nth request with 429 and the given Retry-After
// seconds. n < 1 disables it.
func RateLimitEvery(n int, retryAfter int, logger *slog.Logger) func(http.Handler) http.Handler {
	var count atomic.Int64
	return func(next http.Handler) http.Handler {
		if n < 1 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if count.Add(1)%int64(n) != 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.InfoContext(ctx, "injecting rate limit response",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
		})
	}
}
