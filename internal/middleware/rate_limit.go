package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

// RateLimiter counts hits for key in the current minute window.
type RateLimiter interface {
	CheckAndIncrementRateLimit(ctx context.Context, key string) (int32, error)
}

// RateLimit returns middleware that enforces a per-minute limit per client
// address. Requests pass through when the counter itself fails.
func RateLimit(limiter RateLimiter, scope string, limit int, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			client := clientAddr(r)
			count, err := limiter.CheckAndIncrementRateLimit(r.Context(), scope+":"+client)
			if err != nil {
				slog.Error("rate limit check failed", "error", err, "client", client)
				next.ServeHTTP(w, r)
				return
			}

			if int(count) > limit {
				slog.Debug("rate limited", "client", client, "scope", scope, "count", count, "limit", limit)
				onLimited(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr strips the port RemoteAddr carries when RealIP found no header.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
