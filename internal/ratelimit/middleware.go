package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

// Limit rejects requests with 429 once the caller exceeds max requests
// per window. Callers are keyed by principal, falling back to the remote
// address. Limiter failures let the request through.
func Limit(l Limiter, window time.Duration, max int, logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	retryAfter := strconv.Itoa(int(window.Round(time.Second).Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := KeyFor(r)
			allowed, err := l.Allow(r.Context(), key, window, max)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.Info("rate limit exceeded", "key", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				base.WriteAppError(w, internal.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func KeyFor(r *http.Request) string {
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		return "user:" + p.CompanyID + ":" + p.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
