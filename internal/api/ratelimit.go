package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/chapteredapp/chaptered-server/internal/http/response"
	"github.com/chapteredapp/chaptered-server/internal/ratelimit"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

// RateLimitMiddleware limits requests under pathPrefix per client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, pathPrefix string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, pathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, "too many requests, please try again later", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func clientInfoFromRequest(r *http.Request) service.ClientInfo {
	return service.ClientInfo{
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
