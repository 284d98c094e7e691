// file: handler/ratelimit.go

package handler

import (
	"fmt"
	"go-todo-api/common"
	"go-todo-api/logger"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window per-IP request budgets with Redis
// counters: the first hit in a window creates the key with the window TTL,
// later hits increment it. Counters live in Redis so the limits hold across
// server instances.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Limit wraps next with a max-requests-per-window budget under the given
// name. A nil limiter or non-positive max disables the check. Redis outages
// fail open: throttling is protection, not a correctness requirement.
func (l *RateLimiter) Limit(name string, max int, window time.Duration, next http.Handler) http.Handler {
	if l == nil || max <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, clientIP(r))

		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			logger.Log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(r.Context(), key, window)
		}

		if count > int64(max) {
			appErr := common.NewAppError(http.StatusTooManyRequests, "Too many requests, try again later", nil)
			appErr.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
