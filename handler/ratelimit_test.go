// handler/ratelimit_test.go
package handler_test

import (
	"go-todo-api/handler"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newLimitedHandler(t *testing.T, max int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := handler.NewRateLimiter(client)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return limiter.Limit("test", max, window, ok), mr
}

func hit(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest("POST", "/login/", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_BudgetPerIP(t *testing.T) {
	limited, _ := newLimitedHandler(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.1:1234"))

	// Another IP has its own budget.
	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.2:1234"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limited, mr := newLimitedHandler(t, 1, time.Minute)

	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.1:1234"))

	mr.FastForward(2 * time.Minute)

	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1234"))
}

func TestRateLimiter_DisabledWhenUnconfigured(t *testing.T) {
	limited, _ := newLimitedHandler(t, 0, time.Minute)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1234"))
	}
}

func TestRateLimiter_NilLimiterPassesThrough(t *testing.T) {
	var limiter *handler.RateLimiter
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := limiter.Limit("test", 1, time.Minute, ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234"))
	}
}
