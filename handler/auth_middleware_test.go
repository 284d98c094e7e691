// handler/auth_middleware_test.go
package handler_test

import (
	"go-todo-api/handler"
	"go-todo-api/model"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_BearerHeaderAccepted(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	user, err := env.Users.GetUserByEmail("a@x.com")
	require.NoError(t, err)
	accessToken, err := env.TokenService.Issue(user.ID, model.TokenKindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/todos/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthMiddleware_CookieBeatsHeader(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	user, err := env.Users.GetUserByEmail("a@x.com")
	require.NoError(t, err)
	accessToken, err := env.TokenService.Issue(user.ID, model.TokenKindAccess)
	require.NoError(t, err)

	// A bogus cookie wins over a valid header: the cookie is authoritative,
	// so the request ends up anonymous.
	req := httptest.NewRequest("GET", "/todos/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookieName, Value: "stale-garbage"})
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_BridgesVerifiedCookieToHeader(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	user, err := env.Users.GetUserByEmail("a@x.com")
	require.NoError(t, err)
	accessToken, err := env.TokenService.Issue(user.ID, model.TokenKindAccess)
	require.NoError(t, err)

	var sawHeader string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("Authorization")
	})
	mw := handler.NewAuthMiddleware(env.AuthService).Handler(inner)

	req := httptest.NewRequest("GET", "/todos/", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookieName, Value: accessToken})
	mw.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Bearer "+accessToken, sawHeader)
}

func TestAuthMiddleware_UnverifiedCookieNotBridged(t *testing.T) {
	env := newTestEnv(t)

	// A cookie that fails verification must leave the Authorization header
	// alone; downstream consumers never see a garbage Bearer token.
	var sawHeader string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("Authorization")
	})
	mw := handler.NewAuthMiddleware(env.AuthService).Handler(inner)

	req := httptest.NewRequest("GET", "/todos/", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookieName, Value: "stale-garbage"})
	mw.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, sawHeader)
}

func TestAuthMiddleware_PublicEndpointsUnaffected(t *testing.T) {
	env := newTestEnv(t)

	// Broken credentials must not disturb unauthenticated endpoints.
	req := httptest.NewRequest("GET", "/health", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookieName, Value: "garbage"})
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthMiddleware_DeletedUserIsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	// A well-signed token for a user that no longer exists degrades to
	// anonymous instead of failing the request.
	accessToken, err := env.TokenService.Issue(12345, model.TokenKindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/todos/", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookieName, Value: accessToken})
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	headers := rr.Result().Header
	assert.Equal(t, "max-age=31536000; includeSubDomains", headers.Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", headers.Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'self'", headers.Get("Content-Security-Policy"))
	assert.Equal(t, "same-origin", headers.Get("Cross-Origin-Opener-Policy"))
}
