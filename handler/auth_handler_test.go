// handler/auth_handler_test.go
package handler_test

import (
	"go-todo-api/handler"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, env *testEnv, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func registerAlice(t *testing.T, env *testEnv) {
	t.Helper()
	rr := doJSON(t, env, "POST", "/register/", `{"username":"alice","email":"a@x.com","password":"Str0ng!Pw"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func loginAlice(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	rr := doJSON(t, env, "POST", "/login/", `{"email":"a@x.com","password":"Str0ng!Pw"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return rr.Result().Cookies()
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		registerAlice(t, env)
	})

	t.Run("duplicate username", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/register/", `{"username":"alice","email":"a2@x.com","password":"Str0ng!Pw"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "username already taken")
	})

	t.Run("duplicate email", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/register/", `{"username":"alice2","email":"a@x.com","password":"Str0ng!Pw"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "email already registered")
	})

	t.Run("weak password", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/register/", `{"username":"bob","email":"b@x.com","password":"weakpassword"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/register/", `{"username":"bob","email":"not-an-email","password":"Str0ng!Pw"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/login/", `{"email":"a@x.com","password":"Wr0ng!Pwd"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/login/", `{"email":"nobody@x.com","password":"Wr0ng!Pwd"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		wrongPw := doJSON(t, env, "POST", "/login/", `{"email":"a@x.com","password":"Wr0ng!Pwd"}`, nil)
		assert.Equal(t, wrongPw.Body.String(), rr.Body.String())
	})

	t.Run("success sets both cookies", func(t *testing.T) {
		cookies := loginAlice(t, env)

		access := cookieByName(cookies, handler.AccessCookieName)
		require.NotNil(t, access)
		assert.True(t, access.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
		assert.Positive(t, access.MaxAge)

		refresh := cookieByName(cookies, handler.RefreshCookieName)
		require.NotNil(t, refresh)
		assert.True(t, refresh.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, refresh.SameSite)
		assert.Greater(t, refresh.MaxAge, access.MaxAge)
	})
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	t.Run("missing cookie", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/refresh/", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/refresh/", "", []*http.Cookie{
			{Name: handler.RefreshCookieName, Value: "garbage"},
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rotation revokes the old token", func(t *testing.T) {
		cookies := loginAlice(t, env)
		oldRefresh := cookieByName(cookies, handler.RefreshCookieName)
		require.NotNil(t, oldRefresh)

		rr := doJSON(t, env, "POST", "/refresh/", "", []*http.Cookie{oldRefresh})
		require.Equal(t, http.StatusOK, rr.Code)

		rotated := rr.Result().Cookies()
		newAccess := cookieByName(rotated, handler.AccessCookieName)
		newRefresh := cookieByName(rotated, handler.RefreshCookieName)
		require.NotNil(t, newAccess)
		require.NotNil(t, newRefresh)
		assert.NotEqual(t, oldRefresh.Value, newRefresh.Value)

		// Replaying the superseded refresh token must fail.
		rr = doJSON(t, env, "POST", "/refresh/", "", []*http.Cookie{oldRefresh})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		// The rotated one keeps working.
		rr = doJSON(t, env, "POST", "/refresh/", "", []*http.Cookie{newRefresh})
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)
	cookies := loginAlice(t, env)
	refresh := cookieByName(cookies, handler.RefreshCookieName)
	require.NotNil(t, refresh)

	rr := doJSON(t, env, "POST", "/logout/", "", cookies)
	require.Equal(t, http.StatusOK, rr.Code)

	// Both cookies must be deleted regardless of token state.
	deleted := rr.Result().Cookies()
	access := cookieByName(deleted, handler.AccessCookieName)
	require.NotNil(t, access)
	assert.Negative(t, access.MaxAge)
	assert.Empty(t, access.Value)
	refreshDeleted := cookieByName(deleted, handler.RefreshCookieName)
	require.NotNil(t, refreshDeleted)
	assert.Negative(t, refreshDeleted.MaxAge)

	// The revoked refresh token is dead.
	rr = doJSON(t, env, "POST", "/refresh/", "", []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Logging out again, with or without cookies, still succeeds.
	rr = doJSON(t, env, "POST", "/logout/", "", cookies)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(t, env, "POST", "/logout/", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCSRF(t *testing.T) {
	env := newTestEnv(t)
	registerAlice(t, env)

	rr := doJSON(t, env, "GET", "/csrf/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	csrf := cookieByName(rr.Result().Cookies(), handler.CSRFCookieName)
	require.NotNil(t, csrf)
	assert.False(t, csrf.HttpOnly, "the frontend must be able to read the csrf cookie")

	t.Run("cookie without header is rejected", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/login/", `{"email":"a@x.com","password":"Str0ng!Pw"}`, []*http.Cookie{csrf})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("matching header passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login/", strings.NewReader(`{"email":"a@x.com","password":"Str0ng!Pw"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRFToken", csrf.Value)
		req.AddCookie(csrf)
		rec := httptest.NewRecorder()
		env.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("clients without the cookie are not subject to the check", func(t *testing.T) {
		rr := doJSON(t, env, "POST", "/login/", `{"email":"a@x.com","password":"Str0ng!Pw"}`, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
