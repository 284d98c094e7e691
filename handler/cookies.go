// file: handler/cookies.go

package handler

import (
	"go-todo-api/config"
	"net/http"
	"time"
)

// Cookie names shared between the auth handlers and the auth middleware.
const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"
	CSRFCookieName    = "csrftoken"
)

// setTokenCookie stores a token in an HttpOnly, SameSite=Lax cookie whose
// lifetime matches the token's TTL. The Secure flag comes from config and
// must be on in production.
func setTokenCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   config.AppConfig.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// deleteTokenCookie instructs the client to drop a token cookie.
func deleteTokenCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.AppConfig.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
