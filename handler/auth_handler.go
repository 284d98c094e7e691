package handler

import (
	"encoding/json"
	"go-todo-api/common"
	"go-todo-api/model"
	"go-todo-api/service"
	"net/http"

	"github.com/google/uuid"
)

// AuthHandler exposes the authentication endpoints. Tokens travel to the
// client exclusively through cookies; response bodies carry only status
// messages.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

func sendMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// checkCSRF enforces the double-submit pattern: when the client holds a csrf
// cookie, mutating auth requests must echo it in the X-CSRFToken header.
// Clients that never fetched /csrf/ are not subject to the check.
func checkCSRF(r *http.Request) *common.AppError {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return nil
	}
	if header := r.Header.Get("X-CSRFToken"); header == "" || header != cookie.Value {
		return common.NewAppError(http.StatusForbidden, "CSRF token missing or incorrect", nil)
	}
	return nil
}

// GetCSRFToken godoc
// @Summary      Set a CSRF cookie
// @Description  Issues a csrftoken cookie for the double-submit CSRF check.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /csrf/ [get]
func (h *AuthHandler) GetCSRFToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	if _, err := r.Cookie(CSRFCookieName); err != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     CSRFCookieName,
			Value:    uuid.NewString(),
			Path:     "/",
			Secure:   false,
			SameSite: http.SameSiteLaxMode,
			// Not HttpOnly: the frontend reads it to fill the X-CSRFToken header.
		})
	}
	sendMessage(w, http.StatusOK, "CSRF cookie set")
	return nil
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account. No tokens are issued; log in afterwards.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Duplicate username/email or weak password"
// @Router       /register/ [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := checkCSRF(r); appErr != nil {
		return appErr
	}

	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if _, err := h.auth.Register(req.Username, req.Email, req.Password); err != nil {
		switch err {
		case service.ErrDuplicateUsername, service.ErrDuplicateEmail, service.ErrWeakPassword:
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
		}
	}

	sendMessage(w, http.StatusCreated, "User registered successfully")
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the access and refresh cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login payload"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Router       /login/ [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := checkCSRF(r); appErr != nil {
		return appErr
	}

	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	setTokenCookie(w, AccessCookieName, pair.AccessToken, h.tokens.AccessTTL())
	setTokenCookie(w, RefreshCookieName, pair.RefreshToken, h.tokens.RefreshTTL())
	sendMessage(w, http.StatusOK, "Login successful")
	return nil
}

// Refresh godoc
// @Summary      Refresh the access token
// @Description  Uses the refresh cookie to mint a new access token; with rotation enabled the refresh cookie is replaced and the old token revoked.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Refresh cookie missing"
// @Failure      401  {object}  common.AppError "Invalid, expired or revoked refresh token"
// @Router       /refresh/ [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, service.ErrMissingToken.Error(), nil)
	}

	pair, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if err == service.ErrInvalidToken {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
	}

	setTokenCookie(w, AccessCookieName, pair.AccessToken, h.tokens.AccessTTL())
	if pair.RefreshToken != "" {
		setTokenCookie(w, RefreshCookieName, pair.RefreshToken, h.tokens.RefreshTTL())
	}
	sendMessage(w, http.StatusOK, "Access token refreshed")
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the refresh token when present and deletes both auth cookies. Always succeeds.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout/ [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := checkCSRF(r); appErr != nil {
		return appErr
	}

	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		h.auth.Logout(r.Context(), cookie.Value)
	}

	deleteTokenCookie(w, AccessCookieName)
	deleteTokenCookie(w, RefreshCookieName)
	sendMessage(w, http.StatusOK, "Logged out")
	return nil
}
