// file: service/token_service.go

package service

import (
	"context"
	"errors"
	"fmt"
	"go-todo-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed structure, wrong token kind and revoked refresh tokens. Callers
// deliberately cannot tell these apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenConfig holds the signing parameters for issued tokens.
type TokenConfig struct {
	SecretKey  string
	Algorithm  string // "HS256" (default) or "HS512"
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues and verifies the access and refresh JWTs carried in
// cookies. Access tokens are short-lived and purely stateless; refresh
// tokens carry a unique ID checked against the revocation list on every
// verification.
type TokenService struct {
	secretKey   []byte
	method      jwt.SigningMethod
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations IRevocationList
}

// NewTokenService validates the configuration up front so a misconfigured
// deployment fails at startup rather than on the first login.
func NewTokenService(cfg TokenConfig, revocations IRevocationList) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token service requires a signing key")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	return &TokenService{
		secretKey:   []byte(cfg.SecretKey),
		method:      method,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		revocations: revocations,
	}, nil
}

func (s *TokenService) ttlFor(kind model.TokenKind) time.Duration {
	if kind == model.TokenKindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// AccessTTL exposes the access-token lifetime so the cookie layer can align
// cookie Max-Age with token expiry.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL exposes the refresh-token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue creates a signed token of the given kind for the user. Refresh
// tokens get a uuid jti so they can be individually revoked; access tokens
// stay anonymous in that respect and are never revocable.
func (s *TokenService) Issue(userID int, kind model.TokenKind) (string, error) {
	now := time.Now()

	claims := &model.AppClaims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(kind))),
		},
	}
	if kind == model.TokenKindRefresh {
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return tokenString, nil
}

// Verify parses and validates a token of the expected kind, returning its
// claims. Any failure surfaces as ErrInvalidToken; for refresh tokens the
// revocation list is consulted as well.
func (s *TokenService) Verify(ctx context.Context, tokenString string, kind model.TokenKind) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != kind || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	if kind == model.TokenKindRefresh {
		if claims.ID == "" {
			return nil, ErrInvalidToken
		}
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}
