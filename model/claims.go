package model

import "github.com/golang-jwt/jwt/v5"

// TokenKind distinguishes the two token flavors carried in cookies.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// AppClaims is the JWT claim set for both access and refresh tokens.
// Refresh tokens additionally carry a unique ID (jti in RegisteredClaims)
// so individual refresh tokens can be revoked.
type AppClaims struct {
	UserID int       `json:"user_id"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}
