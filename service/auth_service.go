// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-todo-api/logger"
	"go-todo-api/model"
	"go-todo-api/repository"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must contain at least one uppercase letter, one lowercase letter, one number and one special character")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("refresh token not found in cookies")
)

const passwordSpecialChars = `!@#$%^&*()_+=-{}[]:;"'<>,.?/\|~` + "`"

// TokenPair carries a freshly issued access token and, when rotation applies,
// a refresh token. RefreshToken is empty on a non-rotating refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates registration, login, refresh and logout on top of
// the user repository, the token codec and the revocation list. It holds no
// per-session state: the only tokens in the system are the ones the client
// carries in its cookies.
type AuthService struct {
	userRepo    repository.IUserRepository
	tokens      *TokenService
	revocations IRevocationList
	rotate      bool
}

func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService, revocations IRevocationList, rotateRefresh bool) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
		rotate:      rotateRefresh,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePasswordComplexity enforces the registration password policy:
// at least one uppercase letter, one lowercase letter, one digit and one
// special character.
func ValidatePasswordComplexity(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user with a hashed password. No tokens are issued;
// the client is expected to log in afterwards.
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	if err := ValidatePasswordComplexity(password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies the credentials and issues a fresh access/refresh pair.
// Unknown email and wrong password fail with the same ErrInvalidCredentials
// so responses do not leak whether an account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh verifies the presented refresh token and mints a new access token.
// With rotation enabled the old token's ID is revoked before the new pair is
// issued: of two concurrent refreshes with the same token, the one that wins
// the revocation list's compare-and-insert proceeds and the other fails with
// ErrInvalidToken, so a superseded refresh token can never be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, model.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	if !s.rotate {
		accessToken, err := s.tokens.Issue(claims.UserID, model.TokenKindAccess)
		if err != nil {
			return nil, err
		}
		return &TokenPair{AccessToken: accessToken}, nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			// A concurrent refresh already rotated this token.
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	pair, err := s.issuePair(claims.UserID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", claims.UserID).Info("Tokens rotated")
	return pair, nil
}

// Logout revokes the refresh token's ID when the token is present and valid.
// It never fails: an absent, expired, malformed or already-revoked token
// leaves nothing to do, and the handler clears the cookies regardless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.tokens.Verify(ctx, refreshToken, model.TokenKindRefresh)
	if err != nil {
		return
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil && !errors.Is(err, ErrTokenRevoked) {
		logger.Log.WithError(err).Warn("Failed to revoke refresh token on logout")
	}
}

// Authenticate resolves an access token to its user. Every failure mode
// (malformed token, expiry, deleted user) comes back as an error; the
// middleware boundary is the only place that collapses those errors into an
// anonymous identity.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Verify(ctx, tokenString, model.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issuePair(userID int) (*TokenPair, error) {
	accessToken, err := s.tokens.Issue(userID, model.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.Issue(userID, model.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
