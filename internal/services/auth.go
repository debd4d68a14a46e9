package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
	"eventbook-backend/internal/revocation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService signs users up and in and turns bearer tokens into sessions
type AuthService struct {
	userRepo  UserRepository
	revoked   revocation.Registry
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, revoked revocation.Registry, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		revoked:   revoked,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// AuthResult is returned by sign-up and sign-in
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Credentials is the sign-up and sign-in request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns a session token for it
func (s *AuthService) SignUp(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := normalizeEmail(creds.Email)
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("email is invalid")
	}
	if len(creds.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validation("password is too long")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// SignIn checks credentials and returns a session token
func (s *AuthService) SignIn(ctx context.Context, creds Credentials) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	return s.issue(user)
}

// SignOut revokes the session's token until it would have expired
func (s *AuthService) SignOut(ctx context.Context, session models.Session) error {
	// The remaining lifetime is measured on the clock that validates tokens.
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.revoked.Revoke(ctx, session.TokenID, ttl); err != nil {
		return apperr.Remote("failed to sign out", err)
	}
	return nil
}

// Authenticate validates a bearer token and returns its session
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return models.Session{}, apperr.Unauthenticated("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, apperr.Unauthenticated("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	tokenID, _ := claims["jti"].(string)
	if userID == "" || tokenID == "" {
		return models.Session{}, apperr.Unauthenticated("invalid token claims")
	}
	email, _ := claims["email"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return models.Session{}, apperr.Unauthenticated("invalid token claims")
	}

	revoked, err := s.revoked.IsRevoked(ctx, tokenID)
	if err != nil {
		return models.Session{}, apperr.Remote("failed to check session", err)
	}
	if revoked {
		return models.Session{}, apperr.Unauthenticated("session has ended")
	}

	return models.Session{
		UserID:    userID,
		Email:     email,
		TokenID:   tokenID,
		ExpiresAt: exp.Time,
	}, nil
}

// issue generates a JWT token for a user
func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{
		User:      user,
		Token:     tokenString,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
