package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/repository"
	"eventbook-backend/internal/revocation"

	"github.com/golang-jwt/jwt/v5"
)

func newAuthService(t *testing.T) (*AuthService, *testClock) {
	t.Helper()
	clock := newTestClock()
	s := NewAuthService(repository.NewMemoryUserRepository(), revocation.NewMemoryRegistry(), "test-secret", time.Hour)
	s.now = clock.Now
	return s, clock
}

func TestSignUpAndSignIn(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	signedUp, err := s.SignUp(ctx, Credentials{Email: " Alice@Example.com ", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if signedUp.User.Email != "alice@example.com" {
		t.Fatalf("email = %q", signedUp.User.Email)
	}
	if signedUp.User.PasswordHash == "hunter22" {
		t.Fatal("password stored in clear text")
	}

	signedIn, err := s.SignIn(ctx, Credentials{Email: "alice@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	session, err := s.Authenticate(ctx, signedIn.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.UserID != signedUp.User.ID || session.Email != "alice@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSignUpValidation(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		creds Credentials
		want  error
	}{
		{"bad email", Credentials{Email: "alice", Password: "hunter22"}, apperr.ErrValidation},
		{"short password", Credentials{Email: "a@example.com", Password: "123"}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.SignUp(ctx, tt.creds); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := s.SignUp(ctx, Credentials{Email: "a@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := s.SignUp(ctx, Credentials{Email: "A@example.com", Password: "hunter22"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := s.SignUp(ctx, Credentials{Email: "a@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	for _, creds := range []Credentials{
		{Email: "a@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "hunter22"},
	} {
		_, err := s.SignIn(ctx, creds)
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("%+v: expected unauthenticated, got %v", creds, err)
		}
		if err.Error() != "invalid credentials" {
			t.Fatalf("message = %q", err.Error())
		}
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	s, clock := newAuthService(t)
	ctx := context.Background()

	result, err := s.SignUp(ctx, Credentials{Email: "a@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	other := NewAuthService(repository.NewMemoryUserRepository(), revocation.NewMemoryRegistry(), "other-secret", time.Hour)
	other.now = clock.Now
	foreign, _ := other.SignUp(ctx, Credentials{Email: "b@example.com", Password: "hunter22"})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "x", "jti": "y", "exp": clock.Now().Add(time.Hour).Unix(),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign.Token,
		"alg none":     unsigned,
	} {
		if _, err := s.Authenticate(ctx, token); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("%s: expected unauthenticated, got %v", name, err)
		}
	}

	clock.Advance(2 * time.Hour)
	if _, err := s.Authenticate(ctx, result.Token); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expired: expected unauthenticated, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	result, err := s.SignUp(ctx, Credentials{Email: "a@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	session, err := s.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if err := s.SignOut(ctx, session); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	_, err = s.Authenticate(ctx, result.Token)
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated after sign out, got %v", err)
	}

	// A fresh sign-in gets a new, valid token.
	again, err := s.SignIn(ctx, Credentials{Email: "a@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, err := s.Authenticate(ctx, again.Token); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}
}

type recordingRegistry struct {
	revoked map[string]time.Duration
}

func (r *recordingRegistry) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.revoked[tokenID] = ttl
	return nil
}

func (r *recordingRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func TestSignOutRevokesForRemainingLifetime(t *testing.T) {
	clock := newTestClock()
	registry := &recordingRegistry{revoked: make(map[string]time.Duration)}
	s := NewAuthService(repository.NewMemoryUserRepository(), registry, "test-secret", time.Hour)
	s.now = clock.Now
	ctx := context.Background()

	result, err := s.SignUp(ctx, Credentials{Email: "a@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	session, err := s.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	clock.Advance(20 * time.Minute)
	if err := s.SignOut(ctx, session); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	if ttl := registry.revoked[session.TokenID]; ttl != 40*time.Minute {
		t.Fatalf("revoked for %v, want 40m", ttl)
	}
}
