package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
)

type stubAuth struct {
	sessions map[string]models.Session
	err      error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (models.Session, error) {
	if s.err != nil {
		return models.Session{}, s.err
	}
	session, ok := s.sessions[token]
	if !ok {
		return models.Session{}, apperr.Unauthenticated("invalid token")
	}
	return session, nil
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuth{sessions: map[string]models.Session{"good": {UserID: "alice"}}}

	var seen models.Session
	handler := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			t.Fatal("session missing from context")
		}
		seen = session
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"extra parts", "Bearer good extra", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
					t.Fatalf("expected JSON error body, got %q", rec.Body.String())
				}
			}
		})
	}

	if seen.UserID != "alice" {
		t.Fatalf("handler saw session %+v", seen)
	}
}

func TestAuthMiddlewarePassesRemoteFailures(t *testing.T) {
	auth := stubAuth{err: apperr.Remote("failed to check session", context.DeadlineExceeded)}
	handler := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}
