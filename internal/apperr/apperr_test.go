package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("save event: %w", Validation("title is required"))

	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected wrapped validation error to match ErrValidation")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("validation error must not match ErrNotFound")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindOf(err))
	}
}

func TestRemoteKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Remote("failed to get event", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected remote error to unwrap to its cause")
	}
	if got, want := err.Error(), "failed to get event: connection refused"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{PermissionDenied("x"), http.StatusForbidden},
		{Conflict("x"), http.StatusConflict},
		{Unauthenticated("x"), http.StatusUnauthorized},
		{Remote("x", errors.New("y")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err).HTTPStatus(); got != tt.want {
			t.Fatalf("%v: status = %d, want %d", tt.err, got, tt.want)
		}
	}
}
