package handlers

import (
	"encoding/json"
	"net/http"

	"eventbook-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.SignUp(r.Context(), creds)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign up")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", result.User.ID).
		Msg("User signed up")

	respondJSON(w, http.StatusCreated, result)
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.SignIn(r.Context(), creds)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to sign in")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", result.User.ID).
		Msg("User signed in")

	respondJSON(w, http.StatusOK, result)
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	s := session(r)

	if err := h.authService.SignOut(r.Context(), s); err != nil {
		log.Error().Err(err).Str("user_id", s.UserID).Msg("Failed to sign out")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", s.UserID).Msg("User signed out")
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession handles GET /api/v1/session
func (h *AuthHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, session(r))
}
