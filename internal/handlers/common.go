package handlers

import (
	"encoding/json"
	"net/http"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/middleware"
	"eventbook-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps an error to its status code. Application errors
// reach the client verbatim; anything else is reported generically.
func respondServiceError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnknown {
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondError(w, err.Error(), kind.HTTPStatus())
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// session returns the authenticated session set by AuthMiddleware
func session(r *http.Request) models.Session {
	s, _ := middleware.GetSession(r.Context())
	return s
}
