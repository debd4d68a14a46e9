package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"eventbook-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles event image uploads
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler. imageService may be nil when
// no bucket is configured.
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// UploadImage handles POST /api/v1/events/{event_id}/image
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.imageService == nil {
		respondError(w, "Image uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	userID := session(r).UserID
	eventID := chi.URLParam(r, "event_id")

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.imageService.PresignUpload(r.Context(), userID, eventID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_id", eventID).
			Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("event_id", eventID).
		Str("image_key", response.ImageKey).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}
