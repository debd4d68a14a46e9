package handlers

import (
	"net/http"

	"eventbook-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FavoriteHandler handles favorite-related HTTP requests
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	wsHub           *services.WSHub
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *services.FavoriteService, wsHub *services.WSHub) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		wsHub:           wsHub,
	}
}

// FavoriteStatus is the body of favorite status responses
type FavoriteStatus struct {
	EventID   string `json:"event_id"`
	Favorited bool   `json:"favorited"`
}

// GetFavoriteStatus handles GET /api/v1/events/{event_id}/favorite
func (h *FavoriteHandler) GetFavoriteStatus(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID
	eventID := chi.URLParam(r, "event_id")

	favorited, err := h.favoriteService.IsFavorited(r.Context(), userID, eventID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_id", eventID).
			Msg("Failed to check favorite")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, FavoriteStatus{EventID: eventID, Favorited: favorited})
}

// ToggleFavorite handles POST /api/v1/events/{event_id}/favorite
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID
	eventID := chi.URLParam(r, "event_id")

	favorited, err := h.favoriteService.Toggle(r.Context(), userID, eventID, nil)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_id", eventID).
			Msg("Failed to toggle favorite")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("event_id", eventID).
		Bool("favorited", favorited).
		Msg("Favorite toggled")

	// Other devices of the same user learn about it over WebSocket (if online)
	h.wsHub.NotifyFavoriteChanged(userID, eventID, favorited)

	respondJSON(w, http.StatusOK, FavoriteStatus{EventID: eventID, Favorited: favorited})
}

// ListFavorites handles GET /api/v1/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID

	favorites, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list favorites")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": favorites,
	})
}

// DeleteFavorite handles DELETE /api/v1/favorites/{favorite_id}
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID
	favoriteID := chi.URLParam(r, "favorite_id")

	if err := h.favoriteService.Remove(r.Context(), userID, favoriteID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("favorite_id", favoriteID).
			Msg("Failed to delete favorite")
		respondServiceError(w, err)
		return
	}

	h.wsHub.NotifyFavoriteChanged(userID, favoriteID, false)
	w.WriteHeader(http.StatusNoContent)
}
