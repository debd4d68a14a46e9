package handlers

import (
	"encoding/json"
	"net/http"

	"eventbook-backend/internal/models"
	"eventbook-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// ListEvents handles GET /api/v1/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID

	events, err := h.eventService.ListOwned(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list events")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// CreateEvent handles POST /api/v1/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input models.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// No id means "create new"; a body id is not honored here.
	input.ID = ""

	h.save(w, r, input, http.StatusCreated)
}

// UpdateEvent handles PUT /api/v1/events/{event_id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var input models.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	input.ID = chi.URLParam(r, "event_id")

	h.save(w, r, input, http.StatusOK)
}

func (h *EventHandler) save(w http.ResponseWriter, r *http.Request, input models.EventInput, status int) {
	userID := session(r).UserID

	event, err := h.eventService.Save(r.Context(), userID, input)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_id", input.ID).
			Msg("Failed to save event")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("event_id", event.ID).
		Msg("Event saved")

	respondJSON(w, status, event)
}

// GetEvent handles GET /api/v1/events/{event_id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "event_id")

	event, err := h.eventService.Get(r.Context(), eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to get event")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/v1/events/{event_id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID := session(r).UserID
	eventID := chi.URLParam(r, "event_id")

	if err := h.eventService.Delete(r.Context(), userID, eventID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_id", eventID).
			Msg("Failed to delete event")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("event_id", eventID).
		Msg("Event deleted")

	w.WriteHeader(http.StatusNoContent)
}
