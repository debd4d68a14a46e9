package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
	"eventbook-backend/internal/pubsub"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventService handles event records scoped by their creator
type EventService struct {
	eventRepo EventRepository
	broker    pubsub.Broker
	now       func() time.Time
	newID     func() (string, error)
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, broker pubsub.Broker) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		broker:    broker,
		now:       time.Now,
		newID:     newEventID,
	}
}

// newEventID returns a time-ordered random UUID
func newEventID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate event id: %w", err)
	}
	return id.String(), nil
}

// ListOwned returns the events created by userID, ordered by date
func (s *EventService) ListOwned(ctx context.Context, userID string) ([]models.Event, error) {
	return s.eventRepo.ListByCreator(ctx, userID)
}

// Get returns an event by ID
func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// Save creates an event when input.ID is empty and merge-writes it otherwise.
// Title and description are validated before any storage call.
func (s *EventService) Save(ctx context.Context, userID string, input models.EventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if err := validateEvent(title, description); err != nil {
		return nil, err
	}
	if input.ID != "" && strings.TrimSpace(input.ID) == "" {
		return nil, apperr.Validation("event id must not be blank")
	}

	now := s.now()
	event := &models.Event{
		ID:          input.ID,
		Title:       title,
		Description: description,
		CreatorID:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Date != nil {
		event.Date = *input.Date
	}

	if event.ID == "" {
		id, err := s.newID()
		if err != nil {
			return nil, err
		}
		event.ID = id
		if event.Date.IsZero() {
			event.Date = now
		}
	} else {
		existing, err := s.eventRepo.GetByID(ctx, event.ID)
		switch {
		case err == nil:
			if existing.CreatorID != userID {
				return nil, apperr.PermissionDenied("event belongs to another user")
			}
		case errors.Is(err, apperr.ErrNotFound):
		default:
			return nil, err
		}
	}

	saved, err := s.eventRepo.Upsert(ctx, event)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, saved.CreatorID)
	return saved, nil
}

// Delete removes an event owned by userID
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := s.getOwned(ctx, userID, eventID); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.publish(ctx, userID)
	return nil
}

// getOwned loads an event and checks that userID created it
func (s *EventService) getOwned(ctx context.Context, userID, eventID string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != userID {
		return nil, apperr.PermissionDenied("event belongs to another user")
	}
	return event, nil
}

// attachImage records an uploaded image key on an event
func (s *EventService) attachImage(ctx context.Context, event *models.Event, imageKey string) error {
	if err := s.eventRepo.SetImageKey(ctx, event.ID, imageKey, s.now()); err != nil {
		return err
	}
	s.publish(ctx, event.CreatorID)
	return nil
}

// publish notifies watchers of ownerID's events. The write has already
// succeeded, so a failure is only logged.
func (s *EventService) publish(ctx context.Context, ownerID string) {
	if err := s.broker.Publish(ctx, pubsub.EventsTopic(ownerID)); err != nil {
		log.Error().
			Err(err).
			Str("user_id", ownerID).
			Msg("Failed to publish event change")
	}
}

func validateEvent(title, description string) error {
	var missing []string
	if title == "" {
		missing = append(missing, "title is required")
	}
	if description == "" {
		missing = append(missing, "description is required")
	}
	if len(missing) > 0 {
		return apperr.Validation("%s", strings.Join(missing, "; "))
	}
	return nil
}
