package services

import (
	"context"
	"time"

	"eventbook-backend/internal/models"
)

// UserRepository is the user storage used by AuthService
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// EventRepository is the event storage used by EventService and FavoriteService.
// Upsert has merge semantics: a zero Date or nil ImageKey keeps the stored value.
type EventRepository interface {
	Upsert(ctx context.Context, event *models.Event) (*models.Event, error)
	SetImageKey(ctx context.Context, id, imageKey string, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Event, error)
	Delete(ctx context.Context, id string) error
}

// FavoriteRepository is the per-user favorites storage used by FavoriteService
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	Put(ctx context.Context, fav *models.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	Delete(ctx context.Context, userID, eventID string) error
}

// Presigner issues upload URLs for the object store
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}
