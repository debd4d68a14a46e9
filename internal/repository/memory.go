package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
)

// The Memory* repositories back the "memory" database driver and the tests.
// They follow the same merge and ordering rules as the PostgreSQL ones.

// MemoryUserRepository keeps users in process memory
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user. Emails are unique.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.Conflict("email is already registered")
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByID retrieves a user by ID
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return r.GetByID(ctx, id)
}

// MemoryEventRepository keeps events in process memory
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]models.Event
}

// NewMemoryEventRepository creates a new in-memory event repository
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{events: make(map[string]models.Event)}
}

// Upsert inserts or merge-updates an event and returns the stored row
func (r *MemoryEventRepository) Upsert(_ context.Context, event *models.Event) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.events[event.ID]
	if !exists {
		stored = models.Event{
			ID:        event.ID,
			CreatorID: event.CreatorID,
			CreatedAt: event.CreatedAt,
			Date:      event.UpdatedAt,
		}
	}

	stored.Title = event.Title
	stored.Description = event.Description
	stored.UpdatedAt = event.UpdatedAt
	if !event.Date.IsZero() {
		stored.Date = event.Date
	}
	if event.ImageKey != nil {
		stored.ImageKey = cloneString(event.ImageKey)
	}

	r.events[stored.ID] = stored
	return cloneEvent(stored), nil
}

// SetImageKey records the image key of an existing event
func (r *MemoryEventRepository) SetImageKey(_ context.Context, id, imageKey string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.events[id]
	if !exists {
		return apperr.NotFound("event not found")
	}
	stored.ImageKey = &imageKey
	stored.UpdatedAt = updatedAt
	r.events[id] = stored
	return nil
}

// GetByID retrieves an event by ID
func (r *MemoryEventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.events[id]
	if !exists {
		return nil, apperr.NotFound("event not found")
	}
	return cloneEvent(stored), nil
}

// ListByCreator returns a creator's events ordered by date, then id
func (r *MemoryEventRepository) ListByCreator(_ context.Context, creatorID string) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := []models.Event{}
	for _, stored := range r.events {
		if stored.CreatorID == creatorID {
			events = append(events, *cloneEvent(stored))
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// Delete removes an event. Deleting a missing event is not an error.
func (r *MemoryEventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.events, id)
	return nil
}

// MemoryFavoriteRepository keeps favorites in process memory, namespaced per user
type MemoryFavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]map[string]models.Favorite
}

// NewMemoryFavoriteRepository creates a new in-memory favorite repository
func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{favorites: make(map[string]map[string]models.Favorite)}
}

// Exists reports whether userID has favorited eventID
func (r *MemoryFavoriteRepository) Exists(_ context.Context, userID, eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.favorites[userID][eventID]
	return exists, nil
}

// Put stores a favorite, overwriting any previous one with the same id
func (r *MemoryFavoriteRepository) Put(_ context.Context, fav *models.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userFavorites, ok := r.favorites[fav.UserID]
	if !ok {
		userFavorites = make(map[string]models.Favorite)
		r.favorites[fav.UserID] = userFavorites
	}

	stored := *fav
	stored.Snapshot.Date = cloneTime(fav.Snapshot.Date)
	userFavorites[fav.ID] = stored
	return nil
}

// ListByUser returns a user's favorites, newest first
func (r *MemoryFavoriteRepository) ListByUser(_ context.Context, userID string) ([]models.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorites := []models.Favorite{}
	for _, stored := range r.favorites[userID] {
		fav := stored
		fav.Snapshot.Date = cloneTime(stored.Snapshot.Date)
		favorites = append(favorites, fav)
	}

	sort.Slice(favorites, func(i, j int) bool {
		if !favorites[i].AddedAt.Equal(favorites[j].AddedAt) {
			return favorites[i].AddedAt.After(favorites[j].AddedAt)
		}
		return strings.Compare(favorites[i].ID, favorites[j].ID) < 0
	})
	return favorites, nil
}

// Delete removes one favorite
func (r *MemoryFavoriteRepository) Delete(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.favorites[userID], eventID)
	return nil
}

func cloneEvent(e models.Event) *models.Event {
	e.ImageKey = cloneString(e.ImageKey)
	return &e
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
