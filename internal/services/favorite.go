package services

import (
	"context"
	"time"

	"eventbook-backend/internal/models"
)

// FavoriteService maintains each user's denormalized favorites
type FavoriteService struct {
	favoriteRepo FavoriteRepository
	eventRepo    EventRepository
	now          func() time.Time
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favoriteRepo FavoriteRepository, eventRepo EventRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		eventRepo:    eventRepo,
		now:          time.Now,
	}
}

// IsFavorited reports whether userID has favorited eventID
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, eventID string) (bool, error) {
	return s.favoriteRepo.Exists(ctx, userID, eventID)
}

// Toggle removes the favorite if present, otherwise stores a snapshot of the
// event's display fields, and returns the new state. current is the event as
// the caller last saw it; when nil it is loaded only if a snapshot is needed.
//
// The existence check and the write are not atomic. Two racing toggles that
// both add write the same deterministic id, so they collapse into one entry.
func (s *FavoriteService) Toggle(ctx context.Context, userID, eventID string, current *models.Event) (bool, error) {
	exists, err := s.favoriteRepo.Exists(ctx, userID, eventID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.favoriteRepo.Delete(ctx, userID, eventID); err != nil {
			return false, err
		}
		return false, nil
	}

	if current == nil {
		current, err = s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return false, err
		}
	}

	var date *time.Time
	if !current.Date.IsZero() {
		d := current.Date
		date = &d
	}

	fav := &models.Favorite{
		ID:     eventID,
		UserID: userID,
		Snapshot: models.FavoriteSnapshot{
			Title:       current.Title,
			Description: current.Description,
			Date:        date,
		},
		AddedAt: s.now(),
	}
	if err := s.favoriteRepo.Put(ctx, fav); err != nil {
		return false, err
	}
	return true, nil
}

// List returns userID's favorites, newest first. A snapshot without a date
// reports the time of the call.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.FavoriteView, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fetchedAt := s.now()
	views := make([]models.FavoriteView, 0, len(favorites))
	for _, fav := range favorites {
		date := fetchedAt
		if fav.Snapshot.Date != nil {
			date = *fav.Snapshot.Date
		}
		views = append(views, models.FavoriteView{
			ID:          fav.ID,
			Title:       fav.Snapshot.Title,
			Description: fav.Snapshot.Description,
			Date:        date,
			AddedAt:     fav.AddedAt,
		})
	}
	return views, nil
}

// Remove deletes one favorite. The source event is not touched.
func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID string) error {
	return s.favoriteRepo.Delete(ctx, userID, favoriteID)
}
