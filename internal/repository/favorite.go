package repository

import (
	"context"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository handles database operations for per-user favorites
type FavoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Exists reports whether the user has favorited the event
func (r *FavoriteRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND event_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, eventID).Scan(&exists); err != nil {
		return false, apperr.Remote("failed to check favorite", err)
	}
	return exists, nil
}

// Put writes a favorite, overwriting any existing entry for the same event
func (r *FavoriteRepository) Put(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, event_id, title, description, event_date, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, event_id) DO UPDATE SET
			title       = EXCLUDED.title,
			description = EXCLUDED.description,
			event_date  = EXCLUDED.event_date,
			added_at    = EXCLUDED.added_at
	`
	_, err := r.db.Exec(ctx, query,
		fav.UserID, fav.ID, fav.Snapshot.Title, fav.Snapshot.Description,
		fav.Snapshot.Date, fav.AddedAt,
	)
	if err != nil {
		return apperr.Remote("failed to save favorite", err)
	}
	return nil
}

// ListByUser retrieves all favorites of a user, newest first
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	query := `
		SELECT user_id, event_id, title, description, event_date, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC, event_id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Remote("failed to list favorites", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var fav models.Favorite
		err := rows.Scan(
			&fav.UserID, &fav.ID, &fav.Snapshot.Title, &fav.Snapshot.Description,
			&fav.Snapshot.Date, &fav.AddedAt,
		)
		if err != nil {
			return nil, apperr.Remote("failed to scan favorite", err)
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("error iterating favorites", err)
	}

	return favorites, nil
}

// Delete removes one favorite. Deleting a missing favorite is not an error.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND event_id = $2`
	if _, err := r.db.Exec(ctx, query, userID, eventID); err != nil {
		return apperr.Remote("failed to delete favorite", err)
	}
	return nil
}
