package repository

import (
	"context"
	"errors"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, date, creator_id, image_key, created_at, updated_at`

// Upsert merge-writes an event and returns the stored row.
// A zero Date or nil ImageKey keeps the stored value; CreatedAt and CreatorID
// are only written on insert.
func (r *EventRepository) Upsert(ctx context.Context, event *models.Event) (*models.Event, error) {
	var date *time.Time
	if !event.Date.IsZero() {
		date = &event.Date
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, COALESCE($4::timestamptz, $8::timestamptz), $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title       = EXCLUDED.title,
			description = EXCLUDED.description,
			date        = COALESCE($4::timestamptz, events.date),
			image_key   = COALESCE(EXCLUDED.image_key, events.image_key),
			updated_at  = EXCLUDED.updated_at
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, date,
		event.CreatorID, event.ImageKey, event.CreatedAt, event.UpdatedAt,
	)
	saved, err := scanEvent(row)
	if err != nil {
		return nil, apperr.Remote("failed to save event", err)
	}
	return saved, nil
}

// SetImageKey records the image object key on an event, leaving other fields untouched
func (r *EventRepository) SetImageKey(ctx context.Context, id, imageKey string, updatedAt time.Time) error {
	query := `UPDATE events SET image_key = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, imageKey, updatedAt, id)
	if err != nil {
		return apperr.Remote("failed to update event image", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("event not found")
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, apperr.Remote("failed to get event", err)
	}
	return event, nil
}

// ListByCreator retrieves all events created by a user
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE creator_id = $1
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, apperr.Remote("failed to list events", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperr.Remote("failed to scan event", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("error iterating events", err)
	}

	return events, nil
}

// Delete removes an event by ID. Deleting a missing event is not an error.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return apperr.Remote("failed to delete event", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.Date,
		&event.CreatorID, &event.ImageKey, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
