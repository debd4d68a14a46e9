package models

import "time"

// User represents an account registered with email and password
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the authenticated identity attached to a request
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Event represents an event owned by the user who created it
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatorID   string    `json:"creator_id"`
	ImageKey    *string   `json:"image_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventInput carries the fields a client supplies when saving an event.
// Nil pointers are left untouched on an existing event.
type EventInput struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

// FavoriteSnapshot is the copy of an event's display fields taken when it was favorited
type FavoriteSnapshot struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

// Favorite is a per-user bookmark of an event. ID equals the event ID.
type Favorite struct {
	ID       string           `json:"id"`
	UserID   string           `json:"-"`
	Snapshot FavoriteSnapshot `json:"event"`
	AddedAt  time.Time        `json:"added_at"`
}

// FavoriteView is a favorite as returned by a list call, with the date resolved
type FavoriteView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	AddedAt     time.Time `json:"added_at"`
}
