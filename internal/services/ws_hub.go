package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket message types
const (
	WSTypeEvents   = "events"
	WSTypeFavorite = "favorite"
	WSTypeError    = "error"
	WSTypePing     = "ping"
	WSTypePong     = "pong"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// FavoriteChange is the payload of a favorite message
type FavoriteChange struct {
	EventID   string `json:"event_id"`
	Favorited bool   `json:"favorited"`
}

// WSClient is one WebSocket connection. Writes are serialized.
type WSClient struct {
	UserID string

	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes a message to the connection
func (c *WSClient) Send(message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// WSHub tracks the open WebSocket connections of every user.
// A user may be connected from several devices at once.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]map[*WSClient]struct{}
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]map[*WSClient]struct{}),
	}
}

// Register adds a connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) *WSClient {
	client := &WSClient{UserID: userID, conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.connections[userID]
	if !ok {
		clients = make(map[*WSClient]struct{})
		h.connections[userID] = clients
	}
	clients[client] = struct{}{}

	log.Info().
		Str("user_id", userID).
		Int("connections", len(clients)).
		Msg("WebSocket connection registered")

	return client
}

// Unregister removes and closes a connection
func (h *WSHub) Unregister(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, exists := h.connections[client.UserID]
	if !exists {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	client.conn.Close()
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.connections, client.UserID)
	}

	log.Info().Str("user_id", client.UserID).Msg("WebSocket connection unregistered")
}

// SendToUser sends a message to every connection of a user and returns the
// number of connections that received it
func (h *WSHub) SendToUser(userID string, message WSMessage) int {
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.connections[userID]))
	for client := range h.connections[userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		if err := client.Send(message); err != nil {
			log.Error().
				Err(err).
				Str("user_id", userID).
				Str("type", message.Type).
				Msg("Failed to send WebSocket message")
			h.Unregister(client)
			continue
		}
		sent++
	}
	return sent
}

// IsOnline checks if a user has at least one open connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID]) > 0
}

// NotifyFavoriteChanged tells a user's devices about a favorite toggle
func (h *WSHub) NotifyFavoriteChanged(userID, eventID string, favorited bool) {
	if !h.IsOnline(userID) {
		return
	}
	h.SendToUser(userID, WSMessage{
		Type: WSTypeFavorite,
		Data: FavoriteChange{EventID: eventID, Favorited: favorited},
	})
}

// CloseAll closes every connection, used on shutdown
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.connections {
		for client := range clients {
			client.mu.Lock()
			_ = client.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			client.mu.Unlock()
			client.conn.Close()
		}
		delete(h.connections, userID)
	}
}
