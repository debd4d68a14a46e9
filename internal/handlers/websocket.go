package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"eventbook-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Mobile clients send no Origin
	},
}

// WebSocketHandler streams a user's events over a WebSocket connection
type WebSocketHandler struct {
	hub          *services.WSHub
	authService  *services.AuthService
	eventService *services.EventService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	authService *services.AuthService,
	eventService *services.EventService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		authService:  authService,
		eventService: eventService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on the upgrade request
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	session, err := h.authService.Authenticate(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	userID := session.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := h.hub.Register(userID, conn)
	defer h.hub.Unregister(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	feed, err := h.eventService.WatchOwned(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to watch events")
		client.Send(services.WSMessage{Type: services.WSTypeError, Message: err.Error()})
		return
	}
	defer feed.Close()

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	go h.readLoop(client, conn, cancel)

	for events := range feed.Snapshots() {
		msg := services.WSMessage{Type: services.WSTypeEvents, Data: events}
		if err := client.Send(msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to send events")
			return
		}
	}

	if err := feed.Err(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Event feed ended")
		client.Send(services.WSMessage{Type: services.WSTypeError, Message: err.Error()})
	}
}

// readLoop answers client messages until the connection fails, then cancels
// the feed.
func (h *WebSocketHandler) readLoop(client *services.WSClient, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			client.Send(services.WSMessage{Type: services.WSTypeError, Message: "Invalid message format"})
			continue
		}

		switch msg.Type {
		case services.WSTypePing:
			client.Send(services.WSMessage{Type: services.WSTypePong})
		default:
			client.Send(services.WSMessage{Type: services.WSTypeError, Message: "Unknown message type"})
		}
	}
}
