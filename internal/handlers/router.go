package handlers

import (
	"net/http"

	"eventbook-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Auth      *AuthHandler
	Events    *EventHandler
	Favorites *FavoriteHandler
	Images    *ImageHandler
	WebSocket *WebSocketHandler
}

// NewRouter builds the API router
func NewRouter(auth middleware.Authenticator, h Handlers) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", h.Auth.SignUp)
		r.Post("/auth/signin", h.Auth.SignIn)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(auth))
			r.Post("/auth/signout", h.Auth.SignOut)
			r.Get("/session", h.Auth.CurrentSession)

			r.Get("/events", h.Events.ListEvents)
			r.Post("/events", h.Events.CreateEvent)
			r.Get("/events/{event_id}", h.Events.GetEvent)
			r.Put("/events/{event_id}", h.Events.UpdateEvent)
			r.Delete("/events/{event_id}", h.Events.DeleteEvent)
			r.Post("/events/{event_id}/image", h.Images.UploadImage)

			r.Get("/events/{event_id}/favorite", h.Favorites.GetFavoriteStatus)
			r.Post("/events/{event_id}/favorite", h.Favorites.ToggleFavorite)
			r.Get("/favorites", h.Favorites.ListFavorites)
			r.Delete("/favorites/{favorite_id}", h.Favorites.DeleteFavorite)
		})
	})

	// WebSocket route
	r.Get("/ws", h.WebSocket.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
