package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventbook-backend/internal/config"
	"eventbook-backend/internal/handlers"
	"eventbook-backend/internal/pubsub"
	"eventbook-backend/internal/repository"
	"eventbook-backend/internal/revocation"
	"eventbook-backend/internal/services"
	"eventbook-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// repositories is the storage backend selected by database.driver
type repositories struct {
	users     services.UserRepository
	events    services.EventRepository
	favorites services.FavoriteRepository
	close     func()
}

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	// Initialize repositories
	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer repos.close()

	// Change feed and token revocation
	var broker pubsub.Broker
	var revoked revocation.Registry
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")

		broker = pubsub.NewRedisBroker(rdb)
		revoked = revocation.NewRedisRegistry(rdb)
	} else {
		log.Warn().Msg("Redis not configured, change feed is local to this process")
		broker = pubsub.NewLocalBroker()
		revoked = revocation.NewMemoryRegistry()
	}
	defer broker.Close()

	// Initialize services
	authService := services.NewAuthService(repos.users, revoked, cfg.JWT.Secret, cfg.JWT.TTL)
	eventService := services.NewEventService(repos.events, broker)
	favoriteService := services.NewFavoriteService(repos.favorites, repos.events)

	var imageService *services.ImageService
	if cfg.AWS.S3Bucket != "" {
		presigner, err := storage.NewS3Presigner(ctx, storage.S3Options{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 presigner")
		}
		imageService = services.NewImageService(eventService, presigner)
	} else {
		log.Warn().Msg("S3 bucket not configured, image uploads are disabled")
	}
	wsHub := services.NewWSHub()

	// Initialize handlers
	router := handlers.NewRouter(authService, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Events:    handlers.NewEventHandler(eventService),
		Favorites: handlers.NewFavoriteHandler(favoriteService, wsHub),
		Images:    handlers.NewImageHandler(imageService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, authService, eventService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	wsHub.CloseAll()

	// Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepositories connects the configured storage backend
func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &repositories{
			users:     repository.NewMemoryUserRepository(),
			events:    repository.NewMemoryEventRepository(),
			favorites: repository.NewMemoryFavoriteRepository(),
			close:     func() {},
		}, nil
	}

	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		users:     repository.NewUserRepository(db),
		events:    repository.NewEventRepository(db),
		favorites: repository.NewFavoriteRepository(db),
		close:     db.Close,
	}, nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
