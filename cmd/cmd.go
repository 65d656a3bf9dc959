package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchly-backend/internal/assets"
	"matchly-backend/internal/config"
	"matchly-backend/internal/handlers"
	"matchly-backend/internal/middleware"
	"matchly-backend/internal/repository"
	"matchly-backend/internal/services"
	"matchly-backend/internal/token"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// External photo host
	assetStore, err := assets.NewS3Store(context.Background(), assets.S3Options{
		Region:    cfg.Assets.Region,
		Bucket:    cfg.Assets.Bucket,
		AccessKey: cfg.Assets.AccessKey,
		SecretKey: cfg.Assets.SecretKey,
		Endpoint:  cfg.Assets.Endpoint,
		PublicURL: cfg.Assets.PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create asset store")
	}

	issuer := token.NewIssuer(cfg.JWT.Secret)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, photoRepo, issuer)
	likeService := services.NewLikeService(userRepo, likeRepo)
	messageService := services.NewMessageService(messageRepo, userRepo, photoRepo)
	photoService := services.NewPhotoService(photoRepo, assetStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, likeService)
	messageHandler := handlers.NewMessageHandler(messageService)
	photoHandler := handlers.NewPhotoHandler(photoService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(issuer))
			r.Use(middleware.TrackActivity(userService.TouchLastActive))

			r.Get("/users", userHandler.ListUsers)

			r.Route("/users/{user_id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Get("/photos", photoHandler.ListPhotos)
				r.Get("/photos/{photo_id}", photoHandler.GetPhoto)

				// Operations a user may only perform on themselves
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSelf)

					r.Put("/", userHandler.UpdateUser)
					r.Post("/like/{recipient_id}", userHandler.LikeUser)
					r.Get("/likers", userHandler.ListLikers)
					r.Get("/likees", userHandler.ListLikees)

					r.Get("/messages", messageHandler.ListMessages)
					r.Post("/messages", messageHandler.CreateMessage)
					r.Get("/messages/thread/{recipient_id}", messageHandler.GetThread)
					r.Get("/messages/{message_id}", messageHandler.GetMessage)
					r.Delete("/messages/{message_id}", messageHandler.DeleteMessage)
					r.Post("/messages/{message_id}/read", messageHandler.MarkRead)

					r.Post("/photos", photoHandler.UploadPhoto)
					r.Post("/photos/{photo_id}/setMain", photoHandler.SetMainPhoto)
					r.Delete("/photos/{photo_id}", photoHandler.DeletePhoto)
				})
			})
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
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
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
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
