package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"startupconnect-backend/internal/config"
	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/handlers"
	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/models"
	"startupconnect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
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

	// Open the document store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Store.Driver).Msg("Document store ready")

	// Initialize services
	groupService := services.NewGroupService(store)
	authService := services.NewAuthService(store, groupService, cfg.JWT.Secret)
	offerService := services.NewOfferService(store)
	startupService := services.NewStartupService(store)
	connectionService := services.NewConnectionService(store)
	adminService := services.NewAdminService(store)
	uploadService, err := services.NewUploadService(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload service")
	}
	hub := services.NewEventsHub(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	offerHandler := handlers.NewOfferHandler(offerService, authService)
	startupHandler := handlers.NewStartupHandler(startupService)
	groupHandler := handlers.NewGroupHandler(groupService, authService)
	connectionHandler := handlers.NewConnectionHandler(connectionService, authService)
	adminHandler := handlers.NewAdminHandler(adminService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	wsHandler := handlers.NewWebSocketHandler(hub, authService)

	// Pump store change events to websocket clients
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

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
			r.Use(middleware.AuthMiddleware(authService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/verify", authHandler.VerifyEmail)

			r.Get("/offers", offerHandler.List)
			r.Post("/offers", offerHandler.Create)
			r.Get("/offers/saved", offerHandler.Saved)
			r.Get("/offers/{offer_id}", offerHandler.Get)
			r.Put("/offers/{offer_id}/save", offerHandler.Save)
			r.Delete("/offers/{offer_id}/save", offerHandler.Unsave)
			r.Post("/offers/{offer_id}/apply", offerHandler.Apply)
			r.Get("/offers/{offer_id}/candidacies", offerHandler.OfferCandidacies)
			r.Get("/candidacies", offerHandler.MyCandidacies)
			r.Put("/candidacies/{candidacy_id}", offerHandler.ReviewCandidacy)

			r.Get("/startups", startupHandler.List)
			r.Get("/startups/{startup_id}", startupHandler.Get)
			r.Post("/startups/{startup_id}/join", startupHandler.RequestJoin)
			r.Get("/startups/{startup_id}/join-requests", startupHandler.JoinRequests)

			r.Get("/groups", groupHandler.List)
			r.Post("/groups/join", groupHandler.JoinSector)
			r.Get("/groups/{group_id}/messages", groupHandler.Messages)
			r.Post("/groups/{group_id}/messages", groupHandler.SendMessage)

			r.Post("/connections", connectionHandler.Request)
			r.Get("/connections", connectionHandler.List)
			r.Put("/connections/{connection_id}/accept", connectionHandler.Accept)
			r.Put("/connections/{connection_id}/reject", connectionHandler.Reject)

			r.Post("/reports", adminHandler.CreateReport)
			r.Post("/uploads/rccm", uploadHandler.PresignRCCM)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/admin/users", adminHandler.ListUsers)
				r.Put("/admin/users/{user_id}/role", adminHandler.SetUserRole)
				r.Delete("/admin/users/{user_id}", adminHandler.DeleteUser)
				r.Put("/admin/startups/{startup_id}/verify", adminHandler.VerifyStartup)
				r.Delete("/admin/startups/{startup_id}", adminHandler.DeleteStartup)
				r.Delete("/admin/offers/{offer_id}", adminHandler.DeleteOffer)
				r.Get("/admin/reports", adminHandler.ListReports)
				r.Put("/admin/reports/{report_id}", adminHandler.ResolveReport)
			})
		})
	})

	// WebSocket change feed
	r.Get("/ws", wsHandler.HandleWebSocket)

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

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore builds the document store selected by the configuration.
func openStore(cfg *config.Config) (docstore.Store, func(), error) {
	switch cfg.Store.Driver {
	case "blob":
		store, err := docstore.OpenBlob(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "postgres":
		store, err := docstore.OpenPostgres(context.Background(), cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
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
