package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/whoami1432/voosh-authentication/internal/config"
	"github.com/whoami1432/voosh-authentication/internal/handlers"
	appMiddleware "github.com/whoami1432/voosh-authentication/internal/middleware"
	"github.com/whoami1432/voosh-authentication/internal/services"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	ctx := context.Background()
	profileStore, err := services.NewMongoProfileStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer profileStore.Close(context.Background())

	sessionStore := services.NewMongoSessionStore(ctx, profileStore.Database())
	profileService := services.NewProfileService(profileStore)
	google := services.NewGoogleAuthenticator(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)

	userHandler := handlers.NewUserHandler(profileService, logger)
	authHandler := handlers.NewAuthHandler(profileService, sessionStore, google, cfg.SessionSecret, cfg.SessionTTL, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Hello World!"))
	})
	r.Get("/api/helloworld", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Hello World!"))
	})

	// Identity-provider redirect target; must match the registered callback URL.
	r.Get("/auth/google/callback", authHandler.Callback)

	r.Route("/api/v1/user", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Get("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Get("/authfail", authHandler.AuthFail)

		// Routes requiring an authenticated session
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.EnsureAuthenticated(sessionStore, cfg.SessionSecret))

			r.Get("/profile/{id}", userHandler.GetProfile)
			r.Put("/update/profile/{id}", userHandler.UpdateProfile)
			r.Get("/users/profile/{id}", userHandler.ListProfiles)
		})
	})

	logger.Info("server starting", zap.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
