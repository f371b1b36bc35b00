package api

import (
	"net/http"
	"time"

	"moodly/internal/api/handler"
	"moodly/internal/api/middleware"
	"moodly/internal/app/service"
	"moodly/internal/common/security"
	"moodly/internal/domain/repository"
	"moodly/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

func NewRouter(
	authService *service.AuthService,
	moodService *service.MoodService,
	userRepo repository.UserRepository,
	rdb *redis.Client,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// CORS for the browser frontend.
	// TODO: restrict origins for production deployments.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Verifies the bearer token when present and puts claims in context.
	// Rejection happens later, in middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public liveness check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Moodly API running..."))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public, rate limited)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", func(auth chi.Router) {
			auth.Use(middleware.RateLimit(rdb, config.AppConfig.RateLimitMax, config.AppConfig.RateLimitWindow))
			authHandler.RegisterRoutes(auth)
		})

		// Mood routes (authenticated)
		moodHandler := handler.NewMoodHandler(moodService)
		v1.Route("/moods", func(moods chi.Router) {
			moods.Use(middleware.Authenticator(userRepo))
			moodHandler.RegisterRoutes(moods)
		})
	})

	return r
}
