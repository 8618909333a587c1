package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dpa-app/dpa-server/internal/adapter/http/handler"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	"github.com/dpa-app/dpa-server/internal/infrastructure/auth"
	"github.com/dpa-app/dpa-server/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	ProfileHandler    *handler.ProfileHandler
	RoomHandler       *handler.RoomHandler
	SettlementHandler *handler.SettlementHandler
	FriendHandler     *handler.FriendHandler
	HealthHandler     *handler.HealthHandler
	JWTManager        *auth.JWTManager
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Public auth endpoints
	r.Post("/api/v1/auth/signup", cfg.AuthHandler.Signup)
	r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)

	// API v1 (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Current user and profile
		r.Get("/me", cfg.AuthHandler.Me)
		r.Get("/me/progress", cfg.ProfileHandler.Progress)
		r.Put("/me/username", cfg.ProfileHandler.ChangeUsername)
		r.Put("/me/photo", cfg.ProfileHandler.SetPhoto)
		r.Put("/me/password", cfg.ProfileHandler.ChangePassword)
		r.Put("/me/email", cfg.ProfileHandler.ChangeEmail)

		// Rooms
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", cfg.RoomHandler.Create)
			r.Get("/", cfg.RoomHandler.List)
			r.Get("/{id}", cfg.RoomHandler.Get)
			r.Delete("/{id}", cfg.RoomHandler.Delete)
			r.Get("/{id}/series", cfg.RoomHandler.Series)

			r.Post("/{id}/participants", cfg.RoomHandler.AddParticipant)
			r.Delete("/{id}/participants/{participantID}", cfg.RoomHandler.RemoveParticipant)

			r.Post("/{id}/settlements", cfg.SettlementHandler.Commit)
			r.Put("/{id}/entries/{entryID}", cfg.SettlementHandler.EditEntry)
			r.Delete("/{id}/entries/{entryID}", cfg.SettlementHandler.DeleteEntry)
		})

		// Friends
		r.Route("/friends", func(r chi.Router) {
			r.Get("/", cfg.FriendHandler.ListFriends)
			r.Post("/requests", cfg.FriendHandler.SendRequest)
			r.Get("/requests", cfg.FriendHandler.ListIncoming)
			r.Post("/requests/{id}/respond", cfg.FriendHandler.Respond)
		})
	})

	return r
}
