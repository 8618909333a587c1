package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dpa-app/dpa-server/internal/adapter/http"
	"github.com/dpa-app/dpa-server/internal/adapter/http/handler"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	postgresRepo "github.com/dpa-app/dpa-server/internal/adapter/repository/postgres"
	redisRepo "github.com/dpa-app/dpa-server/internal/adapter/repository/redis"
	"github.com/dpa-app/dpa-server/internal/infrastructure/auth"
	"github.com/dpa-app/dpa-server/internal/infrastructure/config"
	"github.com/dpa-app/dpa-server/internal/infrastructure/logger"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
	"github.com/dpa-app/dpa-server/internal/infrastructure/postgres"
	"github.com/dpa-app/dpa-server/internal/infrastructure/redis"
	"github.com/dpa-app/dpa-server/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, resolveMigrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	roomRepo := postgresRepo.NewRoomRepository(pool)
	participantRepo := postgresRepo.NewParticipantRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	friendRepo := postgresRepo.NewFriendRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	appMetrics := metrics.New()

	// Sample pool usage so the connections gauge tracks reality.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			appMetrics.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, idGen, appMetrics)
	roomUC := usecase.NewRoomUseCase(roomRepo, participantRepo, idGen, cache, appMetrics)
	settlementUC := usecase.NewSettlementUseCase(txManager, roomRepo, participantRepo, entryRepo, idGen, retrier, cache, appMetrics)
	friendUC := usecase.NewFriendUseCase(friendRepo, userRepo, idGen, appMetrics)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	profileHandler := handler.NewProfileHandler(userUC, roomUC)
	roomHandler := handler.NewRoomHandler(roomUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	friendHandler := handler.NewFriendHandler(friendUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:       authHandler,
		ProfileHandler:    profileHandler,
		RoomHandler:       roomHandler,
		SettlementHandler: settlementHandler,
		FriendHandler:     friendHandler,
		HealthHandler:     healthHandler,
		JWTManager:        jwtManager,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics.RateLimitHits),
		Logger:            appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func resolveMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "internal/infrastructure/postgres/migrations"
}
