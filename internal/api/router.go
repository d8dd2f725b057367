package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chainlance/marketplace-api/docs"
	"github.com/chainlance/marketplace-api/internal/api/handler"
	"github.com/chainlance/marketplace-api/internal/api/middleware"
	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/service"
	"github.com/chainlance/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/chainlance/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chainlance/marketplace-api/internal/infrastructure/db/redis"
	"github.com/chainlance/marketplace-api/internal/realtime"
)

// NewRouter wires repositories, services, and handlers and returns the Echo
// instance with all routes registered. Index creation runs here so a booted
// gateway always has its uniqueness and TTL guarantees in place.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	identityRepo := mongodb.NewIdentityRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	messageRepo := mongodb.NewMessageRepository(db, cfg.Mongo.MessageRetention)
	challengeRegistry := redisdb.NewChallengeRegistry(rdb)

	if err := identityRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("identity indexes: %w", err)
	}
	if err := jobRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("job indexes: %w", err)
	}
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("message indexes: %w", err)
	}

	// --- Services ---
	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL,
	)
	authService := service.NewAuthService(identityRepo, challengeRegistry, tokenService, cfg.Auth.ChallengeTTL, log)
	jobService := service.NewJobService(jobRepo, log)
	hub := realtime.NewHub(log)
	messageService := service.NewMessageService(messageRepo, hub, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, tokenService)
	userHandler := handler.NewUserHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)
	messageHandler := handler.NewMessageHandler(messageService)
	wsHandler := handler.NewWSHandler(hub, tokenService, log)

	authRequired := middleware.Auth(tokenService)
	employerOnly := middleware.RequireRole(domain.RoleEmployer)

	// --- Auth routes ---
	e.POST("/auth/challenge", authHandler.Challenge)
	e.POST("/auth/verify", authHandler.Verify)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- Identity routes (public reads) ---
	e.GET("/users/:wallet", userHandler.Get)
	e.HEAD("/users/:wallet", userHandler.Head)

	// --- Job routes ---
	e.POST("/jobs", jobHandler.Create, authRequired, employerOnly)
	e.PUT("/jobs/:id", jobHandler.Update, authRequired)
	e.GET("/jobs", jobHandler.List)
	e.GET("/jobs/:id", jobHandler.Get)

	// --- Message routes ---
	e.POST("/messages", messageHandler.Create, authRequired)
	e.GET("/messages/:conversation_id", messageHandler.List, authRequired)

	// --- Realtime ---
	e.GET("/ws", wsHandler.Serve)

	// --- Health probes / observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
