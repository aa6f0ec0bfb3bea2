package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabrico/orders-api/internal/api/handler"
	"github.com/fabrico/orders-api/internal/api/middleware"
	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
	"github.com/fabrico/orders-api/internal/core/service"
	mongodb "github.com/fabrico/orders-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fabrico/orders-api/internal/infrastructure/db/redis"
	"github.com/fabrico/orders-api/internal/infrastructure/identity"
	"github.com/fabrico/orders-api/internal/infrastructure/queue"
	"github.com/fabrico/orders-api/internal/pkg/config"
	"github.com/fabrico/orders-api/pkg/logger"
)

// NewRouter builds the Echo instance with all routes registered and starts
// the status event dispatcher. Workers stop when ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fabrico"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	analyticsRepo := mongodb.NewAnalyticsRepository(db)
	dedup := redisdb.NewDedupChecker(rdb)
	verifier := identity.NewFirebaseVerifier(identity.Config{
		Endpoint: cfg.Firebase.Endpoint,
		APIKey:   cfg.Firebase.APIKey,
	}, logger.Component("identity"))

	authService := service.NewAuthService(accountRepo, verifier, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	orderService := service.NewOrderService(orderRepo, logger.Component("orders"))
	accountService := service.NewAccountService(accountRepo, logger.Component("accounts"))
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger.Component("analytics"))
	eventService := service.NewEventService(orderRepo, eventRepo, dedup, logger.Component("events"))

	dispatcher := queue.NewDispatcher(cfg.EventWorkers, eventService, logger.Component("events"))
	dispatcher.Start(ctx)

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	eventHandler := handler.NewEventHandler(dispatcher)
	accountHandler := handler.NewAccountHandler(accountService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/firebase-login", authHandler.FirebaseLogin)

	// --- Order routes ---
	orders := e.Group("/api/orders", authMW)
	orders.POST("", orderHandler.Place, middleware.RBAC(domain.RoleCustomer))
	orders.GET("", orderHandler.List)
	orders.GET("/lookup", orderHandler.Lookup)
	orders.POST("/events", eventHandler.Receive, middleware.RBAC(domain.RoleDeliveryBoy))
	orders.POST("/events/batch", eventHandler.ReceiveBatch, middleware.RBAC(domain.RoleDeliveryBoy))
	orders.GET("/:ticket_number", orderHandler.Get)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authMW, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", accountHandler.List)
	admin.PATCH("/accounts/:id/block", accountHandler.Block)
	admin.PATCH("/accounts/:id/unblock", accountHandler.Unblock)
	admin.PATCH("/accounts/:id/role", accountHandler.SetRole)

	// --- Analytics (admin only) ---
	analytics := e.Group("/api/analytics", authMW, middleware.RBAC(domain.RoleAdmin))
	analytics.GET("/summary", analyticsHandler.Summary)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// EnsureIndexes creates the indexes the repositories rely on (unique account
// email, order ticket lookups). Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewOrderRepository(db).EnsureIndexes(ctx)
}

var _ ports.AuthService = (*service.AuthService)(nil)
var _ ports.OrderService = (*service.OrderService)(nil)
var _ ports.AccountService = (*service.AccountService)(nil)
var _ ports.AnalyticsService = (*service.AnalyticsService)(nil)
