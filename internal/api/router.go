package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nutritionnest/coaching-api/internal/api/handler"
	"github.com/nutritionnest/coaching-api/internal/api/middleware"
	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/service"
	mongodb "github.com/nutritionnest/coaching-api/internal/infrastructure/db/mongo"
	redisdb "github.com/nutritionnest/coaching-api/internal/infrastructure/db/redis"
	"github.com/nutritionnest/coaching-api/internal/infrastructure/identity"
)

// RouterConfig carries the settings the HTTP layer needs.
type RouterConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// NewRouter builds the Echo instance with all routes registered. The returned
// backend must be closed on shutdown to stop auth-event delivery.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig, log zerolog.Logger) (*echo.Echo, *identity.Backend) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("nutritionnest"))

	// --- Dependencies ---
	accounts := mongodb.NewAccountRepository(db)
	sessions := redisdb.NewSessionCache(rdb)
	backend := identity.NewBackend(accounts, sessions, cfg.JWTSecret, cfg.SessionTTL, log)

	adminService := service.NewAdminService(backend, log)
	planService := service.NewPlanService(mongodb.NewPlanRepository(db), log)
	feedService := service.NewFeedService(mongodb.NewPostRepository(db), log)

	authHandler := handler.NewAuthHandler(backend)
	adminHandler := handler.NewAdminHandler(adminService)
	planHandler := handler.NewPlanHandler(planService)
	feedHandler := handler.NewFeedHandler(feedService)

	authMW := middleware.Auth(backend)
	requireAuth := middleware.Authorize(domain.Requirement{RequireAuth: true})
	requireAdmin := middleware.Authorize(domain.Requirement{RequireAuth: true, RequireAdmin: true})

	// --- Auth routes ---
	auth := e.Group("/auth", authMW)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/session", authHandler.Session, requireAuth)

	// --- Admin console ---
	admin := e.Group("/admin", authMW, requireAdmin)
	admin.GET("/users", adminHandler.List)
	admin.POST("/users", adminHandler.Create)
	admin.PUT("/users/:id", adminHandler.Update)
	admin.DELETE("/users/:id", adminHandler.Delete)
	admin.POST("/users/:id/block", adminHandler.Block)
	admin.POST("/users/:id/plan", adminHandler.AssignPlan)

	// --- Nutrition plans: open reads for members, admin-gated writes ---
	plans := e.Group("/plans", authMW, requireAuth)
	plans.GET("", planHandler.List)
	plans.GET("/:id", planHandler.Get)
	plans.POST("", planHandler.Create, requireAdmin)
	plans.PUT("/:id", planHandler.Update, requireAdmin)
	plans.DELETE("/:id", planHandler.Delete, requireAdmin)

	// --- Community feed ---
	community := e.Group("/community", authMW, requireAuth)
	community.GET("/posts", feedHandler.List)
	community.POST("/posts", feedHandler.Create)
	community.POST("/posts/:id/like", feedHandler.Like)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, backend
}
