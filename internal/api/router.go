package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/terracasa/realty-system/internal/api/handler"
	"github.com/terracasa/realty-system/internal/api/middleware"
	"github.com/terracasa/realty-system/internal/core/ports"
	"github.com/terracasa/realty-system/internal/core/service"
	"github.com/terracasa/realty-system/internal/infrastructure/config"
	mongodb "github.com/terracasa/realty-system/internal/infrastructure/db/mongo"
	redisdb "github.com/terracasa/realty-system/internal/infrastructure/db/redis"
	"github.com/terracasa/realty-system/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, images ports.ImageStore, audit ports.AuditRecorder, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get(), cfg.Production())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("realty"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	propertyRepo := mongodb.NewPropertyRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb)

	authService := service.NewAuthService(userRepo, limiter, audit, cfg.JWTSecret, time.Hour)
	userService := service.NewUserService(userRepo, audit)
	propertyService := service.NewPropertyService(propertyRepo, images, audit)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	csrfHandler := handler.NewCSRFHandler(cfg.Production())

	authMW := middleware.Auth(cfg.JWTSecret)
	adminMW := middleware.RequireAdmin(userRepo)
	csrfMW := middleware.CSRF()

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/me", authHandler.Me, authMW)
	e.GET("/api/csrf-token", csrfHandler.Token)

	// --- Property routes (reads public, mutations auth + CSRF gated) ---
	e.GET("/api/properties", propertyHandler.List)
	e.GET("/api/properties/:id", propertyHandler.Get)
	e.POST("/api/properties", propertyHandler.Create, authMW, csrfMW)
	e.PUT("/api/properties/:id", propertyHandler.Update, authMW, csrfMW)
	e.DELETE("/api/properties/:id", propertyHandler.Delete, authMW, csrfMW)

	// --- User routes (admin back-office; creation goes through the policy gate) ---
	e.GET("/api/users", userHandler.List, authMW, adminMW)
	e.GET("/api/users/:id", userHandler.Get, authMW, adminMW)
	e.POST("/api/users", userHandler.Create, middleware.CreateUserGate(userRepo, cfg.JWTSecret), csrfMW)
	e.DELETE("/api/users/:id", userHandler.Delete, authMW, adminMW, csrfMW)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
