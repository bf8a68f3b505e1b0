// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"vistapos/internal/domain/alerts"
	"vistapos/internal/domain/auth"
	"vistapos/internal/domain/catalogs/client"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/sales"
	"vistapos/internal/domain/stock"
	"vistapos/internal/infrastructure/http/v1/handlers"
	"vistapos/internal/infrastructure/http/v1/middleware"
	"vistapos/internal/infrastructure/storage/postgres"
	"vistapos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	ItemService    *item.Service
	ClientService  *client.Service
	StockService   *stock.Service
	SaleService    *sales.Service
	PaymentService *sales.PaymentService
	AlertEngine    *alerts.Engine
	AuditService   *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes: register/login/refresh are public, logout/me need a token
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		// Everything else requires a valid token
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		handlers.NewItemHandler(baseHandler, cfg.ItemService, cfg.StockService).RegisterRoutes(protected)
		handlers.NewClientHandler(baseHandler, cfg.ClientService, cfg.PaymentService).RegisterRoutes(protected)
		handlers.NewSaleHandler(baseHandler, cfg.SaleService, cfg.PaymentService, cfg.AuditService).RegisterRoutes(protected)
		handlers.NewNotificationHandler(baseHandler, cfg.AlertEngine).RegisterRoutes(protected)
	}

	return router
}
