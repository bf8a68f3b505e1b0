// Package main is the entry point for the VistaPOS API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vistapos/internal/domain/alerts"
	"vistapos/internal/domain/auth"
	"vistapos/internal/domain/catalogs/client"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/sales"
	"vistapos/internal/domain/stock"
	v1 "vistapos/internal/infrastructure/http/v1"
	"vistapos/internal/infrastructure/storage/postgres"
	"vistapos/internal/infrastructure/storage/postgres/auth_repo"
	"vistapos/internal/infrastructure/storage/postgres/catalog_repo"
	"vistapos/pkg/logger"
	"vistapos/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting vistapos server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	log.Info("database connection established")

	// --- Repositories ---
	itemRepo := catalog_repo.NewItemRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)
	stockRepo := postgres.NewStockRepo(txManager)
	stockEvents := postgres.NewStockEventRepo(txManager)
	saleRepo := postgres.NewSaleRepo(txManager)
	paymentRepo := postgres.NewPaymentRepo(txManager)
	notificationRepo := postgres.NewNotificationRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Services ---
	numeratorService := numerator.New(postgres.NewNumeratorQuerier(txManager))

	itemService := item.NewService(itemRepo, txManager, numeratorService)
	clientService := client.NewService(clientRepo, txManager, numeratorService)
	stockService := stock.NewService(stockRepo, stockEvents, txManager)
	saleService := sales.NewService(saleRepo, paymentRepo, itemRepo, clientRepo, stockService, txManager, numeratorService)
	paymentService := sales.NewPaymentService(saleRepo, paymentRepo, txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}
	saleService.SetAuditor(auditService)

	alertEngine := alerts.NewEngine(notificationRepo, itemRepo, txManager)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		ItemService:    itemService,
		ClientService:  clientService,
		StockService:   stockService,
		SaleService:    saleService,
		PaymentService: paymentService,
		AlertEngine:    alertEngine,
		AuditService:   auditService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
