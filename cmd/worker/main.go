// Package main is the entry point for the VistaPOS background worker.
// It drains the stock event queue into notifications and prunes expired
// refresh tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"vistapos/internal/domain/alerts"
	"vistapos/internal/domain/stock"
	"vistapos/internal/infrastructure/storage/postgres"
	"vistapos/internal/infrastructure/storage/postgres/auth_repo"
	"vistapos/internal/infrastructure/storage/postgres/catalog_repo"
	"vistapos/pkg/logger"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting vistapos worker")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	itemRepo := catalog_repo.NewItemRepo(txManager)
	stockEvents := postgres.NewStockEventRepo(txManager)
	notificationRepo := postgres.NewNotificationRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	engine := alerts.NewEngine(notificationRepo, itemRepo, txManager)

	relayInterval := getEnvDuration("RELAY_INTERVAL", 500*time.Millisecond)
	relayBatch := getEnvInt("RELAY_BATCH_SIZE", 100)
	relay := stock.NewRelay(stockEvents, engine, txManager, relayBatch, relayInterval)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		relay.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTokenCleanup(ctx, tokenRepo, getEnvDuration("TOKEN_CLEANUP_INTERVAL", time.Hour))
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// runTokenCleanup removes expired refresh tokens on a fixed interval.
func runTokenCleanup(ctx context.Context, tokens interface {
	CleanupExpiredTokens(ctx context.Context) (int, error)
}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanupExpiredTokens(ctx)
			if err != nil {
				logger.Error(ctx, "token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info(ctx, "expired tokens removed", "count", removed)
			}
		}
	}
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
