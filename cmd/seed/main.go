// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/auth"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/infrastructure/storage/postgres"
	"vistapos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoItems(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo items", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@vistapos.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM auth_users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	userID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO auth_users (
			id, email, password_hash, name, role,
			is_active, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, userID, adminEmail, string(passwordHash), "Administrator", auth.RoleAdmin,
		true, now, now, 1)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDemoItems(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	demo := []struct {
		code  string
		name  string
		typ   item.Type
		price string
		stock int
	}{
		{"PRD-00001", "Single vision lenses", item.TypeProduct, "89.00", 25},
		{"PRD-00002", "Progressive lenses", item.TypeProduct, "249.00", 12},
		{"PRD-00003", "Contact lens solution 360ml", item.TypeProduct, "12.50", 40},
		{"FRM-00001", "Titanium half-rim frame", item.TypeFrame, "159.00", 8},
		{"FRM-00002", "Acetate full-rim frame", item.TypeFrame, "119.00", 6},
	}

	now := time.Now()
	for _, d := range demo {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_stock_items (
				id, code, name, item_type, stock, stock_minimum, stock_critical,
				price, deletion_mark, created_at, updated_at, version
			) VALUES ($1, $2, $3, $4, $5, 0, 0, $6, false, $7, $7, 1)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), d.code, d.name, d.typ, d.stock, d.price, now)
		if err != nil {
			return fmt.Errorf("insert demo item %s: %w", d.code, err)
		}
	}

	log.Infow("demo items seeded", "count", len(demo))
	return nil
}
