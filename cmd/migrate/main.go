package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-user-directory/internal/app/api"
	"github.com/Apurer/go-gin-user-directory/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-user-directory/internal/platform/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot migrate")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate users schema: %v", err)
	}
	logger.Info("users schema migrated")
}
