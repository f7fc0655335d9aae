package main

import (
	"context"
	"strings"

	"elasticroute-client/internal/adapters/store"
	"elasticroute-client/internal/config"
	"elasticroute-client/internal/platform/db"
	"elasticroute-client/internal/platform/logger"
)

// main creates the solution archive tables in the Postgres database named
// by DATABASE_URL.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logger)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	log.Info("Initializing database schema...")
	if err := store.InitSchema(ctx, conn); err != nil {
		log.WithError(err).Fatal("schema initialization failed")
	}
	log.Info("Schema ready.")
}
