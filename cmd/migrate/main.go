package main

import (
	"flag"
	"log"

	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/migration"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/sentry"
)

func main() {
	down := flag.Int("down", 0, "Roll back this many migrations instead of applying pending ones")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg, logger, sentry.NewSentryService(cfg, logger))
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if *down > 0 {
		if err := migration.RollbackMigrations(db.DB.DB, *down, logger); err != nil {
			logger.Fatalw("Failed to roll back migrations", "error", err)
		}
		return
	}

	if err := migration.RunMigrations(db.DB.DB, logger); err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err)
	}
	logger.Info("migration completed successfully")
}
