package main

import (
	"context"
	"flag"

	"jobpilot-go/internal/common"
	"jobpilot-go/internal/config"

	"go.uber.org/zap"
)

// setup initializes the SQLite schema, optionally seeding demo users, and
// verifies the database is usable.
func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	demoFlag := flag.Bool("demo", false, "Seed demo users after creating the schema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *demoFlag {
		cfg.Database.CreateDemoUsers = true
	}

	logger.Info("Setting up SQLite database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	users, err := dbService.GetUsers(ctx)
	if err != nil {
		logger.Fatal("Failed to verify database", zap.Error(err))
	}

	logger.Info("Setup complete",
		zap.String("path", cfg.Database.Path),
		zap.Int("users", len(users)))
}
