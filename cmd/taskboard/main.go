package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/router"
	"github.com/taskboard-dev/taskboard/internal/worker"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.Load()

	if err := logger.Init(cfg.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		logger.Logger.Fatal("Failed to initialize JWT secret", zap.Error(err))
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(database); err != nil {
		logger.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	retention := worker.NewRetention(database, cfg.RetentionDays)
	if err := retention.Start(); err != nil {
		logger.Logger.Fatal("Failed to start retention worker", zap.Error(err))
	}
	defer retention.Stop()

	r := router.NewRouter(database)

	logger.Info("Starting server", zap.String("port", cfg.Port))

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Logger.Fatal("Failed to start server", zap.Error(err))
	}
}
