package main

import (
	"context"
	"log"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/config"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/repository"
	"go.uber.org/zap"
)

// migrate brings the configured store's schema up to date and exits. The API
// runs the same step at startup; this binary lets deploys do it ahead of time.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := logging.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logging.Logger.Sync() }()

	logging.Logger.Info("applying schema", zap.String("backend", cfg.StoreBackend))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, err := repository.Open(ctx, cfg, logging.Logger)
	if err != nil {
		logging.Logger.Fatal("failed to apply schema",
			zap.String("backend", cfg.StoreBackend),
			zap.Error(err))
	}

	if err := repo.Close(); err != nil {
		logging.Logger.Error("failed to close store", zap.Error(err))
	}

	logging.Logger.Info("schema up to date", zap.String("backend", cfg.StoreBackend))
}
