package repository

import (
	"context"
	"fmt"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/config"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"go.uber.org/zap"
)

// Open connects to the configured backend and brings its schema up to date
// (SQL migrations or Mongo indexes). The caller owns the returned repository.
func Open(ctx context.Context, cfg *config.Config, logger *logging.SafeLogger) (BeneficiaryRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreMongoDB:
		db, err := config.ConnectMongoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := NewMongoRepository(db, cfg.BeneficiaryCollection, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return repo, nil

	case config.StoreSQLite:
		db, err := NewDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DatabasePath, err)
		}
		if err := RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("sqlite store ready", zap.String("path", cfg.DatabasePath))
		return NewSQLiteRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
