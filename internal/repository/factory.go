package repository

import (
	"context"
	"fmt"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/config"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository/memory"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository/postgres"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository/sqlite"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store is a document store plus the cleanup that releases it
type Store struct {
	domain.KVStore
	Close func()
}

// OpenStore builds the document store selected by cfg.StorageBackend
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.StorageBackend {
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("Using sqlite storage")
		return &Store{KVStore: db, Close: func() { db.Close() }}, nil

	case config.StoragePostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info().Msg("Using postgres storage")
		return &Store{KVStore: postgres.NewKVRepository(pool), Close: pool.Close}, nil

	case config.StorageS3:
		repo, err := storage.NewS3KVRepository(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info().Str("bucket", cfg.S3.Bucket).Str("prefix", cfg.S3.Prefix).Msg("Using S3 storage")
		return &Store{KVStore: repo, Close: func() {}}, nil

	case config.StorageMemory:
		logger.Warn().Msg("Using in-memory storage, data is lost on exit")
		return &Store{KVStore: memory.NewStore(), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
