package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lgsbc-git/lgstech-backend/internal/config"
)

// Open builds the subscriber store selected by cfg.StoreBackend. The SQL
// backend connects lazily; the document backends create the document if it
// is missing.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (SubscriberStore, error) {
	logger = logger.With("backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendSQL:
		return NewSQLStore(OpenDB(cfg.DBDriver, cfg.DSN()), Migrations(), logger), nil

	case config.BackendFile, config.BackendS3:
		var medium Medium
		if cfg.StoreBackend == config.BackendFile {
			disk, err := NewDiskMedium(cfg.DataDir, cfg.SubscribersFile)
			if err != nil {
				return nil, err
			}
			medium = disk
		} else {
			client, err := NewS3Client(ctx, cfg.AWSRegion)
			if err != nil {
				return nil, err
			}
			medium = NewS3Medium(client, cfg.S3Bucket, cfg.S3Key)
		}

		locker, err := newLocker(ctx, cfg, medium.Name(), logger)
		if err != nil {
			return nil, err
		}

		fs := NewFileStore(medium, locker, logger)
		if err := fs.Init(ctx); err != nil {
			fs.Close()
			return nil, fmt.Errorf("initializing subscriber document: %w", err)
		}
		return fs, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newLocker(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) (Locker, error) {
	if cfg.RedisURL == "" {
		logger.Warn("no REDIS_URL set; subscriber document is only locked within this process")
		return NewMutexLocker(), nil
	}

	client, err := NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisLocker(client, "subscribers:"+name, 30*time.Second, logger), nil
}
