package main

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/adapter/blob"
	"storefront/internal/adapter/memory"
	"storefront/internal/adapter/postgres"
	"storefront/internal/config"
	"storefront/internal/domain"
)

// store is the full set of repositories the services need.
type store interface {
	domain.UserRepository
	domain.CategoryRepository
	domain.ProductRepository
	domain.SettingsRepository
}

// openStore returns PostgreSQL when DATABASE_URL is set and the in-memory
// store otherwise. Validate rejects the latter in production.
func openStore(cfg *config.Config, logger *slog.Logger) (store, func() error, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		return memory.New(), func() error { return nil }, nil
	}
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	return db, db.Close, nil
}

// openBlobStore returns the S3 store when a bucket is configured, otherwise
// the disk store together with the directory to serve under /uploads/.
func openBlobStore(ctx context.Context, cfg *config.Config) (domain.BlobStore, string, error) {
	up := cfg.Upload
	if up.Bucket != "" {
		s3, err := blob.NewS3(ctx, blob.S3Config{
			Bucket:    up.Bucket,
			Region:    up.Region,
			Endpoint:  up.Endpoint,
			AccessKey: up.AccessKey,
			SecretKey: up.SecretKey,
			PublicURL: up.PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	}
	disk, err := blob.NewDisk(up.Dir)
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Dir(), nil
}
