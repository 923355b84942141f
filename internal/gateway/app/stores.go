package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"ideaforge/internal/gateway/config"
	"ideaforge/internal/gateway/repository/archive"
	"ideaforge/internal/gateway/repository/idea"
)

type gatewayStores struct {
	ideas   idea.Store
	archive archive.Store
	db      *sql.DB
}

func (s *gatewayStores) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initStores(ctx context.Context, cfg *config.Config) (*gatewayStores, error) {
	archiveStore, err := chooseArchiveStore(cfg)
	if err != nil {
		return nil, err
	}
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return initPostgresStores(ctx, dsn, archiveStore)
	}
	log.Printf("idea store: in-memory")
	return &gatewayStores{
		ideas:   idea.NewCachedStore(idea.NewMemoryStore(), idea.DefaultCacheConfig()),
		archive: archiveStore,
	}, nil
}

func initPostgresStores(ctx context.Context, dsn string, archiveStore archive.Store) (*gatewayStores, error) {
	db, err := idea.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open idea store: %w", err)
	}
	log.Printf("idea store: postgres")
	return &gatewayStores{
		ideas:   idea.NewCachedStore(idea.NewPostgresStore(db), idea.DefaultCacheConfig()),
		archive: archiveStore,
		db:      db,
	}, nil
}

func chooseArchiveStore(cfg *config.Config) (archive.Store, error) {
	if !cfg.Archive.CanUseS3() {
		if cfg.Archive.Enabled {
			log.Printf("archive store: disabled (s3 config incomplete)")
		}
		return archive.NopStore{}, nil
	}
	s3Cfg := archive.S3Config{
		Endpoint:  cfg.Archive.Endpoint,
		Region:    cfg.Archive.Region,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		UseSSL:    cfg.Archive.UseSSL,
	}
	s3Store, err := archive.NewS3Store(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize archive s3 store: %w", err)
	}
	log.Printf("archive store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
	return s3Store, nil
}
