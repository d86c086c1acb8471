package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/db"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/migrate"
	"github.com/angelmondragon/jhumka-storefront/pkg/redis"
)

// Open builds the store selected by cfg.Storage.Backend. The returned close
// function releases any connection the store holds.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	ctx = logg.WithField(ctx, "storage_backend", backend)

	switch backend {
	case config.StorageBackendMemory:
		logg.Warn(ctx, "storage.memory_backend_selected")
		return NewMemoryStore(), noop, nil

	case config.StorageBackendFile, "":
		store, err := NewFileStore(cfg.Storage.File)
		if err != nil {
			return nil, nil, err
		}
		logg.Info(logg.WithField(ctx, "storage_file", store.Path()), "storage.opened")
		return store, noop, nil

	case config.StorageBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		store, err := NewRedisStore(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logg.Info(ctx, "storage.opened")
		return store, client.Close, nil

	case config.StorageBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		store, err := NewSQLStore(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logg.Info(ctx, "storage.opened")
		return store, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
}
