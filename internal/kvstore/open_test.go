package kvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

func TestOpenSelectsBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"memory", config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendMemory}}, "*kvstore.MemoryStore"},
		{"file", config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendFile, File: filepath.Join(dir, "state.json")}}, "*kvstore.FileStore"},
		{"redis", config.Config{
			Storage: config.StorageConfig{Backend: config.StorageBackendRedis},
			Redis:   config.RedisConfig{Address: mr.Addr()},
		}, "*kvstore.RedisStore"},
		{"sql", config.Config{
			Storage: config.StorageConfig{Backend: config.StorageBackendSQL},
			DB:      config.DBConfig{Driver: config.DBDriverSQLite, DSN: filepath.Join(dir, "state.db"), AutoMigrate: true, MaxOpenConns: 1},
		}, "*kvstore.SQLStore"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			store, closeFn, err := Open(context.Background(), &cfg, logger.Nop())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeFn()
			if got := typeName(store); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
			ctx := context.Background()
			if err := store.Set(ctx, KeyCart, []byte(`{"items":[]}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.Ping(ctx); err != nil {
				t.Fatalf("ping: %v", err)
			}
		})
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Backend: "etcd"}}
	if _, _, err := Open(context.Background(), &cfg, logger.Nop()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
