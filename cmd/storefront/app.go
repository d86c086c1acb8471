package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

// session is an opened storefront and the func that flushes and releases it.
type session struct {
	sf    *storefront.Storefront
	cfg   *config.Config
	close func(ctx context.Context) error
}

type opener func(ctx context.Context) (*session, error)

type app struct {
	open    opener
	jsonOut bool
}

// run opens the storefront, applies fn and flushes state on the way out.
func (a *app) run(ctx context.Context, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.close(context.WithoutCancel(ctx)))
	}()
	return fn(ctx, s)
}

// openFromEnv mirrors the api bootstrap: .env, config, logger, store, catalog.
func openFromEnv(ctx context.Context) (*session, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefront-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Output:      os.Stderr,
	})

	cat := catalog.Default()
	if cfg.Catalog.SeedPath != "" {
		if cat, err = catalog.Load(cfg.Catalog.SeedPath); err != nil {
			return nil, err
		}
	}

	store, closeStore, err := kvstore.Open(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	sf, err := storefront.New(storefront.Params{
		Catalog:  cat,
		Store:    store,
		Logger:   logg,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		return nil, multierr.Append(err, closeStore())
	}
	if err := sf.Open(ctx); err != nil {
		return nil, multierr.Append(err, closeStore())
	}
	return &session{
		sf:  sf,
		cfg: cfg,
		close: func(ctx context.Context) error {
			return multierr.Append(sf.Close(ctx), closeStore())
		},
	}, nil
}
