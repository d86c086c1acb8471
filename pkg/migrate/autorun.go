package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/db"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

// MaybeRun brings the kv schema up to date before the sql store opens. It is a
// no-op for the other storage backends or when JHUMKA_DB_AUTO_MIGRATE is off.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || cfg.Storage.Backend != config.StorageBackendSQL {
		return nil
	}
	if !cfg.DB.AutoMigrate {
		logg.Warn(ctx, "migrate.auto_disabled")
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("sql handle for migrations: %w", err)
	}
	driver := client.Driver()

	before, err := CurrentVersion(sqlDB, driver)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if err := Run(ctx, sqlDB, driver, "up"); err != nil {
		return err
	}
	after, err := CurrentVersion(sqlDB, driver)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"db_driver":    driver,
		"from_version": before,
		"to_version":   after,
	})
	if before == after {
		logg.Debug(ctx, "migrate.up_to_date")
		return nil
	}
	logg.Info(ctx, "migrate.applied")
	return nil
}
