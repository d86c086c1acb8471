package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/db"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/migrate"
)

// target is an open database plus the driver name goose needs.
type target struct {
	sqlDB  *sql.DB
	driver string
	close  func() error
}

type dbOpener func(ctx context.Context) (*target, error)

func openDatabase(ctx context.Context) (*target, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Output:      os.Stderr,
	})
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := client.SQLDB()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &target{sqlDB: sqlDB, driver: client.Driver(), close: client.Close}, nil
}

func newRootCmd(open dbOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the storefront kv schema",
		SilenceUsage: true,
	}

	withDB := func(run func(cmd *cobra.Command, t *target, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			t, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer t.close() //nolint:errcheck
			return run(cmd, t, args)
		}
	}
	gooseCmd := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, t *target, _ []string) error {
				return migrate.Run(cmd.Context(), t.sqlDB, t.driver, name)
			}),
		}
	}

	root.AddCommand(
		gooseCmd("up", "Apply every pending migration"),
		gooseCmd("down", "Roll back the most recent migration"),
		gooseCmd("status", "Print applied and pending migrations"),
		&cobra.Command{
			Use:   "version <YYYYMMDDHHMMSS>",
			Short: "Migrate up or down to an exact version",
			Args:  cobra.ExactArgs(1),
			RunE: withDB(func(cmd *cobra.Command, t *target, args []string) error {
				if err := migrate.MigrateToVersion(cmd.Context(), t.sqlDB, t.driver, args[0]); err != nil {
					return err
				}
				current, err := migrate.CurrentVersion(t.sqlDB, t.driver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", current)
				return nil
			}),
		},
	)
	root.AddCommand(newFileCmds()...)
	return root
}

// newFileCmds returns the commands that only touch the migrations directory.
func newFileCmds() []*cobra.Command {
	var dir string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Write a new timestamped SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.CreateSQLMigration(dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created", path)
			return nil
		},
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check migration file names and goose markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrate.ValidateDir(dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations ok")
			return nil
		},
	}
	for _, c := range []*cobra.Command{create, validate} {
		c.Flags().StringVar(&dir, "dir", migrate.DefaultDir, "migrations directory")
	}
	return []*cobra.Command{create, validate}
}
