package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/db"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

func sqliteOpener(t *testing.T) dbOpener {
	dsn := filepath.Join(t.TempDir(), "migrate.db")
	return func(ctx context.Context) (*target, error) {
		client, err := db.New(ctx, config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn, MaxOpenConns: 1}, logger.Nop())
		if err != nil {
			return nil, err
		}
		sqlDB, err := client.SQLDB()
		if err != nil {
			return nil, err
		}
		return &target{sqlDB: sqlDB, driver: client.Driver(), close: client.Close}, nil
	}
}

func execute(t *testing.T, open dbOpener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUpThenVersionZero(t *testing.T) {
	open := sqliteOpener(t)
	_, err := execute(t, open, "up")
	require.NoError(t, err)

	out, err := execute(t, open, "version", "0")
	require.NoError(t, err)
	require.Contains(t, out, "schema at version 0")
}

func TestVersionRequiresArgument(t *testing.T) {
	called := false
	open := func(context.Context) (*target, error) {
		called = true
		return nil, nil
	}
	_, err := execute(t, open, "version")
	require.Error(t, err)
	require.False(t, called, "argument errors must not open the database")
}

func TestCreateThenValidate(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, nil, "create", "add kv index", "--dir", dir)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "created "), out)

	out, err = execute(t, nil, "validate", "--dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "migrations ok")
}
