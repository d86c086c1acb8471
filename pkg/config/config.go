package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "JHUMKA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "JHUMKA_APP_ENV"
	EnvPort           = "JHUMKA_APP_PORT"
	EnvLogLevel       = "JHUMKA_LOG_LEVEL"
	EnvStorageBackend = "JHUMKA_STORAGE_BACKEND"
	EnvStorageFile    = "JHUMKA_STORAGE_FILE"
	EnvRedisURL       = "JHUMKA_REDIS_URL"
	EnvDBDriver       = "JHUMKA_DB_DRIVER"
	EnvDBDSN          = "JHUMKA_DB_DSN"
	EnvShippingFee    = "JHUMKA_CHECKOUT_SHIPPING_FEE"

	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"
	StorageBackendMemory = "memory"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

var storageBackends = []string{
	StorageBackendFile,
	StorageBackendRedis,
	StorageBackendSQL,
	StorageBackendMemory,
}

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Redis    RedisConfig
	DB       DBConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"JHUMKA_APP_ENV" default:"dev"`
	Port            string        `envconfig:"JHUMKA_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"JHUMKA_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"JHUMKA_LOG_WARN_STACK" default:"false"`
	LogFormat       string        `envconfig:"JHUMKA_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"JHUMKA_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"JHUMKA_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the backend that mirrors the cart and wishlist.
type StorageConfig struct {
	Backend string `envconfig:"JHUMKA_STORAGE_BACKEND" default:"file"`
	File    string `envconfig:"JHUMKA_STORAGE_FILE" default:"storefront.json"`
	Watch   bool   `envconfig:"JHUMKA_STORAGE_WATCH" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JHUMKA_REDIS_URL"`
	Address      string        `envconfig:"JHUMKA_REDIS_ADDR"`
	Password     string        `envconfig:"JHUMKA_REDIS_PASSWORD"`
	DB           int           `envconfig:"JHUMKA_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"JHUMKA_REDIS_NAMESPACE" default:"jhumka"`
	PoolSize     int           `envconfig:"JHUMKA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JHUMKA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JHUMKA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JHUMKA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JHUMKA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver          string        `envconfig:"JHUMKA_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"JHUMKA_DB_DSN" default:"storefront.db"`
	AutoMigrate     bool          `envconfig:"JHUMKA_DB_AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"JHUMKA_DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"JHUMKA_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"JHUMKA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JHUMKA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// CatalogConfig points at an optional seed document replacing the embedded catalog.
type CatalogConfig struct {
	SeedPath string `envconfig:"JHUMKA_CATALOG_SEED_PATH"`
}

type CheckoutConfig struct {
	ShippingFee    string `envconfig:"JHUMKA_CHECKOUT_SHIPPING_FEE" default:"99"`
	CurrencySymbol string `envconfig:"JHUMKA_CHECKOUT_CURRENCY_SYMBOL" default:"₹"`
}

func (c *Config) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	known := false
	for _, candidate := range storageBackends {
		if candidate == backend {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%s must be one of %s", EnvStorageBackend, strings.Join(storageBackends, ", "))
	}
	c.Storage.Backend = backend

	switch backend {
	case StorageBackendFile:
		if strings.TrimSpace(c.Storage.File) == "" {
			return fmt.Errorf("%s is required for the file backend", EnvStorageFile)
		}
	case StorageBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s is required for the redis backend", EnvRedisURL)
		}
	case StorageBackendSQL:
		driver := strings.ToLower(strings.TrimSpace(c.DB.Driver))
		if driver != DBDriverSQLite && driver != DBDriverPostgres {
			return fmt.Errorf("%s must be %s or %s", EnvDBDriver, DBDriverSQLite, DBDriverPostgres)
		}
		c.DB.Driver = driver
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required for the sql backend", EnvDBDSN)
		}
	}
	return nil
}
