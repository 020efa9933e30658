// Package db opens the relational store backing the quote cache.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	quoteadapters "market_data/internal/feature/quotes/adapters"
)

// Supported values of Config.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas trade durability for write throughput; the cache can be
// rebuilt from upstream at any time.
const sqlitePragmas = "_journal_mode=MEMORY&_synchronous=OFF&_busy_timeout=5000"

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver         string        `envconfig:"DB_DRIVER" default:"sqlite"`
	Path           string        `envconfig:"DB_PATH" default:"market-data.db"` // SQLite file
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           string        `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME" default:"market_data"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"60s"`
	Migrate        bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load db config: %w", err)
	}
	return cfg, nil
}

// BuildDSN はドライバに応じた接続文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	}
	return fmt.Sprintf("file:%s?%s", cfg.Path, sqlitePragmas)
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener はドライバに対応するOpenerを返します。
func NewOpener(driver string) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case DriverSQLite, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open connects to the configured database and migrates the quote table.
// The caller owns the returned handle and must close it on shutdown.
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver != DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLiteは単一ライターのため接続を1本に制限する
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Migrate {
		if err := db.AutoMigrate(&quoteadapters.QuoteModel{}); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to migrate: %w", err), Close(db))
		}
	}
	return db, nil
}

// Close closes the pool underlying db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
