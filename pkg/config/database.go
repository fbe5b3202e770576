package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver used by the sqlite dialector.
	_ "modernc.org/sqlite"
)

// sqliteDriverName is the database/sql name modernc.org/sqlite registers under.
const sqliteDriverName = "sqlite"

// DB holds the relational store shared by every request.
type DB struct {
	Gorm   *gorm.DB
	Driver string
	logger *slog.Logger
}

// InitDB opens the store selected by cfg.DBDriver and verifies it answers.
func InitDB(cfg *Config, log *slog.Logger) (*DB, error) {
	var (
		gdb *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
		gdb, err = OpenPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
	case DriverSQLite:
		gdb, err = OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database %q: %w", cfg.SQLitePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	log.Info("database connected", slog.String("driver", cfg.DBDriver))
	return &DB{Gorm: gdb, Driver: cfg.DBDriver, logger: log}, nil
}

// OpenPostgres opens a pooled PostgreSQL connection through gorm. Driver
// errors are translated so unique and foreign-key violations surface as
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (creating if needed) the SQLite file at path with foreign
// key enforcement switched on for every pooled connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        dsn,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Ping checks that the pool can still reach the store.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CloseDB closes the underlying connection pool.
func (db *DB) CloseDB() {
	if db == nil || db.Gorm == nil {
		return
	}
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		db.logger.Error("getting sql.DB from gorm", slog.String("error", err.Error()))
		return
	}
	if err := sqlDB.Close(); err != nil {
		db.logger.Error("closing database", slog.String("error", err.Error()))
		return
	}
	db.logger.Info("database connection closed", slog.String("driver", db.Driver))
}
