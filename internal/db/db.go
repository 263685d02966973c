package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stwalsh4118/reelhouse/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// DB wraps a GORM database connection
type DB struct {
	*gorm.DB
	driver string
}

// Open creates a database connection for the configured driver
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg.DSN, cfg.ConnectionTimeout)
	case config.DriverSQLite, "":
		return newSQLite(cfg.Path, cfg.EnableWAL, cfg.ConnectionTimeout)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// New creates a new SQLite database connection with GORM
// dbPath should be the path to the SQLite database file
// Example: "./data/reelhouse.db"
func New(dbPath string) (*DB, error) {
	return newSQLite(dbPath, true, 5*time.Second)
}

func newSQLite(dbPath string, enableWAL bool, pingTimeout time.Duration) (*DB, error) {
	// Foreign keys are off by default in SQLite; cascades depend on them
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	if enableWAL {
		dsn += "&_journal_mode=WAL"
	}
	return open(sqlite.Open(dsn), config.DriverSQLite, pingTimeout)
}

// NewPostgres creates a new PostgreSQL database connection with GORM
func NewPostgres(dsn string, pingTimeout time.Duration) (*DB, error) {
	return open(postgres.Open(dsn), config.DriverPostgres, pingTimeout)
}

func open(dialector gorm.Dialector, driver string, pingTimeout time.Duration) (*DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		// Disable default transaction for better performance
		SkipDefaultTransaction: true,
		// Prepare statements for better performance
		PrepareStmt: true,
		// Surface constraint violations as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: gormDB, driver: driver}, nil
}

// Driver returns the configured driver name
func (db *DB) Driver() string {
	return db.driver
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// GetSQLDB returns the underlying sql.DB for migrations
func (db *DB) GetSQLDB() (*sql.DB, error) {
	return db.DB.DB()
}

// Migrate applies the migrations at migrationsPath using the connection's driver
func (db *DB) Migrate(migrationsPath string) error {
	sqlDB, err := db.GetSQLDB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return RunMigrations(sqlDB, db.driver, migrationsPath)
}
