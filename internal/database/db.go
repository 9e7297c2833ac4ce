package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fcornetti/booking-yoga-system/internal/config"
)

// DB wraps the database connection with dialect support and an explicit
// connection pool used by transactional operations
type DB struct {
	*sql.DB
	Dialect Dialect

	pool      *Pool
	transient RetryPolicy
	resume    RetryPolicy
}

// Initialize creates and configures a SQLite-backed database with default
// pool and retry settings (used by tests and the management CLI)
func Initialize(dbPath string) (*DB, error) {
	return open(NewSQLiteDialect(), DialectConfig{Path: dbPath}, DefaultPoolSettings())
}

// InitializeWithConfig creates and configures the database connection based on config
func InitializeWithConfig(cfg *config.Config) (*DB, error) {
	var dialect Dialect
	var dialectConfig DialectConfig

	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		dialect = NewPostgresDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "mysql":
		dialect = NewMySQLDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "sqlite", "sqlite3", "":
		dialect = NewSQLiteDialect()
		dialectConfig = DialectConfig{Path: cfg.DatabasePath}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}

	settings := PoolSettings{
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleConns:   cfg.DBMaxIdleConns,
		AcquireTimeout: cfg.DBAcquireTimeout,
	}
	return open(dialect, dialectConfig, settings)
}

func open(dialect Dialect, dialectConfig DialectConfig, settings PoolSettings) (*DB, error) {
	sqlDB, err := sql.Open(dialect.DriverName(), dialect.DSN(dialectConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		DB:        sqlDB,
		Dialect:   dialect,
		pool:      NewPool(sqlDB, dialect, settings),
		transient: TransientRetryPolicy(),
		resume:    ResumeRetryPolicy(),
	}

	// A hosted database may be paused when the process starts; the first
	// round-trip is what wakes it, so it gets the long backoff schedule.
	if err := Execute(context.Background(), sqlDB.Ping, db.transient, db.resume); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.ConfigureConnection(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the three tables and their indexes if they do not
// exist yet. Safe to call on every startup.
func (db *DB) EnsureSchema() error {
	for _, stmt := range db.Dialect.SchemaStatements() {
		if _, err := db.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// Pool returns the connection pool backing this database
func (db *DB) Pool() *Pool {
	return db.pool
}

// Close closes the pool and the underlying database connection
func (db *DB) Close() error {
	return db.pool.Close()
}

// Query executes a query with automatic placeholder rewriting
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.RewriteQuery(query), args...)
}

// QueryRow executes a query that returns a single row with automatic placeholder rewriting
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

// Exec executes a query that doesn't return rows with automatic placeholder rewriting
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}

// ExecReturningID executes an INSERT query and returns the new row's ID.
// This handles the dialect difference between databases that support
// LastInsertId() and PostgreSQL which requires a RETURNING clause.
func (db *DB) ExecReturningID(query string, args ...interface{}) (int64, error) {
	rewritten := db.Dialect.RewriteQuery(query)

	if db.Dialect.SupportsLastInsertId() {
		result, err := db.DB.Exec(rewritten, args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	rewritten = strings.TrimSuffix(strings.TrimSpace(rewritten), ";") + " RETURNING id"

	var id int64
	if err := db.DB.QueryRow(rewritten, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
