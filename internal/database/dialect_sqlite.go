package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	// _txlock=immediate makes every transaction take the write lock up
	// front, so a concurrent writer fails fast into the busy handler
	// instead of deadlocking at upgrade time.
	params := "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	if strings.Contains(config.Path, "?") {
		return config.Path + "&" + params
	}
	return config.Path + "?" + params
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) NowExpression() string {
	return "datetime('now')"
}

func (d *SQLiteDialect) LockingClause() string {
	// The write lock taken by _txlock=immediate covers the whole file;
	// there is no row-level FOR UPDATE.
	return ""
}

func (d *SQLiteDialect) SerializeWrites() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	return nil
}

func (d *SQLiteDialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			surname TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_verified INTEGER NOT NULL DEFAULT 0,
			verification_token TEXT DEFAULT NULL,
			token_expiry DATETIME NULL
		);`,
		`CREATE TABLE IF NOT EXISTS yoga_classes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			instructor TEXT NOT NULL,
			date_time DATETIME NOT NULL,
			duration INTEGER NOT NULL DEFAULT 75,
			capacity INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			location TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			class_id INTEGER NOT NULL,
			booking_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status TEXT NOT NULL DEFAULT 'active',
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (class_id) REFERENCES yoga_classes(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_verification_token ON users(verification_token);`,
		`CREATE INDEX IF NOT EXISTS idx_classes_date_time ON yoga_classes(date_time);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_class_status ON bookings(class_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_status ON bookings(user_id, status);`,
		// Storage-level backstop for the duplicate-booking check.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active ON bookings(user_id, class_id) WHERE status = 'active';`,
	}
}

func (d *SQLiteDialect) IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
