package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// PostgreSQL doesn't support LastInsertId(), needs RETURNING clause
	return false
}

func (d *PostgresDialect) NowExpression() string {
	return "NOW()"
}

func (d *PostgresDialect) LockingClause() string {
	return " FOR UPDATE"
}

func (d *PostgresDialect) SerializeWrites() bool {
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	// PostgreSQL has foreign keys enabled by default, nothing to configure
	return nil
}

func (d *PostgresDialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			surname VARCHAR(100) NOT NULL,
			email VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_token VARCHAR(100) DEFAULT NULL,
			token_expiry TIMESTAMP NULL
		);`,
		`CREATE TABLE IF NOT EXISTS yoga_classes (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			instructor VARCHAR(100) NOT NULL,
			date_time TIMESTAMP NOT NULL,
			duration INTEGER NOT NULL DEFAULT 75,
			capacity INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			location VARCHAR(200) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			class_id BIGINT NOT NULL REFERENCES yoga_classes(id),
			booking_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status VARCHAR(20) NOT NULL DEFAULT 'active'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_verification_token ON users(verification_token);`,
		`CREATE INDEX IF NOT EXISTS idx_classes_date_time ON yoga_classes(date_time);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_class_status ON bookings(class_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_status ON bookings(user_id, status);`,
		// Storage-level backstop for the duplicate-booking check.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active ON bookings(user_id, class_id) WHERE status = 'active';`,
	}
}

func (d *PostgresDialect) IsUniqueViolation(err error) bool {
	var pe *pq.Error
	return errors.As(err, &pe) && pe.Code == "23505"
}
