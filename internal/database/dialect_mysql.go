package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	// DATETIME columns must come back as time.Time, not []byte.
	if strings.Contains(config.URL, "parseTime") {
		return config.URL
	}
	if strings.Contains(config.URL, "?") {
		return config.URL + "&parseTime=true"
	}
	return config.URL + "?parseTime=true"
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) NowExpression() string {
	return "NOW()"
}

func (d *MySQLDialect) LockingClause() string {
	return " FOR UPDATE"
}

func (d *MySQLDialect) SerializeWrites() bool {
	return false
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	// Ensure foreign key checks are enabled
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}
	return nil
}

func (d *MySQLDialect) SchemaStatements() []string {
	// MySQL has no CREATE INDEX IF NOT EXISTS and no partial unique
	// indexes, so secondary indexes are declared inline and the
	// active-booking uniqueness is enforced by the row lock alone.
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			surname VARCHAR(100) NOT NULL,
			email VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_token VARCHAR(100) DEFAULT NULL,
			token_expiry DATETIME NULL,
			INDEX idx_users_verification_token (verification_token)
		);`,
		`CREATE TABLE IF NOT EXISTS yoga_classes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			instructor VARCHAR(100) NOT NULL,
			date_time DATETIME NOT NULL,
			duration INT NOT NULL DEFAULT 75,
			capacity INT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			location VARCHAR(200) NOT NULL,
			INDEX idx_classes_date_time (date_time)
		);`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			class_id BIGINT NOT NULL,
			booking_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			INDEX idx_bookings_class_status (class_id, status),
			INDEX idx_bookings_user_status (user_id, status),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (class_id) REFERENCES yoga_classes(id)
		);`,
	}
}

func (d *MySQLDialect) IsUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
