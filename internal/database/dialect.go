package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// NowExpression returns the SQL expression for the current server timestamp
	NowExpression() string

	// LockingClause returns the suffix that locks selected rows until the
	// surrounding transaction ends, or "" if the backend serializes writers
	// some other way
	LockingClause() string

	// SerializeWrites reports whether write transactions must be serialized
	// in-process; an embedded single-file backend cannot tolerate concurrent
	// writers across connections
	SerializeWrites() bool

	// ConfigureConnection applies any database-specific session settings
	ConfigureConnection(db *sql.DB) error

	// SchemaStatements returns idempotent DDL for the users, yoga_classes
	// and bookings tables plus their indexes
	SchemaStatements() []string

	// IsUniqueViolation reports whether err is a unique-constraint violation
	// reported by this backend's driver
	IsUniqueViolation(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
