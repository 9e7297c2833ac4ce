package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"time"
)

var (
	// ErrPoolClosed is returned by Acquire after the pool has been shut down
	ErrPoolClosed = errors.New("connection pool is closed")

	// ErrPoolExhausted is returned when no connection becomes available
	// within the configured acquire timeout
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// PoolSettings bounds the set of live connections handed out by a Pool
type PoolSettings struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AcquireTimeout  time.Duration
}

// DefaultPoolSettings mirrors the limits used per backend in production
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
		AcquireTimeout:  5 * time.Second,
	}
}

// Pool hands out validated connections and reclaims them. It bounds the
// total number of concurrently open connections; callers that cannot be
// served within the acquire timeout observe ErrPoolExhausted instead of
// queueing forever.
type Pool struct {
	db       *sql.DB
	settings PoolSettings

	// writeMu serializes write transactions for single-file backends
	writeMu         sync.Mutex
	serializeWrites bool

	mu     sync.Mutex
	closed bool
}

// NewPool configures the connection limits on db and wraps it
func NewPool(db *sql.DB, dialect Dialect, settings PoolSettings) *Pool {
	if settings.AcquireTimeout <= 0 {
		settings.AcquireTimeout = DefaultPoolSettings().AcquireTimeout
	}
	db.SetMaxOpenConns(settings.MaxOpenConns)
	db.SetMaxIdleConns(settings.MaxIdleConns)
	db.SetConnMaxLifetime(settings.ConnMaxLifetime)
	db.SetConnMaxIdleTime(settings.ConnMaxIdleTime)

	return &Pool{
		db:              db,
		settings:        settings,
		serializeWrites: dialect.SerializeWrites(),
	}
}

// Acquire returns a dedicated connection, blocking up to the configured
// acquire timeout when the pool is at its maximum
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.settings.AcquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrPoolExhausted
		}
		if errors.Is(err, sql.ErrConnDone) {
			return nil, ErrPoolClosed
		}
		return nil, err
	}
	return conn, nil
}

// Release returns a connection to the idle set after a liveness probe.
// A handle that fails the probe is discarded instead of being reused.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// A prior caller may have opened a transaction with a raw BEGIN and
	// failed before resolving it; the rollback error is expected when no
	// transaction is active. Transactions opened through WithTx are
	// always resolved before the connection reaches this point.
	_, _ = conn.ExecContext(ctx, "ROLLBACK")

	if err := conn.PingContext(ctx); err != nil {
		// Returning driver.ErrBadConn from Raw marks the underlying
		// connection bad, so Close discards it rather than pooling it.
		_ = conn.Raw(func(driverConn any) error { return driver.ErrBadConn })
	}
	_ = conn.Close()
}

// LockWrites takes the in-process write lock for backends whose file format
// forbids concurrent writers. The returned function releases it; for all
// other backends both are no-ops.
func (p *Pool) LockWrites() func() {
	if !p.serializeWrites {
		return func() {}
	}
	p.writeMu.Lock()
	return p.writeMu.Unlock
}

// Close invalidates the pool; subsequent Acquire calls fail with ErrPoolClosed
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	return p.db.Close()
}
