package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrUnavailable is surfaced once a retry schedule is exhausted. It is the
// only error retried operations report for infrastructure failures, so
// callers can tell it apart from business-rule errors.
var ErrUnavailable = errors.New("database unavailable")

// RetryPolicy retries the error class selected by Qualifies with a backoff
// that scales per attempt and is capped at MaxDelay
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	Qualifies   func(error) bool
}

// TransientRetryPolicy covers ordinary connection-level failures
func TransientRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   250 * time.Millisecond,
		Multiplier:  2.0,
		MaxDelay:    2 * time.Second,
		Qualifies:   IsTransient,
	}
}

// ResumeRetryPolicy covers a paused hosted database waking from cold start,
// which takes tens of seconds rather than milliseconds
func ResumeRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   20 * time.Second,
		Multiplier:  1.5,
		MaxDelay:    60 * time.Second,
		Qualifies:   IsResuming,
	}
}

// Delay returns the sleep before the attempt following attempt (1-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Execute runs op, retrying each failure under whichever policy claims it.
// Errors no policy claims return unchanged, so business-rule failures pass
// straight through. Exhausting a policy surfaces ErrUnavailable wrapping
// the last underlying error.
func Execute(ctx context.Context, op func() error, policies ...RetryPolicy) error {
	attempts := make([]int, len(policies))
	for {
		err := op()
		if err == nil {
			return nil
		}

		claimed := -1
		for i, p := range policies {
			if p.Qualifies != nil && p.Qualifies(err) {
				claimed = i
				break
			}
		}
		if claimed < 0 {
			return err
		}

		attempts[claimed]++
		policy := policies[claimed]
		if attempts[claimed] >= policy.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, policy.MaxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(policy.Delay(attempts[claimed])):
		}
	}
}

var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"invalid connection",
	"i/o timeout",
	"database is locked",
	"deadlock",
	"could not serialize access",
	"try restarting transaction",
}

// resumeMarkers match the errors hosted databases report while auto-paused
// or cold-starting (Azure SQL serverless, Render/Neon Postgres)
var resumeMarkers = []string{
	"is paused",
	"is resuming",
	"not currently available",
	"database system is starting up",
	"login timeout",
}

// IsTransient reports whether err is a short-lived infrastructure failure
// worth retrying on the fast schedule
func IsTransient(err error) bool {
	if err == nil || IsResuming(err) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, ErrPoolExhausted) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected, connection class
		return pqErr.Code == "40001" || pqErr.Code == "40P01" || pqErr.Code.Class() == "08"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsResuming reports whether err indicates the backend is paused or waking
// from cold start; these waits are long and get their own schedule
func IsResuming(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range resumeMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
