package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/models"
)

var (
	ErrClassInPast      = errors.New("class has already started")
	ErrClassFull        = errors.New("class is fully booked")
	ErrDuplicateBooking = errors.New("class is already booked by this user")
	ErrTimeConflict     = errors.New("user already has a booking at the same time")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("booking belongs to another user")
)

// BookingRepository owns the booking-constraint engine
type BookingRepository struct {
	db *database.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBooking reserves a seat for the user. All checks and the insert run
// in one transaction with the class row locked, so two concurrent callers
// racing for the last seat serialize: one gets the seat, the other gets
// ErrClassFull. Check order is fixed — existence, past start, capacity,
// duplicate, time conflict — so error precedence is deterministic.
func (r *BookingRepository) CreateBooking(ctx context.Context, userID, classID int64) (int64, error) {
	var bookingID int64
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		lock := tx.GetDialect().LockingClause()

		var class models.YogaClass
		query := "SELECT id, date_time, capacity, status FROM yoga_classes WHERE id = ?" + lock
		err := tx.QueryRow(query, classID).Scan(&class.ID, &class.DateTime, &class.Capacity, &class.Status)
		if err == sql.ErrNoRows {
			return ErrClassNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load class: %w", err)
		}
		if class.Status != models.StatusActive {
			// Soft-deleted classes are not bookable.
			return ErrClassNotFound
		}

		if class.DateTime.Before(time.Now()) {
			return ErrClassInPast
		}

		var active int
		err = tx.QueryRow("SELECT COUNT(*) FROM bookings WHERE class_id = ? AND status = ?",
			classID, models.StatusActive).Scan(&active)
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}
		if active >= class.Capacity {
			return ErrClassFull
		}

		var duplicates int
		err = tx.QueryRow("SELECT COUNT(*) FROM bookings WHERE class_id = ? AND user_id = ? AND status = ?",
			classID, userID, models.StatusActive).Scan(&duplicates)
		if err != nil {
			return fmt.Errorf("failed to check duplicate booking: %w", err)
		}
		if duplicates > 0 {
			return ErrDuplicateBooking
		}

		// The start-time comparison stays inside SQL so both sides use
		// the backend's stored timestamp representation.
		var conflicts int
		err = tx.QueryRow(`
			SELECT COUNT(*)
			FROM bookings b
			JOIN yoga_classes c ON b.class_id = c.id
			WHERE b.user_id = ? AND b.status = ? AND c.id <> ?
			  AND c.date_time = (SELECT date_time FROM yoga_classes WHERE id = ?)
		`, userID, models.StatusActive, classID, classID).Scan(&conflicts)
		if err != nil {
			return fmt.Errorf("failed to check time conflict: %w", err)
		}
		if conflicts > 0 {
			return ErrTimeConflict
		}

		now := tx.GetDialect().NowExpression()
		id, err := tx.ExecReturningID(
			"INSERT INTO bookings (user_id, class_id, booking_date, status) VALUES (?, ?, "+now+", ?)",
			userID, classID, models.StatusActive)
		if err != nil {
			// A race past the duplicate check lands on the unique
			// active-booking index; report it as the business error.
			if tx.GetDialect().IsUniqueViolation(err) {
				return ErrDuplicateBooking
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		bookingID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return bookingID, nil
}

// CancelBooking marks the booking cancelled on behalf of its owner.
// Cancelling an already-cancelled booking is a no-op; it never resurrects.
func (r *BookingRepository) CancelBooking(ctx context.Context, bookingID, requestingUserID int64) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		var ownerID int64
		var status string
		query := "SELECT user_id, status FROM bookings WHERE id = ?" + tx.GetDialect().LockingClause()
		err := tx.QueryRow(query, bookingID).Scan(&ownerID, &status)
		if err == sql.ErrNoRows {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if ownerID != requestingUserID {
			return ErrNotBookingOwner
		}
		if status == models.StatusCancelled {
			return nil
		}

		if _, err := tx.Exec("UPDATE bookings SET status = ? WHERE id = ?",
			models.StatusCancelled, bookingID); err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		return nil
	})
}

// GetBookingByID retrieves a booking by id; nil when absent
func (r *BookingRepository) GetBookingByID(id int64) (*models.Booking, error) {
	query := "SELECT id, user_id, class_id, booking_date, status FROM bookings WHERE id = ?"
	booking := &models.Booking{}
	err := r.db.QueryRow(query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ClassID,
		&booking.BookingDate,
		&booking.Status,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// CountActiveForClass returns the number of seats currently held on a class
func (r *BookingRepository) CountActiveForClass(classID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM bookings WHERE class_id = ? AND status = ?",
		classID, models.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// ListActiveForUser returns the user's active bookings on classes that have
// not started yet, joined with class details, ordered by start ascending
func (r *BookingRepository) ListActiveForUser(userID int64, now time.Time) ([]models.BookingDetail, error) {
	query := `
		SELECT b.id, c.id, c.name, c.instructor, c.date_time, c.duration, c.location, b.status
		FROM bookings b
		JOIN yoga_classes c ON b.class_id = c.id
		WHERE b.user_id = ? AND b.status = ? AND c.date_time > ?
		ORDER BY c.date_time ASC
	`
	rows, err := r.db.Query(query, userID, models.StatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var details []models.BookingDetail
	for rows.Next() {
		var d models.BookingDetail
		if err := rows.Scan(
			&d.BookingID,
			&d.ClassID,
			&d.ClassName,
			&d.Instructor,
			&d.DateTime,
			&d.Duration,
			&d.Location,
			&d.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
