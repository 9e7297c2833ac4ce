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

// ErrClassNotFound covers both a missing id and a cancelled class: a
// soft-deleted class is not bookable and not listed
var ErrClassNotFound = errors.New("class not found")

// ClassRepository handles database operations for yoga classes
type ClassRepository struct {
	db *database.DB
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *database.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// CreateClass inserts a new active class and assigns its generated id
func (r *ClassRepository) CreateClass(class *models.YogaClass) (int64, error) {
	query := `
		INSERT INTO yoga_classes (name, instructor, date_time, duration, capacity, status, location)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		class.Name, class.Instructor, class.DateTime, class.Duration,
		class.Capacity, models.StatusActive, class.Location)
	if err != nil {
		return 0, fmt.Errorf("failed to create class: %w", err)
	}
	class.ID = id
	class.Status = models.StatusActive
	return id, nil
}

// GetClassByID retrieves a class by id; nil when absent
func (r *ClassRepository) GetClassByID(id int64) (*models.YogaClass, error) {
	query := `
		SELECT id, name, instructor, date_time, duration, capacity, status, location
		FROM yoga_classes
		WHERE id = ?
	`
	class := &models.YogaClass{}
	err := r.db.QueryRow(query, id).Scan(
		&class.ID,
		&class.Name,
		&class.Instructor,
		&class.DateTime,
		&class.Duration,
		&class.Capacity,
		&class.Status,
		&class.Location,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

// ListUpcomingActive returns all active classes starting after now, each
// annotated with its live booking count via a single aggregate query,
// ordered by start time ascending
func (r *ClassRepository) ListUpcomingActive(now time.Time) ([]models.ClassSummary, error) {
	query := `
		SELECT c.id, c.name, c.instructor, c.date_time, c.duration, c.capacity, c.status, c.location,
		       COUNT(b.id) AS booking_count
		FROM yoga_classes c
		LEFT JOIN bookings b ON b.class_id = c.id AND b.status = ?
		WHERE c.date_time > ? AND c.status = ?
		GROUP BY c.id, c.name, c.instructor, c.date_time, c.duration, c.capacity, c.status, c.location
		ORDER BY c.date_time ASC
	`
	rows, err := r.db.Query(query, models.StatusActive, now, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var summaries []models.ClassSummary
	for rows.Next() {
		var s models.ClassSummary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Instructor,
			&s.DateTime,
			&s.Duration,
			&s.Capacity,
			&s.Status,
			&s.Location,
			&s.BookingCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CancelClass marks the class cancelled and cascades the cancellation to
// every active booking that references it, all in one transaction. Returns
// the number of bookings affected. No other reader may observe a cancelled
// class with a still-active booking.
func (r *ClassRepository) CancelClass(ctx context.Context, classID int64) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		var status string
		query := "SELECT status FROM yoga_classes WHERE id = ?" + tx.GetDialect().LockingClause()
		err := tx.QueryRow(query, classID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrClassNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load class: %w", err)
		}

		res, err := tx.Exec("UPDATE bookings SET status = ? WHERE class_id = ? AND status = ?",
			models.StatusCancelled, classID, models.StatusActive)
		if err != nil {
			return fmt.Errorf("failed to cancel bookings: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read cancelled booking count: %w", err)
		}

		if _, err := tx.Exec("UPDATE yoga_classes SET status = ? WHERE id = ?",
			models.StatusCancelled, classID); err != nil {
			return fmt.Errorf("failed to cancel class: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
