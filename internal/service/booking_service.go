package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
)

// BookingService places and releases reservations. All constraint checking
// happens inside the repository's transaction, so this layer stays thin.
type BookingService struct {
	bookingRepo *repository.BookingRepository
}

func NewBookingService(bookingRepo *repository.BookingRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo}
}

// BookClass reserves a spot in a class for a user and returns the booking id.
func (s *BookingService) BookClass(ctx context.Context, userID, classID int64) (int64, error) {
	return s.bookingRepo.CreateBooking(ctx, userID, classID)
}

// CancelBooking releases a reservation. Only the booking's owner may cancel
// it; cancelling an already-cancelled booking is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	return s.bookingRepo.CancelBooking(ctx, bookingID, userID)
}

// ListUserBookings returns the user's active bookings on future classes.
func (s *BookingService) ListUserBookings(userID int64) ([]models.BookingDetail, error) {
	bookings, err := s.bookingRepo.ListActiveForUser(userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
