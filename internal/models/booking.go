package models

import (
	"fmt"
	"time"
)

// Booking represents a user's claim on one seat of a class
type Booking struct {
	ID          int64
	UserID      int64
	ClassID     int64
	BookingDate time.Time
	Status      string
}

// IsActive reports whether the booking still holds a seat
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// BookingDetail is a booking joined with the class it refers to, as shown
// in a user's upcoming-bookings list
type BookingDetail struct {
	BookingID  int64
	ClassID    int64
	ClassName  string
	Instructor string
	DateTime   time.Time
	Duration   int // minutes
	Location   string
	Status     string
}

// TimeRange formats the class slot, e.g. "Mon 2 Mar 2026 18:00 - 19:15"
func (d *BookingDetail) TimeRange() string {
	end := d.DateTime.Add(time.Duration(d.Duration) * time.Minute)
	return fmt.Sprintf("%s - %s", d.DateTime.Format("Mon 2 Jan 2006 15:04"), end.Format("15:04"))
}
