package models

import "time"

// Class and booking lifecycle states. Transitions are one-directional:
// active rows may become cancelled, never the other way around.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// DefaultClassDuration is applied when a class is created without one
const DefaultClassDuration = 75

// YogaClass represents a scheduled, capacity-bounded bookable class
type YogaClass struct {
	ID         int64
	Name       string
	Instructor string
	DateTime   time.Time
	Duration   int // minutes
	Capacity   int
	Status     string
	Location   string
}

// EndTime returns the moment the class finishes
func (c *YogaClass) EndTime() time.Time {
	return c.DateTime.Add(time.Duration(c.Duration) * time.Minute)
}

// IsActive reports whether the class has not been cancelled
func (c *YogaClass) IsActive() bool {
	return c.Status == StatusActive
}

// ClassSummary is a class annotated with its live number of active bookings
type ClassSummary struct {
	YogaClass
	BookingCount int
}

// SpotsLeft returns the remaining free seats
func (s *ClassSummary) SpotsLeft() int {
	return s.Capacity - s.BookingCount
}

// IsFull reports whether no seats remain
func (s *ClassSummary) IsFull() bool {
	return s.SpotsLeft() <= 0
}
