package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/validation"
)

var ErrPastStartTime = errors.New("class start time must be in the future")

// ClassService manages the bookable class schedule.
type ClassService struct {
	classRepo *repository.ClassRepository
}

func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

// CreateClass validates and stores a new class. A zero duration falls back to
// the standard session length.
func (s *ClassService) CreateClass(name, instructor string, startTime time.Time, durationMinutes, capacity int, location string) (*models.YogaClass, error) {
	if err := validation.ValidateName("name", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("instructor", instructor); err != nil {
		return nil, err
	}
	if err := validation.ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	if !startTime.After(time.Now()) {
		return nil, ErrPastStartTime
	}
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultClassDuration
	}

	class := &models.YogaClass{
		Name:       name,
		Instructor: instructor,
		DateTime:   startTime,
		Duration:   durationMinutes,
		Capacity:   capacity,
		Location:   location,
	}
	if _, err := s.classRepo.CreateClass(class); err != nil {
		return nil, err
	}
	return class, nil
}

// GetClass returns a single class, or ErrClassNotFound.
func (s *ClassService) GetClass(classID int64) (*models.YogaClass, error) {
	class, err := s.classRepo.GetClassByID(classID)
	if err != nil {
		return nil, fmt.Errorf("failed to load class: %w", err)
	}
	if class == nil {
		return nil, repository.ErrClassNotFound
	}
	return class, nil
}

// ListUpcomingClasses returns future active classes with their current
// booking counts, earliest start first.
func (s *ClassService) ListUpcomingClasses() ([]models.ClassSummary, error) {
	classes, err := s.classRepo.ListUpcomingActive(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

// CancelClass soft-deletes a class and releases every active booking on it.
// Returns how many bookings were released.
func (s *ClassService) CancelClass(ctx context.Context, classID int64) (int64, error) {
	released, err := s.classRepo.CancelClass(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to cancel class: %w", err)
	}
	return released, nil
}
