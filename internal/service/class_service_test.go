package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/validation"
)

func newTestClassService(t *testing.T) (*ClassService, *BookingService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	return NewClassService(repository.NewClassRepository(db)),
		NewBookingService(repository.NewBookingRepository(db)),
		repository.NewUserRepository(db)
}

func TestCreateClassDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _, _ := newTestClassService(t)

	class, err := svc.CreateClass("Morning Flow", "Jantine", time.Now().Add(24*time.Hour), 0, 15, "Main Studio")
	if err != nil {
		t.Fatalf("CreateClass() = %v, want nil", err)
	}
	if class.ID <= 0 {
		t.Errorf("class id = %d, want positive", class.ID)
	}
	if class.Duration != models.DefaultClassDuration {
		t.Errorf("duration = %d, want default %d", class.Duration, models.DefaultClassDuration)
	}
	if class.Status != models.StatusActive {
		t.Errorf("status = %q, want active", class.Status)
	}
}

func TestCreateClassValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _, _ := newTestClassService(t)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name       string
		className  string
		instructor string
		start      time.Time
		capacity   int
		wantErr    error
	}{
		{"past start time", "Flow", "Jantine", time.Now().Add(-time.Hour), 10, ErrPastStartTime},
		{"start time right now", "Flow", "Jantine", time.Now(), 10, ErrPastStartTime},
		{"zero capacity", "Flow", "Jantine", future, 0, nil},
		{"negative capacity", "Flow", "Jantine", future, -3, nil},
		{"empty name", "", "Jantine", future, 10, nil},
		{"empty instructor", "Flow", "", future, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClass(tt.className, tt.instructor, tt.start, 60, tt.capacity, "")
			if err == nil {
				t.Fatal("CreateClass() = nil, want error")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateClass() = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var ve validation.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("CreateClass() = %v, want ValidationError", err)
			}
		})
	}
}

func TestGetClassMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _, _ := newTestClassService(t)

	_, err := svc.GetClass(9999)
	if !errors.Is(err, repository.ErrClassNotFound) {
		t.Fatalf("GetClass(9999) = %v, want ErrClassNotFound", err)
	}
}

func TestCancelClassService(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, bookingSvc, userRepo := newTestClassService(t)
	ctx := context.Background()

	class, err := svc.CreateClass("Evening Yin", "Sofia", time.Now().Add(24*time.Hour), 60, 10, "Garden Room")
	if err != nil {
		t.Fatalf("CreateClass() = %v, want nil", err)
	}

	user, err := userRepo.CreateUser("Test", "User", "attendee@example.com", "hash", "", time.Time{})
	if err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}
	if _, err := bookingSvc.BookClass(ctx, user.ID, class.ID); err != nil {
		t.Fatalf("BookClass() = %v, want nil", err)
	}

	released, err := svc.CancelClass(ctx, class.ID)
	if err != nil {
		t.Fatalf("CancelClass() = %v, want nil", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}

	// The cancelled class is gone from the schedule
	classes, err := svc.ListUpcomingClasses()
	if err != nil {
		t.Fatalf("ListUpcomingClasses() = %v, want nil", err)
	}
	if len(classes) != 0 {
		t.Errorf("len(classes) = %d, want 0", len(classes))
	}

	// And the attendee's booking list is empty
	bookings, err := bookingSvc.ListUserBookings(user.ID)
	if err != nil {
		t.Fatalf("ListUserBookings() = %v, want nil", err)
	}
	if len(bookings) != 0 {
		t.Errorf("len(bookings) = %d, want 0", len(bookings))
	}
}
