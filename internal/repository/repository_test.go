package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	user, err := repo.CreateUser("Test", "User", email, "hash", "", time.Time{})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestClass(t *testing.T, db *database.DB, start time.Time, capacity int) *models.YogaClass {
	t.Helper()

	repo := NewClassRepository(db)
	class := &models.YogaClass{
		Name:       "Vinyasa Flow",
		Instructor: "Jantine",
		DateTime:   start,
		Duration:   75,
		Capacity:   capacity,
		Location:   "Main Studio",
	}
	if _, err := repo.CreateClass(class); err != nil {
		t.Fatalf("Failed to create test class: %v", err)
	}
	return class
}
