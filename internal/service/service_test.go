package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/security"
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

func newTestAuthService(t *testing.T, db *database.DB) (*AuthService, *repository.UserRepository) {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	// No from-address configured, so sends are logged no-ops
	email, err := NewEmailService("", "", "", "http://localhost:8080", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}
	jwt := security.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(userRepo, email, jwt), userRepo
}
