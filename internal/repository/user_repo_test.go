package repository

import (
	"errors"
	"testing"
	"time"
)

func TestCreateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	expiry := time.Now().Add(24 * time.Hour)
	user, err := repo.CreateUser("Anna", "Bloom", "anna@example.com", "hash", "tok-123", expiry)
	if err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}
	if user.ID <= 0 {
		t.Fatalf("CreateUser() id = %d, want positive", user.ID)
	}
	if user.IsVerified {
		t.Error("new user should start unverified")
	}

	got, err := repo.GetUserByEmail("anna@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() = %v, want nil", err)
	}
	if got == nil {
		t.Fatal("GetUserByEmail() = nil, want user")
	}
	if got.Name != "Anna" || got.Surname != "Bloom" || got.VerificationToken != "tok-123" {
		t.Errorf("GetUserByEmail() = %+v", got)
	}
	if !got.HasToken() {
		t.Error("HasToken() = false, want true")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.CreateUser("Anna", "Bloom", "anna@example.com", "hash", "", time.Time{}); err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}
	_, err := repo.CreateUser("Other", "Person", "anna@example.com", "hash2", "", time.Time{})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("CreateUser() duplicate = %v, want ErrEmailExists", err)
	}
}

func TestGetUserMisses(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetUserByEmail("nobody@example.com")
	if err != nil || user != nil {
		t.Errorf("GetUserByEmail() = %+v, %v, want nil, nil", user, err)
	}
	user, err = repo.GetUserByID(9999)
	if err != nil || user != nil {
		t.Errorf("GetUserByID() = %+v, %v, want nil, nil", user, err)
	}
	user, err = repo.GetUserByToken("no-such-token")
	if err != nil || user != nil {
		t.Errorf("GetUserByToken() = %+v, %v, want nil, nil", user, err)
	}
}

func TestSetVerifiedClearsToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser("Anna", "Bloom", "anna@example.com", "hash", "tok-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}

	if err := repo.SetVerified(user.ID); err != nil {
		t.Fatalf("SetVerified() = %v, want nil", err)
	}

	got, err := repo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() = %v, want nil", err)
	}
	if !got.IsVerified {
		t.Error("IsVerified = false after SetVerified")
	}
	if got.HasToken() {
		t.Errorf("token not cleared: %q", got.VerificationToken)
	}
	if !got.TokenExpiry.IsZero() {
		t.Errorf("token expiry not cleared: %v", got.TokenExpiry)
	}

	// The spent token must not resolve anymore
	byToken, err := repo.GetUserByToken("tok-123")
	if err != nil || byToken != nil {
		t.Errorf("GetUserByToken() after verify = %+v, %v, want nil, nil", byToken, err)
	}
}

func TestUpdateToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser("Anna", "Bloom", "anna@example.com", "hash", "old-token", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}

	newExpiry := time.Now().Add(24 * time.Hour)
	if err := repo.UpdateToken(user.ID, "new-token", newExpiry); err != nil {
		t.Fatalf("UpdateToken() = %v, want nil", err)
	}

	got, err := repo.GetUserByToken("new-token")
	if err != nil {
		t.Fatalf("GetUserByToken() = %v, want nil", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("GetUserByToken() = %+v, want user %d", got, user.ID)
	}
	if got.TokenExpired(time.Now()) {
		t.Error("fresh token reported as expired")
	}
}

func TestUpdatePassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser("Anna", "Bloom", "anna@example.com", "old-hash", "reset-token", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateUser() = %v, want nil", err)
	}

	if err := repo.UpdatePassword(user.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword() = %v, want nil", err)
	}

	got, err := repo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() = %v, want nil", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}
	// The reset token is single-use
	if got.HasToken() {
		t.Errorf("token not cleared after password update: %q", got.VerificationToken)
	}
}

func TestCountUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewUserRepository(db)

	count, err := repo.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers() = %v, want nil", err)
	}
	if count != 0 {
		t.Errorf("CountUsers() = %d, want 0", count)
	}

	createTestUser(t, db, "one@example.com")
	createTestUser(t, db, "two@example.com")

	count, err = repo.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers() = %v, want nil", err)
	}
	if count != 2 {
		t.Errorf("CountUsers() = %d, want 2", count)
	}
}
