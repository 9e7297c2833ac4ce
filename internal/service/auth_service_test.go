package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegisterAndVerifyAndLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, userRepo := newTestAuthService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}
	if user.IsVerified {
		t.Error("new account should start unverified")
	}
	if !user.HasToken() {
		t.Fatal("new account has no verification token")
	}
	if user.PasswordHash == "secret-pass" {
		t.Error("password stored in plain text")
	}

	// Login before verification is refused
	if _, _, err := svc.Authenticate("anna@example.com", "secret-pass"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Authenticate() unverified = %v, want ErrNotVerified", err)
	}

	verified, err := svc.Verify(user.VerificationToken)
	if err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
	if !verified.IsVerified {
		t.Error("Verify() did not mark the account verified")
	}

	got, token, err := svc.Authenticate("anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Authenticate() = %v, want nil", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate() user = %d, want %d", got.ID, user.ID)
	}
	if token == "" {
		t.Error("Authenticate() returned empty session token")
	}

	// Stored state agrees
	stored, err := userRepo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() = %v, want nil", err)
	}
	if !stored.IsVerified || stored.HasToken() {
		t.Errorf("stored user = %+v, want verified with no token", stored)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	first, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}

	// Registering again while unverified rotates the token, no second row
	again, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Register() repeat while unverified = %v, want nil", err)
	}
	if again.ID != first.ID {
		t.Errorf("repeat registration created a new account: %d vs %d", again.ID, first.ID)
	}
	if again.VerificationToken == first.VerificationToken {
		t.Error("repeat registration did not rotate the token")
	}
	// The old link is dead
	if _, err := svc.Verify(first.VerificationToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() with rotated-out token = %v, want ErrInvalidToken", err)
	}

	if _, err := svc.Verify(again.VerificationToken); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}

	// Once verified the address is taken for good
	if _, err := svc.Register(ctx, "Someone", "Else", "anna@example.com", "other-pass"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register() on verified email = %v, want ErrEmailTaken", err)
	}
}

func TestVerifyTokenEdgeCases(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, userRepo := newTestAuthService(t, db)
	ctx := context.Background()

	if _, err := svc.Verify(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(\"\") = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Verify("no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() unknown token = %v, want ErrInvalidToken", err)
	}

	user, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}

	// Expire the token; verification fails but the token stays attached so a
	// resend can still find the account
	if err := userRepo.UpdateToken(user.ID, user.VerificationToken, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("UpdateToken() = %v, want nil", err)
	}
	if _, err := svc.Verify(user.VerificationToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() expired token = %v, want ErrTokenExpired", err)
	}

	if err := svc.ResendVerification(ctx, "anna@example.com"); err != nil {
		t.Fatalf("ResendVerification() = %v, want nil", err)
	}
	refreshed, err := userRepo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() = %v, want nil", err)
	}
	if refreshed.VerificationToken == user.VerificationToken {
		t.Error("ResendVerification() did not rotate the token")
	}

	if _, err := svc.Verify(refreshed.VerificationToken); err != nil {
		t.Fatalf("Verify() after resend = %v, want nil", err)
	}
	// A verified account cannot be verified twice or get another resend
	if err := svc.ResendVerification(ctx, "anna@example.com"); !errors.Is(err, ErrAlreadyVerified) {
		t.Errorf("ResendVerification() on verified account = %v, want ErrAlreadyVerified", err)
	}
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, _ := newTestAuthService(t, db)

	err := svc.ResendVerification(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ResendVerification() = %v, want ErrUserNotFound", err)
	}
}

func TestAuthenticateBadCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}
	if _, err := svc.Verify(user.VerificationToken); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}

	// Unknown email and wrong password report the same error
	if _, _, err := svc.Authenticate("nobody@example.com", "secret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() unknown email = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Authenticate("anna@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, userRepo := newTestAuthService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "old-password")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}
	if _, err := svc.Verify(user.VerificationToken); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}

	// Unknown address succeeds without revealing anything
	if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset() unknown email = %v, want nil", err)
	}

	if err := svc.RequestPasswordReset(ctx, "anna@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset() = %v, want nil", err)
	}
	stored, err := userRepo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() = %v, want nil", err)
	}
	if !stored.HasToken() {
		t.Fatal("reset token was not stored")
	}

	if err := svc.ResetPassword("wrong-token", "new-password"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("ResetPassword() wrong token = %v, want ErrInvalidOrExpiredToken", err)
	}

	if err := svc.ResetPassword(stored.VerificationToken, "new-password"); err != nil {
		t.Fatalf("ResetPassword() = %v, want nil", err)
	}

	// Old password dead, new one works, token consumed
	if _, _, err := svc.Authenticate("anna@example.com", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() old password = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Authenticate("anna@example.com", "new-password"); err != nil {
		t.Errorf("Authenticate() new password = %v, want nil", err)
	}
	if err := svc.ResetPassword(stored.VerificationToken, "another-password"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("ResetPassword() reused token = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	svc, userRepo := newTestAuthService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Anna", "Bloom", "anna@example.com", "old-password")
	if err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}
	if _, err := svc.Verify(user.VerificationToken); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
	if err := userRepo.UpdateToken(user.ID, "stale-reset", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("UpdateToken() = %v, want nil", err)
	}

	if err := svc.ResetPassword("stale-reset", "new-password"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("ResetPassword() expired token = %v, want ErrInvalidOrExpiredToken", err)
	}
}
