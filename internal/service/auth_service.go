package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/security"
)

var (
	ErrEmailTaken            = errors.New("an account with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrNotVerified           = errors.New("account has not been verified")
	ErrInvalidToken          = errors.New("invalid verification token")
	ErrTokenExpired          = errors.New("verification token has expired")
	ErrAlreadyVerified       = errors.New("account is already verified")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
)

const (
	// VerificationTokenTTL is how long an emailed verification link stays valid.
	VerificationTokenTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password reset link stays valid.
	ResetTokenTTL = time.Hour
)

// AuthService handles registration, verification and login.
type AuthService struct {
	userRepo *repository.UserRepository
	email    *EmailService
	jwt      *security.JWTManager
}

func NewAuthService(userRepo *repository.UserRepository, email *EmailService, jwt *security.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, email: email, jwt: jwt}
}

// Register creates a new unverified account and emails its verification link.
// Registering again with the email of an existing unverified account does not
// create a second row: it rotates that account's token and resends the link.
func (s *AuthService) Register(ctx context.Context, name, surname, email, password string) (*models.User, error) {
	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, ErrEmailTaken
		}
		token, err := security.GenerateToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate verification token: %w", err)
		}
		if err := s.userRepo.UpdateToken(existing.ID, token, time.Now().Add(VerificationTokenTTL)); err != nil {
			return nil, fmt.Errorf("failed to refresh verification token: %w", err)
		}
		if err := s.email.SendVerificationEmail(ctx, existing.Email, existing.Name, token); err != nil {
			log.Printf("Failed to send verification email to %s: %v", existing.Email, err)
		}
		existing.VerificationToken = token
		return existing, nil
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := security.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	user, err := s.userRepo.CreateUser(name, surname, email, passwordHash, token, time.Now().Add(VerificationTokenTTL))
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.email.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		// The account exists either way; the user can ask for a resend.
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	return user, nil
}

// Verify marks the account holding the token as verified. An expired token is
// left in place so a resend can find the account it belongs to.
func (s *AuthService) Verify(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetUserByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if user.TokenExpired(time.Now()) {
		return nil, ErrTokenExpired
	}
	if err := s.userRepo.SetVerified(user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark account verified: %w", err)
	}
	user.IsVerified = true
	user.VerificationToken = ""
	user.TokenExpiry = time.Time{}
	return user, nil
}

// ResendVerification issues a fresh token for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, err := security.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	if err := s.userRepo.UpdateToken(user.ID, token, time.Now().Add(VerificationTokenTTL)); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	if err := s.email.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Authenticate checks credentials and returns the user plus a signed session
// token. The error never distinguishes a wrong password from an unknown email.
func (s *AuthService) Authenticate(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	token, err := s.jwt.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return user, token, nil
}

// RequestPasswordReset stores a short-lived reset token and emails it. It
// reports success for unknown emails so the endpoint cannot be used to probe
// which addresses have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil || !user.IsVerified {
		log.Printf("Ignoring password reset request for %s", email)
		return nil
	}

	token, err := security.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.userRepo.UpdateToken(user.ID, token, time.Now().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.email.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the account holding a live reset
// token, then invalidates the token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	user, err := s.userRepo.GetUserByToken(token)
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil || user.TokenExpired(time.Now()) {
		return ErrInvalidOrExpiredToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
