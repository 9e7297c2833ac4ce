package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/models"
)

// ErrEmailExists is returned when an insert races another registration for
// the same address into the unique email constraint
var ErrEmailExists = errors.New("email already exists")

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new unverified user with a fresh verification token
func (r *UserRepository) CreateUser(name, surname, email, passwordHash, token string, tokenExpiry time.Time) (*models.User, error) {
	query := `
		INSERT INTO users (name, surname, email, password_hash, is_verified, verification_token, token_expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, surname, email, passwordHash, false, token, tokenExpiry)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:                id,
		Name:              name,
		Surname:           surname,
		Email:             email,
		PasswordHash:      passwordHash,
		IsVerified:        false,
		VerificationToken: token,
		TokenExpiry:       tokenExpiry,
	}, nil
}

const userColumns = "id, name, surname, email, password_hash, is_verified, verification_token, token_expiry"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var token sql.NullString
	var expiry sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.PasswordHash,
		&user.IsVerified,
		&token,
		&expiry,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.VerificationToken = token.String
	if expiry.Valid {
		user.TokenExpiry = expiry.Time
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address; nil when absent
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID; nil when absent
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByToken retrieves the user holding an outstanding token; nil when absent
func (r *UserRepository) GetUserByToken(token string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE verification_token = ?"
	return scanUser(r.db.QueryRow(query, token))
}

// SetVerified marks the user verified and clears any outstanding token
func (r *UserRepository) SetVerified(userID int64) error {
	query := "UPDATE users SET is_verified = ?, verification_token = NULL, token_expiry = NULL WHERE id = ?"
	if _, err := r.db.Exec(query, true, userID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// UpdateToken replaces the user's outstanding token, invalidating any prior one
func (r *UserRepository) UpdateToken(userID int64, token string, expiry time.Time) error {
	query := "UPDATE users SET verification_token = ?, token_expiry = ? WHERE id = ?"
	if _, err := r.db.Exec(query, token, expiry, userID); err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and consumes the reset token
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, verification_token = NULL, token_expiry = NULL WHERE id = ?"
	if _, err := r.db.Exec(query, passwordHash, userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CountUsers returns the total number of accounts
func (r *UserRepository) CountUsers() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
