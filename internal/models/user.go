package models

import "time"

// User represents a registered account. An unverified account carries an
// opaque verification token with an expiry; verifying clears both. The
// password-reset flow reuses the same token field with a shorter expiry.
type User struct {
	ID           int64
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	IsVerified   bool

	// VerificationToken is "" and TokenExpiry is the zero time when no
	// token is outstanding
	VerificationToken string
	TokenExpiry       time.Time
}

// HasToken reports whether a verification or reset token is outstanding
func (u *User) HasToken() bool {
	return u.VerificationToken != ""
}

// TokenExpired reports whether the outstanding token has passed its expiry
func (u *User) TokenExpired(now time.Time) bool {
	return u.HasToken() && !u.TokenExpiry.IsZero() && now.After(u.TokenExpiry)
}
