package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes, the password hash and the email
// verification state. Sensitive fields must never be exposed outside trusted
// boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// FullName is the display name of the user.
	FullName string `json:"fullName"`

	// Email is the unique address the account is registered with.
	// One-time verification codes are sent to it.
	Email string `json:"email"`

	// Password carries the plain-text password on the way in (registration
	// and login requests). It is never persisted and never serialized back.
	Password string `json:"password,omitempty"`

	// PasswordHash stores the bcrypt hash of the password.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// ProfileImageURL is an optional link to the user's avatar.
	ProfileImageURL *string `json:"profileImageUrl"`

	// Activated reports whether the email address was verified.
	Activated bool `json:"activated"`

	// OTPCode is the pending one-time verification code.
	// Empty when no code is outstanding.
	OTPCode string `json:"-"`

	// OTPExpiresAt is the absolute expiry instant of OTPCode.
	// Nil when no code is outstanding.
	OTPExpiresAt *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Public returns a copy of u stripped of the password, its hash and the
// pending verification code.
func (u User) Public() User {
	u.Password = ""
	u.PasswordHash = ""
	u.OTPCode = ""
	u.OTPExpiresAt = nil
	return u
}

// HasPendingCode reports whether u carries an outstanding verification code.
func (u User) HasPendingCode() bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil
}
