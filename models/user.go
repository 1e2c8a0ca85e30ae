package models

import "time"

// User represents an account entity used for authentication.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// ID is the unique identifier of the user, generated server-side
	// on creation (UUID string).
	ID string `json:"id,omitempty"`

	// Username is the unique user identifier used during authentication.
	// Validated against an email-like pattern at registration.
	Username string `json:"username"`

	// TelephoneNumber is the user's contact number: digits with an
	// optional leading "+".
	TelephoneNumber string `json:"telephone_number"`

	// PasswordHash stores the encoded credential hash produced by the
	// credential hasher. This value MUST be a derived value (KDF output),
	// never plaintext. It is never serialized to JSON.
	PasswordHash string `json:"-"`

	// ResetCode is the pending single-use password-reset code, nil when
	// no reset is pending. It is never serialized to JSON.
	ResetCode *string `json:"-"`

	// ResetCodeExpiresAt bounds the lifetime of ResetCode when a reset
	// code TTL is configured; nil means the pending code does not expire.
	ResetCodeExpiresAt *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
