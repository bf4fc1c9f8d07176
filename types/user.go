package types

import "time"

// User represents an account in the system.
// It contains identity, presentation, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. Unique across accounts.
	Email string `json:"email" db:"email"`

	// Avatar is the URL of the user's avatar image. Derived from the
	// email via gravatar at registration and replaced when the user
	// uploads a custom image.
	Avatar string `json:"avatar" db:"avatar"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
