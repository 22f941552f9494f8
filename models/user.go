package models

import "time"

// KeyMode selects what secret encrypts a user's entries.
type KeyMode string

const (
	// KeyModeDirect derives entry keys from the login password itself.
	KeyModeDirect KeyMode = "direct"

	// KeyModeMaster derives entry keys from a random master key that is
	// stored wrapped under the login password.
	KeyModeMaster KeyMode = "master"
)

// Valid reports whether m is a known key mode.
func (m KeyMode) Valid() bool {
	return m == KeyModeDirect || m == KeyModeMaster
}

// User represents an account entity used for authentication and authorization.
// Credential-related fields are never exposed via JSON.
type User struct {
	// ID is the unique identifier of the user (UUID).
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// Email is an optional contact address.
	Email *string `json:"email,omitempty"`

	// PasswordHash is the salted PBKDF2 hash of the login password.
	PasswordHash string `json:"-"`

	// KeyMode records which key variant protects the user's entries.
	KeyMode KeyMode `json:"-"`

	// WrappedMasterKey is the master key encrypted under the login password.
	// Nil in direct mode.
	WrappedMasterKey *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
