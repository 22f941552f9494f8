package models

import "time"

// MessageResponse is the body of error responses and plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// UserResponse is returned by the current-user endpoint.
type UserResponse struct {
	User User `json:"user"`
}

// EntryResponse wraps a single entry.
type EntryResponse struct {
	Message       string        `json:"message,omitempty"`
	PasswordEntry PasswordEntry `json:"passwordItem"`
}

// EntriesResponse wraps the user's entry list.
type EntriesResponse struct {
	PasswordEntries []PasswordEntry `json:"passwordItems"`
}

// GeneratedPasswordResponse carries a generated password.
type GeneratedPasswordResponse struct {
	Password string `json:"password"`
}

// GeneratedPassphraseResponse carries a generated passphrase.
type GeneratedPassphraseResponse struct {
	Passphrase string `json:"passphrase"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
