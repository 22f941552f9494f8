package service

import (
	"context"
	"time"

	"github.com/lightningsoon/KeyMinder/models"
)

// AuthService manages accounts and their sessions.
type AuthService interface {
	// Register creates an account and opens its first session.
	Register(ctx context.Context, credentials models.Credentials) (models.Session, error)
	// Login verifies credentials and opens a new session.
	Login(ctx context.Context, credentials models.Credentials) (models.Session, error)
	Logout(ctx context.Context, principal models.Principal) error
	Me(ctx context.Context, principal models.Principal) (models.User, error)
	// ChangePassword replaces the login password and keeps every entry
	// readable under it. Other sessions of the user are closed.
	ChangePassword(ctx context.Context, principal models.Principal, request models.ChangePasswordRequest) error

	CreateToken(ctx context.Context, user models.User, sessionID string) (models.Token, error)
	// ParseToken validates a raw JWT and checks that its session is still open.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// EntryService manages the password entries of the authenticated user.
type EntryService interface {
	// List returns the user's entries with secret fields masked.
	List(ctx context.Context, principal models.Principal) ([]models.PasswordEntry, error)
	// Get returns one entry with its secret fields decrypted.
	Get(ctx context.Context, principal models.Principal, entryID string) (models.PasswordEntry, error)
	Create(ctx context.Context, principal models.Principal, entry models.PasswordEntry) (models.PasswordEntry, error)
	Update(ctx context.Context, principal models.Principal, entryID string, update models.EntryUpdate) (models.PasswordEntry, error)
	Delete(ctx context.Context, principal models.Principal, entryID string) error
}

// EntryServiceWrapper defines middleware composition for EntryService.
// Implementations wrap an existing EntryService to add behavior such as
// validation.
type EntryServiceWrapper interface {
	Wrap(EntryService) EntryService
}

// GeneratorService produces random passwords and passphrases.
type GeneratorService interface {
	Password(ctx context.Context, options models.GeneratorOptions) (string, error)
	Passphrase(ctx context.Context, options models.PassphraseOptions) (string, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// HealthService reports whether the service dependencies are reachable.
type HealthService interface {
	Check(ctx context.Context) error
}

// SessionStore keeps the entry secret of every open session.
type SessionStore interface {
	Put(sessionID, userID, secret string, expiresAt time.Time)
	Secret(sessionID, userID string) (string, error)
	Exists(sessionID, userID string) bool
	Close(sessionID string)
	CloseUser(userID, keepSessionID string) int
}

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
