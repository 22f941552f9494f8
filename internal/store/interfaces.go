package store

import (
	"context"
	"time"

	"github.com/lightningsoon/KeyMinder/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	// UpdateUserCredentials stores a new password hash, key mode and wrapped
	// master key for user.ID.
	UpdateUserCredentials(ctx context.Context, user models.User) error
}

// EntryRepository persists password entries. Every method is scoped to the
// owning user: an entry of another user is reported as [ErrEntryNotFound].
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry models.PasswordEntry) (models.PasswordEntry, error)
	GetEntry(ctx context.Context, userID, entryID string) (models.PasswordEntry, error)
	ListEntries(ctx context.Context, userID string) ([]models.PasswordEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, update models.EntryUpdate) (models.PasswordEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	TouchEntry(ctx context.Context, userID, entryID string, usedAt time.Time) error
	// RewriteEntrySecrets replaces the stored password and notes without
	// touching updated_at. Used when secrets are re-encrypted, not edited.
	// The write only applies while the row still holds the secrets of
	// stored, otherwise it returns ErrEntryChanged.
	RewriteEntrySecrets(ctx context.Context, userID string, stored models.PasswordEntry, password string, notes *string) error
}

// Transactor runs fn in a single database transaction. Repository calls
// made with the context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrorClassificator decides how a failed database operation is handled.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
