// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client-side transport for the KeyMinder REST
// API.
//
// The primary abstraction is [ServerAdapter], which decouples the command-line
// client from the underlying protocol. The package ships an HTTP/REST
// implementation built on resty ([NewHTTPServerAdapter]).
//
// Error responses are mapped from HTTP status codes by mapHTTPError so that
// callers can use [errors.Is] for transport-agnostic error handling (e.g.
// [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/lightningsoon/KeyMinder/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the KeyMinder server.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account. On success the returned token is stored
	// via SetToken.
	Register(ctx context.Context, credentials models.Credentials) (models.AuthResponse, error)

	// Login authenticates and stores the returned token via SetToken.
	Login(ctx context.Context, credentials models.Credentials) (models.AuthResponse, error)

	// Logout closes the server-side session and clears the stored token.
	Logout(ctx context.Context) error

	// Me returns the account of the current token.
	Me(ctx context.Context) (models.User, error)

	// ChangePassword replaces the login password. The current token stays
	// valid; other sessions of the account are closed by the server.
	ChangePassword(ctx context.Context, request models.ChangePasswordRequest) error

	// ListEntries returns all entries with their secrets masked.
	ListEntries(ctx context.Context) ([]models.PasswordEntry, error)

	// GetEntry returns one entry with its secrets decrypted.
	GetEntry(ctx context.Context, entryID string) (models.PasswordEntry, error)

	CreateEntry(ctx context.Context, entry models.PasswordEntry) (models.PasswordEntry, error)
	UpdateEntry(ctx context.Context, entryID string, update models.EntryUpdate) (models.PasswordEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error

	GeneratePassword(ctx context.Context, options models.GeneratorOptions) (string, error)
	GeneratePassphrase(ctx context.Context, options models.PassphraseOptions) (string, error)

	// Version returns the server build version.
	Version(ctx context.Context) (string, error)

	// Health reports the server status. A 503 response is returned as a
	// status, not as an error.
	Health(ctx context.Context) (models.HealthResponse, error)
}
