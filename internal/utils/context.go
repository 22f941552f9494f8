// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP response writing, identifier generation, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"
	"time"

	"github.com/lightningsoon/KeyMinder/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the user identifier in the context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, "0190b6d2-...")
var UserIDCtxKey = contextKey("userID")

// SessionIDCtxKey is the key used to store the session identifier (the
// token's jti) in the context.
var SessionIDCtxKey = contextKey("sessionID")

// sessionExpiryCtxKey holds the expiry of the caller's session.
var sessionExpiryCtxKey = contextKey("sessionExpiresAt")

// GetUserIDFromContext retrieves the user identifier from the context.
//
// Returns the user ID and an ok flag:
//   - ok == true: value is found, is a string and is not empty
//   - ok == false: value is missing, empty or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// GetSessionIDFromContext retrieves the session identifier from the context.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDCtxKey).(string)
	return sessionID, ok && sessionID != ""
}

// WithPrincipal stores both identifiers of an authenticated caller.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, p.UserID)
	ctx = context.WithValue(ctx, sessionExpiryCtxKey, p.ExpiresAt)
	return context.WithValue(ctx, SessionIDCtxKey, p.SessionID)
}

// GetPrincipalFromContext returns the authenticated caller stored by
// WithPrincipal.
func GetPrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return models.Principal{}, false
	}
	sessionID, ok := GetSessionIDFromContext(ctx)
	if !ok {
		return models.Principal{}, false
	}
	expiresAt, _ := ctx.Value(sessionExpiryCtxKey).(time.Time)
	return models.Principal{UserID: userID, SessionID: sessionID, ExpiresAt: expiresAt}, true
}
