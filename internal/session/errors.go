package session

import "errors"

// ErrSessionNotFound is returned when a session id is unknown, expired,
// or belongs to another user.
var ErrSessionNotFound = errors.New("session not found or expired")
