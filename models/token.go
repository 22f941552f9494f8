package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT token with convenience accessors for authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// The "sub" claim carries the user ID and the "jti" claim carries the
// session ID under which the server keeps the user's entry secret.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is a cached copy of the "sub" claim.
	UserID string `json:"-"`

	// SessionID is a cached copy of the "jti" claim.
	SessionID string `json:"-"`
}

// GetUserID extracts the user identifier from the token's "sub" claim.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if userID == "" {
		return "", errors.New("token has empty subject")
	}
	return userID, nil
}

// GetSessionID extracts the session identifier from the token's "jti" claim.
func (t *Token) GetSessionID() (string, error) {
	if t.ID == "" {
		return "", errors.New("token has empty jti")
	}
	return t.ID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID    string
	SessionID string

	// ExpiresAt is when the caller's token and session expire.
	ExpiresAt time.Time
}
