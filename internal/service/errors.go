package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrSessionExpired          = errors.New("session expired, log in again")

	// ErrEntryUndecryptable hides the cause of a failed decryption from
	// callers: the blob is malformed or the key is wrong.
	ErrEntryUndecryptable = errors.New("cannot decrypt entry")

	ErrUnsupportedKeyMode    = errors.New("unsupported key mode")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrStorageUnavailable    = errors.New("storage unavailable")
)
