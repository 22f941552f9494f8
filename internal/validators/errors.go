package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUsername  = errors.New("username must be 1 to 64 characters without spaces")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 256 characters")
	ErrWeakPassword     = errors.New("password is too weak")
	ErrSamePassword     = errors.New("new password must differ from the old one")
	ErrInvalidEmail     = errors.New("invalid email")

	ErrEmptyTitle         = errors.New("title is required")
	ErrEmptyEntryUsername = errors.New("username is required")
	ErrEmptyEntryPassword = errors.New("password is required")
	ErrNoFieldsToUpdate   = errors.New("at least one field must be provided for update")

	ErrInvalidLength    = errors.New("length must be between 4 and 128")
	ErrInvalidWordCount = errors.New("words must be between 3 and 20")
)
