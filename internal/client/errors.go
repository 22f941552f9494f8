package client

import "errors"

var (
	ErrNoSession        = errors.New("no saved session")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyInput       = errors.New("input must not be empty")
	ErrAborted          = errors.New("aborted")
)
