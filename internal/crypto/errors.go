// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrMalformedBlob is returned when a stored secret does not follow the
	// salt:iv:ciphertext framing (optionally prefixed by a version header)
	// or one of its components has an invalid encoding or size.
	ErrMalformedBlob = errors.New("malformed stored secret")

	// ErrDecryptionFailed is returned for every failure of the decryption
	// step itself: bad padding, authentication tag mismatch, or plaintext
	// that is not valid UTF-8. Callers cannot tell a wrong secret from a
	// tampered blob.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrCryptoBackendUnavailable is returned when the random source or the
	// block cipher could not be used.
	ErrCryptoBackendUnavailable = errors.New("crypto backend unavailable")

	// ErrMalformedHash is returned when a stored password hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
)
