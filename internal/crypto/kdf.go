// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the length of every derived key: AES-256.
	KeySize = 32

	// SaltSize is the length of the random salt stored next to each secret
	// and each password hash.
	SaltSize = 16

	// LegacyIterations is the PBKDF2 work factor of unversioned stored
	// secrets and password hashes.
	LegacyIterations = 10000

	// DefaultIterations is the PBKDF2 work factor used for new writes.
	DefaultIterations = 600000

	// maxIterations bounds the iteration count accepted from a stored header.
	maxIterations = 10_000_000
)

// DeriveKey stretches secret with salt into a keyLen-byte key using
// PBKDF2-HMAC-SHA256. It is deterministic: the same inputs always produce the
// same key. Both the envelope cipher and the password hasher build on it.
func DeriveKey(secret string, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(secret), salt, iterations, keyLen, sha256.New)
}

// readRandom fills a fresh n-byte slice from r.
func readRandom(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: read random: %w", ErrCryptoBackendUnavailable, err)
	}
	return buf, nil
}

// wipe zeroes key material once it is no longer needed.
func wipe(b []byte) {
	memguard.WipeBytes(b)
}
