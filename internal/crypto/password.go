// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// hashVersion is the only version of the versioned password hash form.
const hashVersion = 1

// Hasher is the PBKDF2 login password hasher behind [PasswordHasher].
//
// Text form:
//
//	versioned: v1.<iterations>:<salt-hex>:<digest-hex>
//	legacy:    <salt-hex>:<digest-hex>  (LegacyIterations)
type Hasher struct {
	iterations       int
	legacyIterations int
	random           io.Reader
}

// HasherOption configures a Hasher.
type HasherOption func(*Hasher)

// WithHashIterations sets the work factor for new hashes.
func WithHashIterations(n int) HasherOption {
	return func(h *Hasher) {
		if n > 0 {
			h.iterations = n
		}
	}
}

// WithLegacyHashIterations sets the work factor assumed for unversioned hashes.
func WithLegacyHashIterations(n int) HasherOption {
	return func(h *Hasher) {
		if n > 0 {
			h.legacyIterations = n
		}
	}
}

// WithHashRandom replaces the salt source.
func WithHashRandom(r io.Reader) HasherOption {
	return func(h *Hasher) {
		if r != nil {
			h.random = r
		}
	}
}

// NewPasswordHasher returns a Hasher using DefaultIterations for new hashes.
func NewPasswordHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{
		iterations:       DefaultIterations,
		legacyIterations: LegacyIterations,
		random:           rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type passwordHash struct {
	iterations int
	versioned  bool
	salt       []byte
	digest     []byte
}

// Hash implements [PasswordHasher].
func (h *Hasher) Hash(password string) (string, error) {
	salt, err := readRandom(h.random, SaltSize)
	if err != nil {
		return "", err
	}
	digest := DeriveKey(password, salt, h.iterations, KeySize)

	return fmt.Sprintf("v%d.%d:%s:%s",
		hashVersion, h.iterations, hex.EncodeToString(salt), hex.EncodeToString(digest)), nil
}

// Verify implements [PasswordHasher].
func (h *Hasher) Verify(password, stored string) (bool, error) {
	parsed, err := h.parse(stored)
	if err != nil {
		return false, err
	}
	digest := DeriveKey(password, parsed.salt, parsed.iterations, len(parsed.digest))
	defer wipe(digest)

	return subtle.ConstantTimeCompare(digest, parsed.digest) == 1, nil
}

// NeedsRehash implements [PasswordHasher].
func (h *Hasher) NeedsRehash(stored string) bool {
	parsed, err := h.parse(stored)
	if err != nil {
		return false
	}
	return !parsed.versioned || parsed.iterations < h.iterations
}

func (h *Hasher) parse(stored string) (passwordHash, error) {
	p := passwordHash{iterations: h.legacyIterations}

	body := stored
	if strings.HasPrefix(stored, "v") {
		header, rest, ok := strings.Cut(stored, ":")
		if !ok {
			return p, fmt.Errorf("%w: missing components", ErrMalformedHash)
		}
		version, iterPart, ok := strings.Cut(strings.TrimPrefix(header, "v"), ".")
		if !ok || version != strconv.Itoa(hashVersion) {
			return p, fmt.Errorf("%w: unsupported header %q", ErrMalformedHash, header)
		}
		iterations, err := strconv.Atoi(iterPart)
		if err != nil || iterations < 1 || iterations > maxIterations {
			return p, fmt.Errorf("%w: bad iteration count", ErrMalformedHash)
		}
		p.iterations, p.versioned = iterations, true
		body = rest
	}

	saltHex, digestHex, ok := strings.Cut(body, ":")
	if !ok || saltHex == "" || digestHex == "" || strings.Contains(digestHex, ":") {
		return p, fmt.Errorf("%w: expected salt:digest", ErrMalformedHash)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	p.salt, p.digest = salt, digest

	return p, nil
}
