// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Format identifies the cipher construction of a stored secret.
type Format int

const (
	// FormatLegacy is the unversioned salt:iv:ciphertext framing: AES-256-CBC
	// with PKCS#7 padding and LegacyIterations.
	FormatLegacy Format = 0
	// FormatCBC is AES-256-CBC with an explicit iteration count in the header.
	FormatCBC Format = 1
	// FormatGCM is AES-256-GCM with a 12-byte nonce; the header is bound to
	// the ciphertext as additional data.
	FormatGCM Format = 2
)

const (
	blobSeparator   = ":"
	headerPrefix    = "v"
	headerSeparator = "."
	gcmNonceSize    = 12
	gcmTagSize      = 16
)

// ParseFormat maps a configuration value to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gcm", "":
		return FormatGCM, nil
	case "cbc":
		return FormatCBC, nil
	case "legacy":
		return FormatLegacy, nil
	}
	return 0, fmt.Errorf("unknown cipher format %q", name)
}

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatCBC:
		return "cbc"
	case FormatGCM:
		return "gcm"
	}
	return "unknown"
}

// ivSize returns the IV (or nonce) length the format uses.
func (f Format) ivSize() int {
	if f == FormatGCM {
		return gcmNonceSize
	}
	return aes.BlockSize
}

// StoredSecret is the parsed form of an encrypted field.
//
// Text form:
//
//	legacy:    <salt-hex>:<iv-hex>:<ciphertext-hex>
//	versioned: v<format>.<iterations>:<salt-hex>:<iv-hex>:<ciphertext-hex>
//
// Hex never contains "v", so the two forms cannot be confused.
type StoredSecret struct {
	Format     Format
	Iterations int
	Salt       []byte
	IV         []byte
	Ciphertext []byte
}

// header returns the version header, or "" for the legacy form.
func (s StoredSecret) header() string {
	if s.Format == FormatLegacy {
		return ""
	}
	return headerPrefix + strconv.Itoa(int(s.Format)) + headerSeparator + strconv.Itoa(s.Iterations)
}

// String renders the stored secret in its text form with lowercase hex.
func (s StoredSecret) String() string {
	parts := []string{
		hex.EncodeToString(s.Salt),
		hex.EncodeToString(s.IV),
		hex.EncodeToString(s.Ciphertext),
	}
	if h := s.header(); h != "" {
		parts = append([]string{h}, parts...)
	}
	return strings.Join(parts, blobSeparator)
}

// ParseStoredSecret parses the text form of a stored secret. Legacy blobs are
// returned with Iterations set to zero; the caller decides the legacy work
// factor.
func ParseStoredSecret(blob string) (StoredSecret, error) {
	var s StoredSecret

	body := blob
	if strings.HasPrefix(blob, headerPrefix) {
		header, rest, ok := strings.Cut(blob, blobSeparator)
		if !ok {
			return s, fmt.Errorf("%w: missing components", ErrMalformedBlob)
		}
		format, iterations, err := parseHeader(header)
		if err != nil {
			return s, err
		}
		if format != FormatCBC && format != FormatGCM {
			return s, fmt.Errorf("%w: unknown format %d", ErrMalformedBlob, format)
		}
		s.Format, s.Iterations = format, iterations
		body = rest
	}

	parts := strings.Split(body, blobSeparator)
	if len(parts) != 3 {
		return s, fmt.Errorf("%w: expected 3 components, got %d", ErrMalformedBlob, len(parts))
	}

	decoded := make([][]byte, len(parts))
	for i, part := range parts {
		if part == "" {
			return s, fmt.Errorf("%w: empty component", ErrMalformedBlob)
		}
		b, err := hex.DecodeString(part)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrMalformedBlob, err)
		}
		decoded[i] = b
	}
	s.Salt, s.IV, s.Ciphertext = decoded[0], decoded[1], decoded[2]

	if len(s.IV) != s.Format.ivSize() {
		return s, fmt.Errorf("%w: iv must be %d bytes", ErrMalformedBlob, s.Format.ivSize())
	}
	switch s.Format {
	case FormatGCM:
		if len(s.Ciphertext) < gcmTagSize {
			return s, fmt.Errorf("%w: ciphertext shorter than tag", ErrMalformedBlob)
		}
	default:
		if len(s.Ciphertext)%aes.BlockSize != 0 {
			return s, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrMalformedBlob)
		}
	}

	return s, nil
}

// parseHeader parses "v<format>.<iterations>".
func parseHeader(header string) (Format, int, error) {
	formatPart, iterPart, ok := strings.Cut(strings.TrimPrefix(header, headerPrefix), headerSeparator)
	if !ok {
		return 0, 0, fmt.Errorf("%w: bad header %q", ErrMalformedBlob, header)
	}
	format, err := strconv.Atoi(formatPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad format in header", ErrMalformedBlob)
	}
	iterations, err := strconv.Atoi(iterPart)
	if err != nil || iterations < 1 || iterations > maxIterations {
		return 0, 0, fmt.Errorf("%w: bad iteration count in header", ErrMalformedBlob)
	}
	return Format(format), iterations, nil
}
