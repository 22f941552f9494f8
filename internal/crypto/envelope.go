// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"unicode/utf8"
)

// Cipher is the envelope cipher behind [SecretCipher]. A Cipher holds no key
// material and is safe for concurrent use.
type Cipher struct {
	format           Format
	iterations       int
	legacyIterations int
	random           io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithFormat selects the format used for new writes. Reads accept every format.
func WithFormat(f Format) Option {
	return func(c *Cipher) {
		c.format = f
	}
}

// WithIterations sets the PBKDF2 work factor for new versioned writes.
func WithIterations(n int) Option {
	return func(c *Cipher) {
		if n > 0 {
			c.iterations = n
		}
	}
}

// WithLegacyIterations sets the work factor assumed for unversioned blobs.
func WithLegacyIterations(n int) Option {
	return func(c *Cipher) {
		if n > 0 {
			c.legacyIterations = n
		}
	}
}

// WithRandom replaces the random source used for salts, IVs and master keys.
// Salt is always read before the IV.
func WithRandom(r io.Reader) Option {
	return func(c *Cipher) {
		if r != nil {
			c.random = r
		}
	}
}

// NewCipher returns a Cipher writing AES-256-GCM with DefaultIterations
// unless options say otherwise.
func NewCipher(opts ...Option) *Cipher {
	c := &Cipher{
		format:           FormatGCM,
		iterations:       DefaultIterations,
		legacyIterations: LegacyIterations,
		random:           rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encrypt implements [SecretCipher].
func (c *Cipher) Encrypt(plaintext, secret string) (string, error) {
	salt, err := readRandom(c.random, SaltSize)
	if err != nil {
		return "", err
	}
	iv, err := readRandom(c.random, c.format.ivSize())
	if err != nil {
		return "", err
	}

	s := StoredSecret{Format: c.format, Iterations: c.iterations, Salt: salt, IV: iv}
	if s.Format == FormatLegacy {
		s.Iterations = 0
	}

	key := DeriveKey(secret, salt, c.iterationsFor(s), KeySize)
	defer wipe(key)

	switch s.Format {
	case FormatGCM:
		s.Ciphertext, err = sealGCM(key, iv, []byte(plaintext), []byte(s.header()))
	default:
		s.Ciphertext, err = sealCBC(key, iv, []byte(plaintext))
	}
	if err != nil {
		return "", err
	}

	return s.String(), nil
}

// Decrypt implements [SecretCipher].
func (c *Cipher) Decrypt(blob, secret string) (string, error) {
	s, err := ParseStoredSecret(blob)
	if err != nil {
		return "", err
	}

	key := DeriveKey(secret, s.Salt, c.iterationsFor(s), KeySize)
	defer wipe(key)

	var plaintext []byte
	switch s.Format {
	case FormatGCM:
		plaintext, err = openGCM(key, s.IV, s.Ciphertext, []byte(s.header()))
	default:
		plaintext, err = openCBC(key, s.IV, s.Ciphertext)
		if err == nil && !utf8.Valid(plaintext) {
			err = ErrDecryptionFailed
		}
	}
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// NeedsUpgrade implements [SecretCipher]. Unparseable blobs never need an
// upgrade: there is nothing to re-encrypt.
func (c *Cipher) NeedsUpgrade(blob string) bool {
	s, err := ParseStoredSecret(blob)
	if err != nil {
		return false
	}
	if s.Format != c.format {
		return true
	}
	return s.Format != FormatLegacy && s.Iterations < c.iterations
}

func (c *Cipher) iterationsFor(s StoredSecret) int {
	if s.Format == FormatLegacy {
		return c.legacyIterations
	}
	return s.Iterations
}

func sealGCM(key, nonce, plaintext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, additional), nil
}

func openGCM(key, nonce, ciphertext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoBackendUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoBackendUnavailable, err)
	}
	return aead, nil
}

func sealCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoBackendUnavailable, err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

func openCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoBackendUnavailable, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrMalformedBlob
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad checks the whole padding run without branching on its bytes.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrDecryptionFailed
	}
	want := bytes.Repeat([]byte{byte(n)}, n)
	if subtle.ConstantTimeCompare(data[len(data)-n:], want) != 1 {
		return nil, ErrDecryptionFailed
	}
	return data[:len(data)-n], nil
}
