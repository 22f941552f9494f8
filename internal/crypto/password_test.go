// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(WithHashIterations(testIterations))

	stored, err := h.Hash("pw-one")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "v1.1000:"))

	ok, err := h.Verify("pw-one", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("pw-two", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltedPerCall(t *testing.T) {
	h := NewPasswordHasher(WithHashIterations(testIterations))

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHasher_VerifyLegacyForm(t *testing.T) {
	h := NewPasswordHasher(WithHashIterations(testIterations), WithLegacyHashIterations(50))

	salt := []byte("0123456789abcdef")
	digest := DeriveKey("old-password", salt, 50, KeySize)
	stored := hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest)

	ok, err := h.Verify("old-password", stored)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, h.NeedsRehash(stored))
}

func TestHasher_NeedsRehash(t *testing.T) {
	weak, err := NewPasswordHasher(WithHashIterations(testIterations)).Hash("pw")
	require.NoError(t, err)

	strong := NewPasswordHasher(WithHashIterations(testIterations * 2))
	assert.True(t, strong.NeedsRehash(weak))

	fresh, err := strong.Hash("pw")
	require.NoError(t, err)
	assert.False(t, strong.NeedsRehash(fresh))
	assert.False(t, strong.NeedsRehash("garbage"))
}

func TestHasher_Malformed(t *testing.T) {
	h := NewPasswordHasher(WithHashIterations(testIterations))

	for _, stored := range []string{"", "nocolon", "zz:zz", "a:b:c", "v2.1000:00:00", "v1.x:00:00", "v1.1000"} {
		_, err := h.Verify("pw", stored)
		assert.ErrorIs(t, err, ErrMalformedHash, stored)
	}
}

func TestHasher_RandomFailure(t *testing.T) {
	h := NewPasswordHasher(WithHashRandom(failingReader{}))

	_, err := h.Hash("pw")
	assert.ErrorIs(t, err, ErrCryptoBackendUnavailable)
}
