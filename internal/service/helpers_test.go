package service

import (
	"github.com/lightningsoon/KeyMinder/internal/crypto"
)

// Low work factors keep the real KDF fast in tests.
const (
	testIterations       = 1000
	testLegacyIterations = 100

	testPassword    = "correct-horse-battery"
	testNewPassword = "staple-orbit-lantern"
)

func newTestCipher(opts ...crypto.Option) *crypto.Cipher {
	base := []crypto.Option{
		crypto.WithIterations(testIterations),
		crypto.WithLegacyIterations(testLegacyIterations),
	}
	return crypto.NewCipher(append(base, opts...)...)
}

func newTestHasher(iterations int) *crypto.Hasher {
	return crypto.NewPasswordHasher(
		crypto.WithHashIterations(iterations),
		crypto.WithLegacyHashIterations(testLegacyIterations),
	)
}

func ptr[T any](v T) *T {
	return &v
}
