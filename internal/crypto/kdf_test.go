package crypto

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)

	k1 := DeriveKey("correct horse battery staple", salt, 1000, KeySize)
	k2 := DeriveKey("correct horse battery staple", salt, 1000, KeySize)

	if len(k1) != KeySize {
		t.Fatalf("key length = %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same secret+salt")
	}
}

func TestDeriveKey_InputsChangeKey(t *testing.T) {
	salt1 := bytes.Repeat([]byte{0x01}, SaltSize)
	salt2 := bytes.Repeat([]byte{0x02}, SaltSize)

	base := DeriveKey("same secret", salt1, 1000, KeySize)

	if bytes.Equal(base, DeriveKey("same secret", salt2, 1000, KeySize)) {
		t.Fatalf("different salt produced the same key")
	}
	if bytes.Equal(base, DeriveKey("other secret", salt1, 1000, KeySize)) {
		t.Fatalf("different secret produced the same key")
	}
	if bytes.Equal(base, DeriveKey("same secret", salt1, 1001, KeySize)) {
		t.Fatalf("different iteration count produced the same key")
	}
}

func TestDeriveKey_EmptySecretAccepted(t *testing.T) {
	key := DeriveKey("", make([]byte, SaltSize), 10, KeySize)
	if len(key) != KeySize {
		t.Fatalf("key length = %d, want %d", len(key), KeySize)
	}
}

// pbkdf2Block computes the first PBKDF2-HMAC-SHA256 block by hand.
func pbkdf2Block(secret string, salt []byte, iterations int) []byte {
	prf := hmac.New(sha256.New, []byte(secret))
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], 1)

	prf.Write(salt)
	prf.Write(idx[:])
	u := prf.Sum(nil)
	out := bytes.Clone(u)
	for i := 1; i < iterations; i++ {
		prf.Reset()
		prf.Write(u)
		u = prf.Sum(nil)
		for j := range out {
			out[j] ^= u[j]
		}
	}
	return out
}

func TestDeriveKey_IsPBKDF2HMACSHA256(t *testing.T) {
	salt := []byte("0123456789abcdef")
	got := DeriveKey("secret", salt, 50, KeySize)
	want := pbkdf2Block("secret", salt, 50)

	if !bytes.Equal(got, want) {
		t.Fatalf("DeriveKey = %x, want %x", got, want)
	}
}
