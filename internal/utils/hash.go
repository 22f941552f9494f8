package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// Hasher provides keyed HMAC-SHA256 hashing of request and response bodies.
// Each Hasher owns a pool of HMAC instances configured with its key.
type Hasher struct {
	hashKey []byte
	pool    sync.Pool
}

// NewHasher returns a Hasher for hashKey.
//
// Purpose of the pool:
//   - Avoid repeated allocations of new hash.Hash instances
//   - Reduce GC pressure in high-throughput hashing paths
func NewHasher(hashKey string) *Hasher {
	h := &Hasher{hashKey: []byte(hashKey)}
	h.pool.New = func() any {
		return hmac.New(sha256.New, h.hashKey)
	}
	return h
}

// Hash computes an HMAC-SHA256 signature over data using a pooled hasher.
//
// Example usage:
//
//	digest := hasher.Hash([]byte("some data"))
func (h *Hasher) Hash(data []byte) []byte {
	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashHex is Hash rendered as lowercase hex, the form used in the
// HashSHA256 header.
func (h *Hasher) HashHex(data []byte) string {
	return hex.EncodeToString(h.Hash(data))
}

// Verify reports whether signature is the hex HMAC of data.
func (h *Hasher) Verify(data []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Hash(data), expected)
}
