// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
)

func TestHasher_Hash(t *testing.T) {
	key := "secret-key"
	h := NewHasher(key)

	data := []byte("test-data")

	sum1 := h.Hash(data)
	sum2 := h.Hash(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}
	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(data)
	if !bytes.Equal(sum1, mac.Sum(nil)) {
		t.Fatal("hash differs from direct HMAC computation")
	}
}

func TestHasher_DifferentKeys(t *testing.T) {
	a := NewHasher("key-a").Hash([]byte("data"))
	b := NewHasher("key-b").Hash([]byte("data"))

	if bytes.Equal(a, b) {
		t.Fatal("different keys must produce different digests")
	}
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher("k")
	body := []byte(`{"title":"mail"}`)
	sig := h.HashHex(body)

	if !h.Verify(body, sig) {
		t.Fatal("expected signature to verify")
	}
	if h.Verify([]byte(`{"title":"bank"}`), sig) {
		t.Fatal("expected signature of other body to fail")
	}
	if h.Verify(body, "not-hex") {
		t.Fatal("expected malformed signature to fail")
	}
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher("k")
	want := h.HashHex([]byte("payload"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := h.HashHex([]byte("payload")); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestHasher_HashHexAndVerify(t *testing.T) {
	h := NewHasher("key")
	data := []byte(`{"title":"mail"}`)

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write(data)
	want := hex.EncodeToString(mac.Sum(nil))

	if got := h.HashHex(data); got != want {
		t.Fatalf("unexpected digest %s", got)
	}
	if !h.Verify(data, want) {
		t.Fatal("valid signature rejected")
	}
	if h.Verify(data, "not-hex") {
		t.Fatal("malformed signature accepted")
	}
	if NewHasher("other").Verify(data, want) {
		t.Fatal("signature of another key accepted")
	}
}
