// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/hex"
	"fmt"
)

// MasterKeySize is the length of a master key in bytes.
const MasterKeySize = 32

// GenerateMasterKey implements [SecretCipher].
func (c *Cipher) GenerateMasterKey() (string, error) {
	raw, err := readRandom(c.random, MasterKeySize)
	if err != nil {
		return "", err
	}
	defer wipe(raw)
	return hex.EncodeToString(raw), nil
}

// WrapMasterKey implements [SecretCipher].
func (c *Cipher) WrapMasterKey(masterKey, password string) (string, error) {
	return c.Encrypt(masterKey, password)
}

// UnwrapMasterKey implements [SecretCipher]. A CBC blob decrypted under the
// wrong password can pass the padding check by chance, so the plaintext is
// also required to look like a master key.
func (c *Cipher) UnwrapMasterKey(wrapped, password string) (string, error) {
	masterKey, err := c.Decrypt(wrapped, password)
	if err != nil {
		return "", err
	}
	if len(masterKey) != MasterKeySize*2 {
		return "", fmt.Errorf("%w: unexpected master key length", ErrDecryptionFailed)
	}
	if _, err := hex.DecodeString(masterKey); err != nil {
		return "", fmt.Errorf("%w: master key is not hex", ErrDecryptionFailed)
	}
	return masterKey, nil
}
