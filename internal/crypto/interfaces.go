package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// SecretCipher encrypts and decrypts individual secret fields at rest.
//
// Every value produced by Encrypt is a self-contained stored secret: it
// carries its own random salt and IV, so the only thing needed to decrypt it
// later is the same secret string that was used to encrypt it.
//
// Key variants:
//
//	direct: secret = the user's login password
//	master: secret = hex master key, itself stored as WrapMasterKey(masterKey, password)
type SecretCipher interface {
	// Encrypt seals plaintext under a key derived from secret and returns the
	// stored secret text form.
	Encrypt(plaintext, secret string) (string, error)

	// Decrypt reverses Encrypt. Returns ErrMalformedBlob when blob cannot be
	// parsed and ErrDecryptionFailed when the secret is wrong or the blob was
	// tampered with.
	Decrypt(blob, secret string) (string, error)

	// NeedsUpgrade reports whether blob was written with an older format or a
	// lower iteration count than the cipher currently writes.
	NeedsUpgrade(blob string) bool

	// GenerateMasterKey returns a fresh random master key as lowercase hex.
	GenerateMasterKey() (string, error)

	// WrapMasterKey encrypts the master key under the login password.
	WrapMasterKey(masterKey, password string) (string, error)

	// UnwrapMasterKey decrypts a wrapped master key and checks that the result
	// has the shape of a master key.
	UnwrapMasterKey(wrapped, password string) (string, error)
}

// PasswordHasher produces and checks one-way login password hashes.
type PasswordHasher interface {
	// Hash returns a salted hash of password in text form.
	Hash(password string) (string, error)

	// Verify reports whether password matches stored. A malformed stored hash
	// yields ErrMalformedHash.
	Verify(password, stored string) (bool, error)

	// NeedsRehash reports whether stored was produced with weaker parameters
	// than the hasher currently uses.
	NeedsRehash(stored string) bool
}
