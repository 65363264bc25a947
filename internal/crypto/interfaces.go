package crypto

// KeyChainService owns every cryptographic primitive the archive codec
// needs. It knows nothing about files, sockets or credential records.
//
// Scheme:
//
//	salt = GenerateSalt()                 (stored in the archive header)
//	key  = DeriveKey(password, salt)      (exists only in memory)
//	blob = Seal(key, plaintext)           (nonce ‖ ciphertext)
type KeyChainService interface {
	// GenerateSalt returns a fresh random salt (16 bytes / 128 bits).
	// The salt is not a secret and is written to the archive header in
	// the clear. It ensures identical passwords derive distinct keys.
	GenerateSalt() ([]byte, error)

	// DeriveKey stretches the master password into a 256-bit AES key
	// using Argon2id. The key never leaves process memory.
	DeriveKey(masterPassword string, salt []byte) []byte

	// Seal encrypts plaintext with key using AES-256-GCM.
	// The returned blob is nonce ‖ ciphertext; the 12-byte nonce is
	// generated from the OS CSPRNG for every call.
	Seal(key, plaintext []byte) ([]byte, error)

	// Open decrypts a blob produced by Seal. Returns the plaintext, or
	// an error if the blob is truncated, the key is wrong, or the
	// ciphertext was tampered with (authentication-tag mismatch).
	Open(key, blob []byte) ([]byte, error)
}
