// Package cryptox implements the client-side envelope encryption used by
// passvault: PBKDF2-based key derivation from the master password and
// authenticated encryption of vault items with AES-256-GCM. The server only
// ever sees the sealed envelopes produced here.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the KDF salt length in bytes.
	SaltSize = 16
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32
	// Iterations is the PBKDF2 iteration count. Deliberately slow so a
	// captured envelope cannot be brute-forced cheaply.
	Iterations = 100_000
)

var (
	// ErrAuthenticationFailed is returned when the GCM tag does not verify:
	// either the envelope was tampered with or the key was derived from a
	// wrong master password. No plaintext is ever returned alongside it.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrInvalidSaltSize is returned when a salt is not exactly SaltSize bytes.
	ErrInvalidSaltSize = errors.New("invalid salt size")

	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("invalid key size")
)

// Envelope bundles a ciphertext with the salt and nonce needed to re-derive
// the key and decrypt it later. Salt and nonce are freshly random for every
// encryption, so a (salt, nonce) pair never repeats under the same key.
type Envelope struct {
	Ciphertext []byte
	Salt       []byte
	Nonce      []byte
}

// DeriveKey derives a 32-byte AES key from a master password and salt using
// PBKDF2-HMAC-SHA256. The same (password, salt) pair always yields the same
// key; decryption relies on this to re-derive the key from the stored salt.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), SaltSize)
	}
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New), nil
}

// GenerateSalt returns a fresh random KDF salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Encrypt seals plaintext under the given key with AES-256-GCM using a fresh
// random nonce. The salt is not used for encryption itself; it is carried in
// the envelope so the key can be re-derived on decryption.
func Encrypt(plaintext, key, salt []byte) (*Envelope, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Ciphertext: aesgcm.Seal(nil, nonce, plaintext, nil),
		Salt:       salt,
		Nonce:      nonce,
	}, nil
}

// Decrypt opens an envelope with the given key. Verification is
// all-or-nothing: a tag mismatch yields ErrAuthenticationFailed and no
// partial plaintext.
func Decrypt(env *Envelope, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(env.Nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: got %d, want %d", len(env.Nonce), NonceSize)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Seal encrypts plaintext under a key derived from the master password and a
// freshly generated salt. Every call derives a new key, trading KDF cost for
// eliminating key/nonce-reuse risk entirely. The derived key is wiped before
// returning.
func Seal(plaintext, password []byte) (*Envelope, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}

	key, err := DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	return Encrypt(plaintext, key, salt)
}

// Open re-derives the key from the master password and the envelope's salt
// and decrypts. The derived key is wiped before returning.
func Open(env *Envelope, password []byte) ([]byte, error) {
	key, err := DeriveKey(password, env.Salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	return Decrypt(env, key)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
