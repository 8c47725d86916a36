// Package tokenstore persists the reusable session token the brokerage
// issues after a successful login, one token per username. The contract is
// read-your-last-write; concurrent writers for the same username are
// last-writer-wins.
package tokenstore

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
	// KeySize is the size of the AES-256 key in bytes.
	KeySize = 32
	// PBKDF2Iterations is the number of iterations for key derivation.
	PBKDF2Iterations = 100000
)

var (
	ErrInvalidKey        = errors.New("invalid encryption key: must be at least 32 characters")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// Encryptor seals session tokens at rest. The token grants full account
// access until it expires, so it never touches disk in plaintext.
type Encryptor struct {
	masterKey []byte
}

// NewEncryptor creates an Encryptor from the given master secret. The
// secret should be at least 32 characters.
func NewEncryptor(secret string) (*Encryptor, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidKey
	}
	// Use SHA-256 to normalize the key length
	hash := sha256.Sum256([]byte(secret))
	return &Encryptor{masterKey: hash[:]}, nil
}

// DeriveKey derives a per-user encryption key using PBKDF2 with the
// username as salt.
func (e *Encryptor) DeriveKey(username string) []byte {
	salt := fmt.Sprintf("user:%s", username)
	return pbkdf2.Key(e.masterKey, []byte(salt), PBKDF2Iterations, KeySize, sha256.New)
}

// Seal encrypts a token with AES-256-GCM under the user-specific key and
// returns nonce||ciphertext.
func (e *Encryptor) Seal(token, username string) ([]byte, error) {
	gcm, err := e.gcm(username)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, []byte(token), nil), nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal.
func (e *Encryptor) Open(blob []byte, username string) (string, error) {
	gcm, err := e.gcm(username)
	if err != nil {
		return "", err
	}

	if len(blob) < gcm.NonceSize() {
		return "", ErrInvalidCiphertext
	}
	nonce, ciphertext := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]

	token, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(token), nil
}

func (e *Encryptor) gcm(username string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.DeriveKey(username))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
