// Package credstore encrypts provider credentials at rest. The pipeline
// itself only ever sees decrypted credential strings; nothing here is
// consulted on the hot path.
package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltFile      = "secret.key"
	saltLen       = 16
	keyLen        = 32
	kdfIterations = 100000
)

// The derivation password is a fixed application identifier; the per-install
// salt is what makes derived keys unique across machines.
var appSecret = []byte("selwrite-credential-store-v1")

// Store seals and opens credential strings with a key derived from a
// per-install random salt.
type Store struct {
	aead cipher.AEAD
}

// Open loads (or creates) the salt file under dir and prepares the cipher.
func Open(dir string) (*Store, error) {
	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFile))
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key(appSecret, salt, kdfIterations, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not initialize GCM: %w", err)
	}
	return &Store{aead: aead}, nil
}

// Encrypt seals plaintext and returns a base64 token suitable for storage
// in the JSON config file.
func (s *Store) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A tampered or foreign token yields an error,
// never garbage plaintext.
func (s *Store) Decrypt(token string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed credential token: %w", err)
	}
	if len(sealed) < s.aead.NonceSize() {
		return "", fmt.Errorf("malformed credential token: too short")
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("could not decrypt credential: %w", err)
	}
	return string(plaintext), nil
}

func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil && len(salt) == saltLen {
		return salt, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read key file: %w", err)
	}

	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("could not generate salt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}
	// Owner-only: the salt is the install's secret material.
	if err := os.WriteFile(path, salt, 0600); err != nil {
		return nil, fmt.Errorf("could not write key file: %w", err)
	}
	return salt, nil
}
