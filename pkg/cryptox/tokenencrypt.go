package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// Argon2id parameters for deriving the encryption key from the master key
// material. Tuned for an interactive CLI: one pass, 64 MiB, 4 lanes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

var (
	masterOnce    sync.Once
	masterKey     []byte
	masterKeyPath string
)

// SetMasterKeyPath configures where to load the master key material from.
// Must be called before the first encryption or decryption.
// If not set, material is read from the ARRIMAGE_MASTER_KEY environment variable.
func SetMasterKeyPath(path string) {
	masterKeyPath = path
}

// loadMasterKey loads the raw master key material from either:
// 1. File specified by masterKeyPath (if set)
// 2. ARRIMAGE_MASTER_KEY environment variable
// 3. Generates an ephemeral key (sessions won't survive a restart)
func loadMasterKey() ([]byte, error) {
	if masterKeyPath != "" {
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		return data, nil
	}

	if envKey := os.Getenv("ARRIMAGE_MASTER_KEY"); envKey != "" {
		return []byte(envKey), nil
	}

	material := make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
	}
	return material, nil
}

func getMasterKey() ([]byte, error) {
	var err error
	masterOnce.Do(func() {
		masterKey, err = loadMasterKey()
	})
	if err != nil {
		return nil, err
	}
	if masterKey == nil {
		return nil, fmt.Errorf("master key not loaded")
	}
	return masterKey, nil
}

// deriveKey stretches the master key material into a 32-byte AES key using
// Argon2id with the given salt.
func deriveKey(material, salt []byte) []byte {
	return argon2.IDKey(material, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// EncryptToken encrypts a stored credential (the refresh token at rest) using
// AES-256-GCM with an Argon2id-derived key.
// The output format is: [16-byte salt][12-byte nonce][ciphertext+tag]
func EncryptToken(plaintext []byte) ([]byte, error) {
	material, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(material, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// DecryptToken decrypts data produced by EncryptToken.
func DecryptToken(encrypted []byte) ([]byte, error) {
	material, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	if len(encrypted) < saltSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	salt, rest := encrypted[:saltSize], encrypted[saltSize:]

	block, err := aes.NewCipher(deriveKey(material, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ResetMasterKeyForTesting resets the master key singleton.
// This should ONLY be used in tests.
func ResetMasterKeyForTesting() {
	masterOnce = sync.Once{}
	masterKey = nil
}
