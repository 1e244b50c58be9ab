// Package crypto implements the password-based envelope used by the
// credential file and account exports: PBKDF2-HMAC-SHA256 derives a
// 256-bit key from the user's password and a random salt, then
// AES-256-GCM seals the plaintext under a random nonce. The iteration
// count is versioned so old envelopes stay readable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize  = 16 // 128 bits
	nonceSize = 12 // 96 bits
	keySize   = 32 // AES-256
)

// CurrentFileVersion is the envelope version this build writes.
// Readers must keep accepting every version listed in
// iterationsByVersion.
const CurrentFileVersion = 2

// iterationsByVersion maps an envelope version to its PBKDF2
// iteration count. New rows are appended; existing rows are never
// rewritten, so old exports remain decryptable.
var iterationsByVersion = map[int]int{
	1: 100_000,
	2: 600_000,
}

// ErrUnsupportedVersion is returned by IterationsForVersion when the
// version isn't in iterationsByVersion.
type ErrUnsupportedVersion struct{ Version int }

func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported credential file version %d", e.Version)
}

// IterationsForVersion returns the PBKDF2 iteration count for a given
// envelope version, rejecting unknown versions.
func IterationsForVersion(version int) (int, error) {
	n, ok := iterationsByVersion[version]
	if !ok {
		return 0, ErrUnsupportedVersion{Version: version}
	}
	return n, nil
}

// ErrDecryptionFailed is the single error surfaced for any
// authenticated-decrypt failure, deliberately not distinguishing bad
// password from corrupt ciphertext.
var ErrDecryptionFailed = fmt.Errorf("decryption failed, check password")

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
}

// Encrypt seals plaintext under password, generating a fresh random
// salt and nonce. Returns the three fields Base64-encoded for the
// envelope.
func Encrypt(plaintext []byte, password string, iterations int) (saltB64, nonceB64, ciphertextB64 string, err error) {
	salt := make([]byte, saltSize)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return "", "", "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", "", err
	}

	key := deriveKey(password, salt, iterations)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", "", err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ciphertext),
		nil
}

// Decrypt reverses Encrypt. Any failure — bad password, tampered
// ciphertext, malformed base64 — collapses to ErrDecryptionFailed.
func Decrypt(ciphertextB64, password, saltB64, nonceB64 string, iterations int) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	key := deriveKey(password, salt, iterations)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
