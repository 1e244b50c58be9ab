package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	iterations, err := IterationsForVersion(CurrentFileVersion)
	require.NoError(t, err)

	plaintext := []byte(`{"accounts":[{"name":"prod"}]}`)
	salt, nonce, ciphertext, err := Encrypt(plaintext, "hunter2", iterations)
	require.NoError(t, err)

	got, err := Decrypt(ciphertext, "hunter2", salt, nonce, iterations)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptWrongPassword(t *testing.T) {
	iterations, _ := IterationsForVersion(CurrentFileVersion)
	salt, nonce, ciphertext, err := Encrypt([]byte("secret"), "right", iterations)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong", salt, nonce, iterations)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestIterationsForVersionRejectsUnknown(t *testing.T) {
	_, err := IterationsForVersion(99)
	assert.Error(t, err)
	assert.IsType(t, ErrUnsupportedVersion{}, err)
}

func TestOldVersionsStillAccepted(t *testing.T) {
	n, err := IterationsForVersion(1)
	require.NoError(t, err)
	assert.Equal(t, 100_000, n)
}
