package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := []byte("household snapshot payload")

	encrypted, err := EncryptPayload(plain, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, plain, encrypted)

	decrypted, err := DecryptPayload(encrypted, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	encrypted, err := EncryptPayload([]byte("secret"), "right")
	require.NoError(t, err)

	_, err = DecryptPayload(encrypted, "wrong")
	assert.ErrorIs(t, err, ErrCipherText)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	encrypted, err := EncryptPayload([]byte("secret"), "key")
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = DecryptPayload(encrypted, "key")
	assert.ErrorIs(t, err, ErrCipherText)
}

func TestDecryptTruncatedInput(t *testing.T) {
	_, err := DecryptPayload([]byte("short"), "key")
	assert.ErrorIs(t, err, ErrCipherText)
}

func TestEncryptDistinctOutputPerCall(t *testing.T) {
	// fresh salt and nonce every call
	a, err := EncryptPayload([]byte("same input"), "key")
	require.NoError(t, err)
	b, err := EncryptPayload([]byte("same input"), "key")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
