package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCipherText is returned when the ciphertext is malformed or the key is wrong.
var ErrCipherText = errors.New("ciphertext is malformed or the key is wrong")

const (
	saltLength  = 32
	nonceLength = 12
	keyIters    = 100000
)

// EncryptPayload encrypts data with AES-256-GCM. The key is derived from the
// passphrase with PBKDF2-SHA256; salt and nonce are prepended to the output so
// the passphrase alone is enough to decrypt. The passphrase is never stored.
func EncryptPayload(data []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltLength+nonceLength+len(data)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, data, nil), nil
}

// DecryptPayload reverses EncryptPayload.
func DecryptPayload(data []byte, passphrase string) ([]byte, error) {
	if len(data) < saltLength+nonceLength {
		return nil, ErrCipherText
	}
	salt := data[:saltLength]
	nonce := data[saltLength : saltLength+nonceLength]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	plain, err := gcm.Open(nil, nonce, data[saltLength+nonceLength:], nil)
	if err != nil {
		return nil, ErrCipherText
	}
	return plain, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, keyIters, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
