package aead_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/aead"
	"github.com/flyinglimao/zkenc/zkerr"
)

func randomKey(t *testing.T) [32]byte {
	t.Helper()
	var key [32]byte
	_, err := rand.Read(key[:])
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := randomKey(t)
	plaintext := []byte("the quotient polynomial has degree at most N-2")

	blob, err := aead.Encrypt(rand.Reader, key, plaintext)
	require.NoError(t, err)
	require.Len(t, blob, len(plaintext)+aead.Overhead)

	got, err := aead.Decrypt(key, blob)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	key := randomKey(t)
	other := randomKey(t)
	blob, err := aead.Encrypt(rand.Reader, key, []byte("hello"))
	require.NoError(t, err)

	_, err = aead.Decrypt(other, blob)
	require.ErrorIs(t, err, zkerr.ErrAuthFail)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key := randomKey(t)
	blob, err := aead.Encrypt(rand.Reader, key, []byte("hello world"))
	require.NoError(t, err)

	tampered := bytes.Clone(blob)
	tampered[len(tampered)-1] ^= 0x01

	_, err = aead.Decrypt(key, tampered)
	require.ErrorIs(t, err, zkerr.ErrAuthFail)
}

func TestDecryptRejectsTruncatedBlob(t *testing.T) {
	key := randomKey(t)
	_, err := aead.Decrypt(key, make([]byte, aead.Overhead-1))
	require.ErrorIs(t, err, zkerr.ErrAuthFail)
}

func TestEncryptProducesFreshNonces(t *testing.T) {
	key := randomKey(t)
	a, err := aead.Encrypt(rand.Reader, key, []byte("msg"))
	require.NoError(t, err)
	b, err := aead.Encrypt(rand.Reader, key, []byte("msg"))
	require.NoError(t, err)

	require.NotEqual(t, a[:aead.NonceSize], b[:aead.NonceSize])
	require.NotEqual(t, a, b)
}
