// Package aead implements the data-encryption layer (spec §4.6):
// AES-256-GCM over a 32-byte key produced by the WKEM core, using the
// standard library's crypto/aes and crypto/cipher. No third-party AEAD
// library in the example pack supersedes the standard library's
// constant-time, hardware-accelerated AES-GCM implementation — gnark and
// its siblings do not carry a data-encryption dependency of their own —
// so this is the one component of zkenc's domain stack that is
// deliberately built on the standard library (see DESIGN.md).
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/flyinglimao/zkenc/zkerr"
)

const (
	// NonceSize is the GCM standard nonce width.
	NonceSize = 12
	// TagSize is the GCM authentication tag width.
	TagSize = 16
	// Overhead is the fixed expansion AEAD output has over the
	// plaintext (spec §6.1: "AEAD portion is exactly 28 bytes longer
	// than plaintext").
	Overhead = NonceSize + TagSize
)

// Encrypt implements aead_encrypt (spec §4.6): nonce ‖ ciphertext ‖ tag,
// with the nonce sampled from rnd, the same randomness source used for
// Encap.
func Encrypt(rnd io.Reader, key [32]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rnd, nonce); err != nil {
		return nil, fmt.Errorf("%w: reading nonce: %v", zkerr.ErrInternal, err)
	}
	out := make([]byte, 0, NonceSize+len(plaintext)+TagSize)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Decrypt implements aead_decrypt (spec §4.6). Any integrity or length
// failure is reported as zkerr.ErrAuthFail with no further detail, so a
// wrong key and a tampered ciphertext are indistinguishable to the
// caller.
func Decrypt(key [32]byte, blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, fmt.Errorf("%w: ciphertext shorter than minimum overhead", zkerr.ErrAuthFail)
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	nonce := blob[:NonceSize]
	ct := blob[NonceSize:]
	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, zkerr.ErrAuthFail
	}
	return pt, nil
}

// RandReader is the default CSPRNG source, exposed so callers (Encap,
// encrypt) can thread a single randomness source through both the WKEM
// core and the AEAD layer, per spec §4.6 ("sampled ... from the same RNG
// used for Encap").
var RandReader io.Reader = rand.Reader
