// Package zkenc implements the high-level encrypt/decrypt operations of
// spec §4.7: witness encryption for R1CS circuits, composing the
// qap, wkem, aead and codec packages into the three
// caller-facing operations (encrypt, decrypt, get_public_input) the CLI
// and any future binding expose.
package zkenc

import (
	"fmt"
	"io"

	"github.com/flyinglimao/zkenc/aead"
	"github.com/flyinglimao/zkenc/codec"
	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/qap"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/wkem"
	"github.com/flyinglimao/zkenc/zkerr"
)

// Circuit bundles a suite with the R1CS it operates over; every
// top-level operation takes one.
type Circuit struct {
	Suite curve.Suite
	CS    *r1cs.R1CS
}

// Encrypt implements encrypt (spec §4.7): Encap a fresh key against the
// circuit's public statement, AEAD-encrypt message under it, and
// assemble the combined envelope. When includePublic is true,
// publicInputJSON (the caller's canonical JSON rendering of the public
// inputs) is embedded so a later holder of the envelope can recover it
// without separately carrying the original inputs file.
func Encrypt(c Circuit, publicInputs []curve.Scalar, message []byte, includePublic bool, publicInputJSON []byte, rnd io.Reader, maxRetries int) ([]byte, error) {
	_, ct, key, err := wkem.Encap(c.Suite, c.CS, publicInputs, rnd, maxRetries)
	if err != nil {
		return nil, err
	}
	blob, err := aead.Encrypt(rnd, key, message)
	if err != nil {
		return nil, err
	}
	env := &codec.Envelope{
		IncludePublic: includePublic,
		WCT:           codec.EncodeCiphertext(c.Suite, ct),
		AEAD:          blob,
	}
	if includePublic {
		env.PublicInputJSON = publicInputJSON
	}
	return codec.EncodeEnvelope(env), nil
}

// Decrypt implements decrypt (spec §4.7): parse the envelope, Decap
// using a full witness the caller obtained from the external witness
// calculator, and AEAD-decrypt the message. The embedded public-input
// JSON, if any, is not re-verified here — a caller who needs that
// guarantee should compare it against its own input source before
// calling Decrypt.
func Decrypt(c Circuit, envelope []byte, fullWitness []curve.Scalar) ([]byte, error) {
	env, err := codec.DecodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	n := qap.DomainSize(c.CS)
	ct, err := codec.DecodeCiphertext(c.Suite, c.CS, n, env.WCT)
	if err != nil {
		return nil, err
	}
	key, err := wkem.Decap(c.Suite, c.CS, ct, fullWitness)
	if err != nil {
		return nil, err
	}
	return aead.Decrypt(key, env.AEAD)
}

// GetPublicInput implements get_public_input (spec §4.7): returns the
// embedded public-input JSON, or zkerr.ErrNotEmbedded if the envelope
// was produced without it.
func GetPublicInput(envelope []byte) ([]byte, error) {
	env, err := codec.DecodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	if !env.IncludePublic {
		return nil, fmt.Errorf("%w: envelope has no embedded public input", zkerr.ErrNotEmbedded)
	}
	return env.PublicInputJSON, nil
}
