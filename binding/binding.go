// Package binding exposes zkenc's high-level operations as bytes-in,
// bytes-out functions, the shape spec §2 calls for at the boundary to
// "external collaborators": a CLI today, a WASM/host binding potentially
// tomorrow. Nothing in this package holds state across calls.
package binding

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/flyinglimao/zkenc"
	"github.com/flyinglimao/zkenc/circom"
	"github.com/flyinglimao/zkenc/codec"
	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/qap"
	"github.com/flyinglimao/zkenc/wkem"
	"github.com/flyinglimao/zkenc/zkerr"
)

// ResolveSuite maps a curve name (spec §6.4: "bn254" default, "bls12-381"
// accepted for testing) to a curve.Suite.
func ResolveSuite(name string) (curve.Suite, error) {
	switch name {
	case "", "bn254":
		return curve.BN254{}, nil
	case "bls12-381":
		return curve.BLS12381{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown curve %q", zkerr.ErrMalformedInput, name)
	}
}

// LoadCircuit parses a .r1cs file into a zkenc.Circuit.
func LoadCircuit(suiteName string, r1csBytes []byte) (zkenc.Circuit, error) {
	suite, err := ResolveSuite(suiteName)
	if err != nil {
		return zkenc.Circuit{}, err
	}
	cs, err := circom.ParseR1CS(suite, r1csBytes)
	if err != nil {
		return zkenc.Circuit{}, err
	}
	return zkenc.Circuit{Suite: suite, CS: cs}, nil
}

// Encap runs the low-level WKEM Encap against a circuit's public inputs
// (given as a JSON input object plus its .sym file), returning the
// serialized WKEM ciphertext and the derived key.
func Encap(suiteName string, r1csBytes, symText, inputsJSON []byte, rnd io.Reader, maxRetries int) (ctBytes []byte, key [32]byte, err error) {
	c, err := LoadCircuit(suiteName, r1csBytes)
	if err != nil {
		return nil, key, err
	}
	sym, err := circom.ParseSymbols(string(symText))
	if err != nil {
		return nil, key, err
	}
	wireValues, err := circom.MapInputs(c.Suite, inputsJSON, sym)
	if err != nil {
		return nil, key, err
	}
	publicInputs, err := circom.PublicInputVector(wireValues, c.CS.L())
	if err != nil {
		return nil, key, err
	}
	_, ct, k, err := wkem.Encap(c.Suite, c.CS, publicInputs, rnd, maxRetries)
	if err != nil {
		return nil, key, err
	}
	return codec.EncodeCiphertext(c.Suite, ct), k, nil
}

// Decap runs the low-level WKEM Decap against a .wtns witness file and a
// previously produced WKEM ciphertext.
func Decap(suiteName string, r1csBytes, wtnsBytes, ctBytes []byte) (key [32]byte, err error) {
	c, err := LoadCircuit(suiteName, r1csBytes)
	if err != nil {
		return key, err
	}
	witness, err := circom.ParseWitness(c.Suite, wtnsBytes, c.CS.M())
	if err != nil {
		return key, err
	}
	ct, err := codec.DecodeCiphertext(c.Suite, c.CS, qap.DomainSize(c.CS), ctBytes)
	if err != nil {
		return key, err
	}
	return wkem.Decap(c.Suite, c.CS, ct, witness)
}

// Encrypt implements the CLI's encrypt command (spec §6.3): map the
// public inputs out of inputsJSON via sym, Encap, AEAD-encrypt msg, and
// assemble the envelope. If includePublic is set, the whole inputsJSON
// object is embedded (re-marshalled, not filtered to public wires).
func Encrypt(suiteName string, r1csBytes, symText, inputsJSON, msg []byte, includePublic bool, rnd io.Reader, maxRetries int) ([]byte, error) {
	c, err := LoadCircuit(suiteName, r1csBytes)
	if err != nil {
		return nil, err
	}
	sym, err := circom.ParseSymbols(string(symText))
	if err != nil {
		return nil, err
	}
	wireValues, err := circom.MapInputs(c.Suite, inputsJSON, sym)
	if err != nil {
		return nil, err
	}
	publicInputs, err := circom.PublicInputVector(wireValues, c.CS.L())
	if err != nil {
		return nil, err
	}
	var publicJSON []byte
	if includePublic {
		publicJSON, err = canonicalPublicInputJSON(inputsJSON)
		if err != nil {
			return nil, err
		}
	}
	return zkenc.Encrypt(c, publicInputs, msg, includePublic, publicJSON, rnd, maxRetries)
}

// Decrypt implements the CLI's decrypt command (spec §6.3): parse the
// envelope, Decap using a witness already computed by the external
// witness calculator, and AEAD-decrypt.
func Decrypt(suiteName string, r1csBytes, wtnsBytes, envelope []byte) ([]byte, error) {
	c, err := LoadCircuit(suiteName, r1csBytes)
	if err != nil {
		return nil, err
	}
	witness, err := circom.ParseWitness(c.Suite, wtnsBytes, c.CS.M())
	if err != nil {
		return nil, err
	}
	return zkenc.Decrypt(c, envelope, witness)
}

// GetPublicInput implements the CLI's get-public-input command.
func GetPublicInput(envelope []byte) ([]byte, error) {
	return zkenc.GetPublicInput(envelope)
}

// canonicalPublicInputJSON re-marshals the original inputs JSON
// unchanged; the embedded blob's consumer re-runs the same MapInputs
// pass against it (spec §6.1: "keys re-map to wires identically to the
// encrypt-time mapping"), so no filtering to public-only fields is
// required here — the caller supplies whichever object it wants
// embedded, in the CLI's case the original inputs document.
func canonicalPublicInputJSON(inputsJSON []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(inputsJSON, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrMalformedInput, err)
	}
	return json.Marshal(v)
}
