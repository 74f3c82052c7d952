// Package curve provides a curve-agnostic capability surface over the
// pairing-friendly curves zkenc supports (BN254, BLS12-381). Each concrete
// Suite wraps the corresponding github.com/consensys/gnark-crypto/ecc/*
// package; the rest of zkenc (qap, wkem, codec, kdf) is written once,
// against the Suite interface, and never imports a curve package directly.
//
// Scalar, G1, G2 and GT are opaque carriers: each holds the concrete
// curve-specific element behind an interface{} and must only ever be
// passed back into the Suite that produced it. Suite methods that return
// an error (MSM, pairing) type-assert their inputs and return
// zkerr.ErrMalformedInput on a curve mismatch; methods without an error
// result do not check and panic when given another curve's value.
package curve

import (
	"fmt"
	"io"
	"math/big"

	"github.com/flyinglimao/zkenc/zkerr"
)

// scalarFromReaderModulus draws a uniform element of Z_modulus from rnd.
// It reads 16 bytes beyond the modulus's byte length and reduces, so the
// statistical bias from the reduction is negligible (spec §4.3's sampling
// steps for alpha, beta, delta, r, x all route through this). Unlike
// gnark-crypto's Element.SetRandom, which always draws from the process's
// crypto/rand source, this makes Encap's randomness fully determined by
// the caller-supplied io.Reader, including in tests that pass a
// fixed-seed reader.
func scalarFromReaderModulus(rnd io.Reader, modulus *big.Int) (*big.Int, error) {
	buf := make([]byte, (modulus.BitLen()+7)/8+16)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	v := new(big.Int).SetBytes(buf)
	return v.Mod(v, modulus), nil
}

// Scalar is an opaque element of a Suite's scalar field.
type Scalar struct{ v any }

// G1 is an opaque affine point on a Suite's first source group.
type G1 struct{ v any }

// G2 is an opaque affine point on a Suite's second source group.
type G2 struct{ v any }

// GT is an opaque element of a Suite's pairing target group.
type GT struct{ v any }

// Suite is the capability set spec.md §9 calls for: "a single trait family
// parameterized by the curve." qap, wkem and codec are monomorphic against
// this interface; BN254 and BLS12-381 each provide one implementation.
type Suite interface {
	// Name identifies the curve for envelope/CLI tagging. Not part of the
	// wire format (spec §6.4: "not self-describing for curve choice").
	Name() string

	// FieldBytes is the fixed serialized width of a scalar (32 for both
	// BN254 and BLS12-381 scalar fields).
	FieldBytes() int

	// ScalarFieldModulus returns the scalar field's prime characteristic,
	// used to check a parsed .r1cs was compiled for this curve (spec
	// §4.5: "header (field characteristic, ...)").
	ScalarFieldModulus() *big.Int

	// --- scalar field ---

	ScalarRandom(rnd io.Reader) (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar
	ScalarFromUint64(v uint64) Scalar
	// ScalarFromBigInt reduces v modulo the scalar field's characteristic,
	// matching Go's math/big Euclidean modulus convention: the result is
	// always in [0, modulus) regardless of v's sign. Used when mapping
	// JSON-decoded Circom inputs, which may be negative decimal strings.
	ScalarFromBigInt(v *big.Int) Scalar
	ScalarAdd(a, b Scalar) Scalar
	ScalarSub(a, b Scalar) Scalar
	ScalarMul(a, b Scalar) Scalar
	ScalarNeg(a Scalar) Scalar
	ScalarInverse(a Scalar) (Scalar, error)
	ScalarEqual(a, b Scalar) bool
	ScalarIsZero(a Scalar) bool
	// ScalarBytes serializes little-endian, fixed FieldBytes() width
	// (spec §3: "Serialized little-endian, fixed width").
	ScalarBytes(a Scalar) []byte
	ScalarFromBytes(b []byte) (Scalar, error)

	// PrimitiveRoot returns a primitive n-th root of unity of the scalar
	// field, n a power of two, for use as an FFT-domain generator.
	PrimitiveRoot(n uint64) (Scalar, error)

	// --- G1 ---

	G1Zero() G1
	G1Generator() G1
	G1Add(a, b G1) G1
	G1Neg(a G1) G1
	G1ScalarMul(p G1, s Scalar) G1
	// G1MSM computes the multi-scalar-multiplication sum(scalars[i]*points[i]).
	G1MSM(points []G1, scalars []Scalar) (G1, error)
	G1Equal(a, b G1) bool
	// G1Bytes serializes in compressed affine form.
	G1Bytes(p G1) []byte
	G1FromBytes(b []byte) (G1, error)
	G1CompressedSize() int

	// --- G2 ---

	G2Zero() G2
	G2Generator() G2
	G2Add(a, b G2) G2
	G2ScalarMul(p G2, s Scalar) G2
	G2MSM(points []G2, scalars []Scalar) (G2, error)
	G2Equal(a, b G2) bool
	G2Bytes(p G2) []byte
	G2FromBytes(b []byte) (G2, error)
	G2CompressedSize() int

	// --- pairing / GT ---

	// Pair computes e(a, b).
	Pair(a G1, b G2) (GT, error)
	// PairingProduct computes e(a1,b1) * e(a2,b2) via a single multi
	// Miller loop plus one final exponentiation (spec §4.3 Decap step 6:
	// "Prefer multi_miller_loop with one positive and one negative
	// input").
	PairingProduct(a1 G1, b1 G2, a2 G1, b2 G2) (GT, error)
	GTMul(a, b GT) GT
	GTInverse(a GT) GT
	GTEqual(a, b GT) bool
	// GTBytes serializes canonically and deterministically, the input to
	// the KDF (spec §4.2).
	GTBytes(a GT) []byte
}
