// Package wkem implements the Extractable Witness Key Encapsulation
// Mechanism core (spec §4.3): Encap samples a fresh Groth16-shaped CRS
// and derives a key from the statement's public inputs; Decap recomputes
// the same key from a satisfying witness, or fails.
//
// The package is pure-functional modulo the caller-supplied randomness
// source (spec §5: "the core is stateless and single-threaded per
// call"). It never logs and never retains a secret past the call that
// produced it.
package wkem

import (
	"fmt"
	"io"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/internal/secret"
	"github.com/flyinglimao/zkenc/kdf"
	"github.com/flyinglimao/zkenc/qap"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/zkerr"
)

// DefaultMaxRetries bounds the number of times Encap resamples x after a
// DomainCollision before giving up (spec §7: "retried inside Encap up to
// a small bound (e.g., 8); exceeding it is InternalError").
const DefaultMaxRetries = 8

// EncapKey is the CRS σ (spec §3).
type EncapKey struct {
	AlphaG1    curve.G1
	BetaG2     curve.G2
	DeltaG2    curve.G2
	RUG1       []curve.G1 // length m
	RVG2       []curve.G2 // length m
	PhiDeltaG1 []curve.G1 // length m-ℓ-1
	HG1        []curve.G1 // length N-1
}

// Ciphertext is the WKEM-layer ciphertext: σ plus the public input
// vector needed to reconstruct the pairing equation (spec §3). a0=1 is
// implicit and never stored.
type Ciphertext struct {
	Key    *EncapKey
	Public []curve.Scalar // a_1..a_ℓ
}

// dims returns (m, ℓ) for an EncapKey, used by shape validation.
func (k *EncapKey) dims() (m, l int) {
	return len(k.RUG1), len(k.RUG1) - len(k.PhiDeltaG1) - 1
}

// Encap implements spec §4.3's Encap algorithm.
func Encap(suite curve.Suite, cs *r1cs.R1CS, publicInputs []curve.Scalar, rnd io.Reader, maxRetries int) (*EncapKey, *Ciphertext, [32]byte, error) {
	var zero [32]byte
	if err := cs.Validate(); err != nil {
		return nil, nil, zero, err
	}
	l := cs.L()
	m := cs.M()
	if len(publicInputs) != l {
		return nil, nil, zero, fmt.Errorf("%w: expected %d public inputs, got %d", zkerr.ErrMalformedInput, l, len(publicInputs))
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	alpha, err := nonzeroScalar(suite, rnd)
	if err != nil {
		return nil, nil, zero, err
	}
	beta, err := nonzeroScalar(suite, rnd)
	if err != nil {
		return nil, nil, zero, err
	}
	delta, err := nonzeroScalar(suite, rnd)
	if err != nil {
		return nil, nil, zero, err
	}
	r, err := nonzeroScalar(suite, rnd)
	if err != nil {
		return nil, nil, zero, err
	}
	defer secret.Bytes(suite.ScalarBytes(alpha))
	defer secret.Bytes(suite.ScalarBytes(beta))
	defer secret.Bytes(suite.ScalarBytes(delta))
	defer secret.Bytes(suite.ScalarBytes(r))

	var ev *qap.EvalResult
	var x curve.Scalar
	for attempt := 0; ; attempt++ {
		candidate, err := nonzeroScalar(suite, rnd)
		if err != nil {
			return nil, nil, zero, err
		}
		res, err := qap.EvaluateAt(suite, cs, candidate)
		if err == nil {
			ev = res
			x = candidate
			break
		}
		if err != zkerr.ErrDomainCollision {
			return nil, nil, zero, err
		}
		if attempt >= maxRetries {
			return nil, nil, zero, fmt.Errorf("%w: exceeded %d domain-collision retries", zkerr.ErrInternal, maxRetries)
		}
	}
	defer secret.Bytes(suite.ScalarBytes(x))

	deltaInv, err := suite.ScalarInverse(delta)
	if err != nil {
		return nil, nil, zero, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	defer secret.Bytes(suite.ScalarBytes(deltaInv))

	g1 := suite.G1Generator()
	g2 := suite.G2Generator()

	alphaG1 := suite.G1ScalarMul(g1, alpha)
	betaG2 := suite.G2ScalarMul(g2, beta)
	deltaG2 := suite.G2ScalarMul(g2, delta)

	ruG1 := make([]curve.G1, m)
	rvG2 := make([]curve.G2, m)
	for j := 0; j < m; j++ {
		ruG1[j] = suite.G1ScalarMul(g1, suite.ScalarMul(r, ev.U[j]))
		rvG2[j] = suite.G2ScalarMul(g2, suite.ScalarMul(r, ev.V[j]))
	}

	rBeta := suite.ScalarMul(r, beta)
	rAlpha := suite.ScalarMul(r, alpha)
	r2 := suite.ScalarMul(r, r)
	defer secret.Bytes(suite.ScalarBytes(rBeta))
	defer secret.Bytes(suite.ScalarBytes(rAlpha))
	defer secret.Bytes(suite.ScalarBytes(r2))

	phi := func(j int) curve.Scalar {
		t1 := suite.ScalarMul(rBeta, ev.U[j])
		t2 := suite.ScalarMul(rAlpha, ev.V[j])
		t3 := suite.ScalarMul(r2, ev.W[j])
		return suite.ScalarAdd(suite.ScalarAdd(t1, t2), t3)
	}

	phiDeltaG1 := make([]curve.G1, m-l-1)
	for j := l + 1; j < m; j++ {
		phij := phi(j)
		scaled := suite.ScalarMul(phij, deltaInv)
		phiDeltaG1[j-l-1] = suite.G1ScalarMul(g1, scaled)
	}

	d, err := qap.NewDomain(suite, qap.DomainSize(cs))
	if err != nil {
		return nil, nil, zero, err
	}
	// h_g1[i] = (r^2 * t(x) / delta) * x^i * G1, for i = 0..N-2 (spec
	// §4.3 step 7): the CRS terms that let Decap reconstruct
	// r^2*t(x)*h(x)/delta from the quotient coefficients via an MSM.
	hG1 := make([]curve.G1, d.N-1)
	r2TDelta := suite.ScalarMul(r2, suite.ScalarMul(ev.Tx, deltaInv))
	defer secret.Bytes(suite.ScalarBytes(r2TDelta))
	xPow := suite.ScalarOne()
	for i := uint64(0); i < d.N-1; i++ {
		coeff := suite.ScalarMul(r2TDelta, xPow)
		hG1[i] = suite.G1ScalarMul(g1, coeff)
		xPow = suite.ScalarMul(xPow, x)
	}

	// phiPublicG1[j] for j=0..l, used only to fold the public inputs into
	// s; never stored in σ (spec: "the public sum is stored implicitly
	// through σ, not transmitted").
	phiPublicG1 := make([]curve.G1, l+1)
	for j := 0; j <= l; j++ {
		phiPublicG1[j] = suite.G1ScalarMul(g1, phi(j))
	}

	aFull := make([]curve.Scalar, l+1)
	aFull[0] = suite.ScalarOne()
	copy(aFull[1:], publicInputs)

	publicSum, err := suite.G1MSM(phiPublicG1, aFull)
	if err != nil {
		return nil, nil, zero, err
	}
	publicPairing, err := suite.Pair(publicSum, g2)
	if err != nil {
		return nil, nil, zero, err
	}
	abPairing, err := suite.Pair(alphaG1, betaG2)
	if err != nil {
		return nil, nil, zero, err
	}
	s := suite.GTMul(abPairing, publicPairing)
	key := kdf.DeriveKey(suite, s)

	ek := &EncapKey{
		AlphaG1:    alphaG1,
		BetaG2:     betaG2,
		DeltaG2:    deltaG2,
		RUG1:       ruG1,
		RVG2:       rvG2,
		PhiDeltaG1: phiDeltaG1,
		HG1:        hG1,
	}
	ct := &Ciphertext{Key: ek, Public: append([]curve.Scalar(nil), publicInputs...)}
	return ek, ct, key, nil
}

func nonzeroScalar(suite curve.Suite, rnd io.Reader) (curve.Scalar, error) {
	for {
		s, err := suite.ScalarRandom(rnd)
		if err != nil {
			return curve.Scalar{}, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
		}
		if !suite.ScalarIsZero(s) {
			return s, nil
		}
	}
}

// Decap implements spec §4.3's Decap algorithm.
func Decap(suite curve.Suite, cs *r1cs.R1CS, ct *Ciphertext, witness []curve.Scalar) ([32]byte, error) {
	var zero [32]byte
	if err := cs.Validate(); err != nil {
		return zero, err
	}
	m := cs.M()
	l := cs.L()
	ek := ct.Key

	wantM, wantL := ek.dims()
	if wantM != m || wantL != l {
		return zero, fmt.Errorf("%w: EncapKey dimensions (m=%d,l=%d) do not match circuit (m=%d,l=%d)", zkerr.ErrMalformedInput, wantM, wantL, m, l)
	}
	d, err := qap.NewDomain(suite, qap.DomainSize(cs))
	if err != nil {
		return zero, err
	}
	if len(ek.RUG1) != m || len(ek.RVG2) != m {
		return zero, fmt.Errorf("%w: ru_g1/rv_g2 length mismatch", zkerr.ErrMalformedInput)
	}
	if len(ek.PhiDeltaG1) != m-l-1 {
		return zero, fmt.Errorf("%w: phi_delta_g1 length mismatch", zkerr.ErrMalformedInput)
	}
	if uint64(len(ek.HG1)) != d.N-1 {
		return zero, fmt.Errorf("%w: h_g1 length mismatch", zkerr.ErrMalformedInput)
	}
	if len(witness) != m {
		return zero, fmt.Errorf("%w: witness has %d wires, want %d", zkerr.ErrMalformedInput, len(witness), m)
	}
	if !suite.ScalarEqual(witness[0], suite.ScalarOne()) {
		return zero, fmt.Errorf("%w: wire 0 must be 1", zkerr.ErrMalformedInput)
	}
	if len(ct.Public) != l {
		return zero, fmt.Errorf("%w: ciphertext has %d public inputs, want %d", zkerr.ErrMalformedInput, len(ct.Public), l)
	}
	for j := 0; j < l; j++ {
		if !suite.ScalarEqual(witness[j+1], ct.Public[j]) {
			return zero, fmt.Errorf("%w: witness public input %d does not match ciphertext", zkerr.ErrMalformedInput, j)
		}
	}

	h, err := qap.WitnessMap(suite, cs, witness)
	if err != nil {
		return zero, err
	}

	aPoint, err := suite.G1MSM(ek.RUG1, witness)
	if err != nil {
		return zero, err
	}
	a := suite.G1Add(ek.AlphaG1, aPoint)

	bPoint, err := suite.G2MSM(ek.RVG2, witness)
	if err != nil {
		return zero, err
	}
	b := suite.G2Add(ek.BetaG2, bPoint)

	cPrivate, err := suite.G1MSM(ek.PhiDeltaG1, witness[l+1:])
	if err != nil {
		return zero, err
	}
	cQuotient, err := suite.G1MSM(ek.HG1, h)
	if err != nil {
		return zero, err
	}
	c := suite.G1Add(cPrivate, cQuotient)

	s, err := suite.PairingProduct(a, b, suite.G1Neg(c), ek.DeltaG2)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	return kdf.DeriveKey(suite, s), nil
}
