package qap

import (
	"fmt"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/zkerr"
)

// EvalResult is the output of EvaluateAt: the three wire-indexed vectors
// of QAP polynomial values at the challenge point x, and t(x).
type EvalResult struct {
	U, V, W []curve.Scalar // length m
	Tx      curve.Scalar
}

// DomainSize returns the smallest power-of-two domain cardinality for an
// R1CS with n constraints and ℓ public inputs, per spec §3.
func DomainSize(cs *r1cs.R1CS) uint64 {
	return nextPowerOfTwo(uint64(cs.N() + cs.L() + 1))
}

// EvaluateAt implements qap_evaluate_at (spec §4.1 op 1): for each wire
// j, evaluate uⱼ(x), vⱼ(x), wⱼ(x) by summing sparse constraint
// contributions weighted by the Lagrange basis at x, using the closed
// form Lᵢ(x) = ωⁱ·(xᴺ-1) / (N·(x-ωⁱ)), with batched inversion of the
// denominators (Montgomery's trick).
func EvaluateAt(suite curve.Suite, cs *r1cs.R1CS, x curve.Scalar) (*EvalResult, error) {
	d, err := NewDomain(suite, DomainSize(cs))
	if err != nil {
		return nil, err
	}

	xN := scalarPow(suite, x, d.N)
	tx := suite.ScalarSub(xN, suite.ScalarOne())
	if suite.ScalarIsZero(tx) {
		return nil, zkerr.ErrDomainCollision
	}

	n := cs.N()
	// denom[i] = N * (x - ω^i), for i < n only: rows i >= n
	// contribute nothing (all-zero constraint rows), so their Lagrange
	// coefficients are never needed.
	denom := make([]curve.Scalar, n)
	nScalar := suite.ScalarFromUint64(d.N)
	for i := 0; i < n; i++ {
		wi := d.At(uint64(i))
		diff := suite.ScalarSub(x, wi)
		denom[i] = suite.ScalarMul(nScalar, diff)
	}
	invDenom, err := batchInverse(suite, denom)
	if err != nil {
		// A zero denominator means x - ω^i = 0 for some i, i.e. x
		// collided with a domain point.
		return nil, zkerr.ErrDomainCollision
	}

	m := cs.M()
	u := make([]curve.Scalar, m)
	v := make([]curve.Scalar, m)
	w := make([]curve.Scalar, m)
	for j := range u {
		u[j] = suite.ScalarZero()
		v[j] = suite.ScalarZero()
		w[j] = suite.ScalarZero()
	}

	for i := 0; i < n; i++ {
		li := suite.ScalarMul(suite.ScalarMul(tx, d.At(uint64(i))), invDenom[i])
		if suite.ScalarIsZero(li) {
			continue
		}
		c := cs.Constraints[i]
		for _, t := range c.A {
			u[t.Wire] = suite.ScalarAdd(u[t.Wire], suite.ScalarMul(t.Coeff, li))
		}
		for _, t := range c.B {
			v[t.Wire] = suite.ScalarAdd(v[t.Wire], suite.ScalarMul(t.Coeff, li))
		}
		for _, t := range c.C {
			w[t.Wire] = suite.ScalarAdd(w[t.Wire], suite.ScalarMul(t.Coeff, li))
		}
	}

	return &EvalResult{U: u, V: v, W: w, Tx: tx}, nil
}

// batchInverse inverts every element of in using Montgomery's trick: one
// field inversion plus 3(len-1) multiplications instead of len
// inversions. Returns zkerr.ErrInternal (wrapped by callers as
// DomainCollision where relevant) if any element is zero.
func batchInverse(suite curve.Suite, in []curve.Scalar) ([]curve.Scalar, error) {
	n := len(in)
	if n == 0 {
		return nil, nil
	}
	prefix := make([]curve.Scalar, n)
	acc := suite.ScalarOne()
	for i, e := range in {
		if suite.ScalarIsZero(e) {
			return nil, fmt.Errorf("%w: batch inverse of zero element at index %d", zkerr.ErrInternal, i)
		}
		prefix[i] = acc
		acc = suite.ScalarMul(acc, e)
	}
	accInv, err := suite.ScalarInverse(acc)
	if err != nil {
		return nil, err
	}
	out := make([]curve.Scalar, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = suite.ScalarMul(accInv, prefix[i])
		accInv = suite.ScalarMul(accInv, in[i])
	}
	return out, nil
}

// WitnessMap implements witness_map (spec §4.1 op 2): given a full
// satisfying assignment a, compute the evaluation-form products
// A(ωⁱ), B(ωⁱ), C(ωⁱ) by scanning constraints, verify the R1CS is
// satisfied, then compute the quotient h(X) = (A(X)B(X)-C(X))/t(X) via
// a coset FFT.
func WitnessMap(suite curve.Suite, cs *r1cs.R1CS, a []curve.Scalar) ([]curve.Scalar, error) {
	if len(a) != cs.M() {
		return nil, fmt.Errorf("%w: assignment has %d wires, want %d", zkerr.ErrMalformedInput, len(a), cs.M())
	}
	d, err := NewDomain(suite, DomainSize(cs))
	if err != nil {
		return nil, err
	}
	n := cs.N()

	aEval := make([]curve.Scalar, d.N)
	bEval := make([]curve.Scalar, d.N)
	cEval := make([]curve.Scalar, d.N)
	for i := range aEval {
		aEval[i] = suite.ScalarZero()
		bEval[i] = suite.ScalarZero()
		cEval[i] = suite.ScalarZero()
	}

	for i := 0; i < n; i++ {
		c := cs.Constraints[i]
		aEval[i] = r1cs.EvalRow(suite, c.A, a)
		bEval[i] = r1cs.EvalRow(suite, c.B, a)
		cEval[i] = r1cs.EvalRow(suite, c.C, a)

		lhs := suite.ScalarMul(aEval[i], bEval[i])
		if !suite.ScalarEqual(lhs, cEval[i]) {
			return nil, fmt.Errorf("%w: constraint %d", zkerr.ErrNotSatisfied, i)
		}
	}
	// Rows n..N-1 are all-zero padding: 0*0-0=0, trivially satisfied.

	aCoef := append([]curve.Scalar(nil), aEval...)
	bCoef := append([]curve.Scalar(nil), bEval...)
	cCoef := append([]curve.Scalar(nil), cEval...)
	d.IFFT(aCoef)
	d.IFFT(bCoef)
	d.IFFT(cCoef)

	d.cosetScale(aCoef, d.Coset)
	d.cosetScale(bCoef, d.Coset)
	d.cosetScale(cCoef, d.Coset)
	d.FFT(aCoef)
	d.FFT(bCoef)
	d.FFT(cCoef)

	// t(X) on the coset is the constant g^N - 1 (every coset point z
	// satisfies z^N = g^N).
	gN := scalarPow(suite, d.Coset, d.N)
	tCoset := suite.ScalarSub(gN, suite.ScalarOne())
	if suite.ScalarIsZero(tCoset) {
		return nil, fmt.Errorf("%w: coset shift collided with the domain", zkerr.ErrInternal)
	}
	tCosetInv, err := suite.ScalarInverse(tCoset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}

	hEval := make([]curve.Scalar, d.N)
	for i := range hEval {
		prod := suite.ScalarMul(aCoef[i], bCoef[i])
		num := suite.ScalarSub(prod, cCoef[i])
		hEval[i] = suite.ScalarMul(num, tCosetInv)
	}

	d.IFFT(hEval)
	cosetInv, err := suite.ScalarInverse(d.Coset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	d.cosetScale(hEval, cosetInv)

	// deg(h) <= N-2, so the top coefficient must vanish.
	if !suite.ScalarIsZero(hEval[d.N-1]) {
		return nil, fmt.Errorf("%w: quotient has unexpected degree", zkerr.ErrInternal)
	}
	return hEval[:d.N-1], nil
}
