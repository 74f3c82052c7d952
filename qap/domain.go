// Package qap implements the R1CS→QAP reduction (spec §4.1): the
// evaluation domain, the closed-form Lagrange-basis evaluation at a
// challenge point, and the witness-to-quotient map used by Decap to
// recompute h(X).
//
// Everything here is written once against curve.Suite and works
// identically for BN254 and BLS12-381 — this package, together with
// wkem, is the "monomorphic" half of spec §9's trait-family split.
package qap

import (
	"fmt"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/zkerr"
)

// Domain is a multiplicative evaluation domain H = {ω^0, ..., ω^(N-1)}
// of size N, a power of two, used both as the QAP's interpolation domain
// and as the FFT domain for the coset quotient computation.
type Domain struct {
	suite   curve.Suite
	N       uint64
	Root    curve.Scalar // ω
	RootInv curve.Scalar // ω⁻¹
	NInv    curve.Scalar // N⁻¹
	Coset   curve.Scalar // coset shift g, a non-domain-member field generator
	powers  []curve.Scalar
}

// NewDomain builds the smallest power-of-two domain with cardinality at
// least minSize, per spec §3: "N ≥ n + ℓ + 1, the smallest power of two
// satisfying the bound."
func NewDomain(suite curve.Suite, minSize uint64) (*Domain, error) {
	n := nextPowerOfTwo(minSize)
	root, err := suite.PrimitiveRoot(n)
	if err != nil {
		return nil, fmt.Errorf("%w: building domain of size %d: %v", zkerr.ErrInternal, n, err)
	}
	rootInv, err := suite.ScalarInverse(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	nInv, err := suite.ScalarInverse(suite.ScalarFromUint64(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.ErrInternal, err)
	}
	powers := make([]curve.Scalar, n)
	cur := suite.ScalarOne()
	for i := uint64(0); i < n; i++ {
		powers[i] = cur
		cur = suite.ScalarMul(cur, root)
	}
	// A small fixed non-domain-member coset shift; 7 generates a coset
	// disjoint from any power-of-two subgroup for the curves we target,
	// the same constant groth16 implementations commonly use.
	coset := suite.ScalarFromUint64(7)
	return &Domain{
		suite:   suite,
		N:       n,
		Root:    root,
		RootInv: rootInv,
		NInv:    nInv,
		Coset:   coset,
		powers:  powers,
	}, nil
}

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// At returns ω^i.
func (d *Domain) At(i uint64) curve.Scalar {
	return d.powers[i%d.N]
}

func scalarPow(suite curve.Suite, base curve.Scalar, exp uint64) curve.Scalar {
	result := suite.ScalarOne()
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = suite.ScalarMul(result, b)
		}
		b = suite.ScalarMul(b, b)
		exp >>= 1
	}
	return result
}

func bitReverse(a []curve.Scalar) {
	n := len(a)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// fftInPlace runs an iterative radix-2 Cooley-Tukey transform over a,
// whose length must equal d.N, using root as the primitive N-th root of
// unity (d.Root for the forward transform, d.RootInv for the inverse).
func (d *Domain) fftInPlace(a []curve.Scalar, root curve.Scalar) {
	suite := d.suite
	n := uint64(len(a))
	bitReverse(a)
	for length := uint64(2); length <= n; length <<= 1 {
		wlen := scalarPow(suite, root, n/length)
		for i := uint64(0); i < n; i += length {
			w := suite.ScalarOne()
			half := length / 2
			for j := uint64(0); j < half; j++ {
				u := a[i+j]
				v := suite.ScalarMul(a[i+j+half], w)
				a[i+j] = suite.ScalarAdd(u, v)
				a[i+j+half] = suite.ScalarSub(u, v)
				w = suite.ScalarMul(w, wlen)
			}
		}
	}
}

// FFT evaluates the polynomial with coefficients coeffs (length N) at
// the domain points ω^0..ω^(N-1), in place.
func (d *Domain) FFT(coeffs []curve.Scalar) {
	d.fftInPlace(coeffs, d.Root)
}

// IFFT interpolates the polynomial whose values at ω^0..ω^(N-1) are
// evals, returning its coefficients, in place.
func (d *Domain) IFFT(evals []curve.Scalar) {
	d.fftInPlace(evals, d.RootInv)
	for i := range evals {
		evals[i] = d.suite.ScalarMul(evals[i], d.NInv)
	}
}

// cosetScale multiplies coeffs[i] by coset^i in place, the standard
// trick for evaluating/interpolating on a shifted coset via the plain
// domain FFT (spec §4.1's "coset FFT").
func (d *Domain) cosetScale(coeffs []curve.Scalar, coset curve.Scalar) {
	suite := d.suite
	pow := suite.ScalarOne()
	for i := range coeffs {
		coeffs[i] = suite.ScalarMul(coeffs[i], pow)
		pow = suite.ScalarMul(pow, coset)
	}
}
