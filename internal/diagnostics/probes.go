package diagnostics

import (
	"crypto/rand"
	"fmt"

	"github.com/flyinglimao/zkenc/aead"
	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/qap"
)

// RegisterCryptoProbes wires the arithmetic self-checks `selftest` runs
// against a concrete suite: scalar field inverse/pairing sanity, an
// FFT/IFFT round trip, and an AEAD round trip. None of these touch an
// actual circuit — they exercise the primitives zkenc's correctness
// rests on.
func RegisterCryptoProbes(r *Registry, suite curve.Suite) {
	r.Register(suite.Name()+":scalar-field", func() error { return probeScalarField(suite) })
	r.Register(suite.Name()+":pairing", func() error { return probePairing(suite) })
	r.Register(suite.Name()+":fft-roundtrip", func() error { return probeFFT(suite) })
	r.Register("aead-roundtrip", probeAEAD)
}

func probeScalarField(suite curve.Suite) error {
	a, err := suite.ScalarRandom(rand.Reader)
	if err != nil {
		return fmt.Errorf("sampling scalar: %w", err)
	}
	if suite.ScalarIsZero(a) {
		return fmt.Errorf("sampled zero scalar")
	}
	inv, err := suite.ScalarInverse(a)
	if err != nil {
		return fmt.Errorf("inverting scalar: %w", err)
	}
	prod := suite.ScalarMul(a, inv)
	if !suite.ScalarEqual(prod, suite.ScalarOne()) {
		return fmt.Errorf("a * a^-1 != 1")
	}
	return nil
}

func probePairing(suite curve.Suite) error {
	g1 := suite.G1Generator()
	g2 := suite.G2Generator()
	a, err := suite.ScalarRandom(rand.Reader)
	if err != nil {
		return err
	}
	b, err := suite.ScalarRandom(rand.Reader)
	if err != nil {
		return err
	}
	left, err := suite.Pair(suite.G1ScalarMul(g1, a), suite.G2ScalarMul(g2, b))
	if err != nil {
		return fmt.Errorf("pairing e(aG1,bG2): %w", err)
	}
	ab := suite.ScalarMul(a, b)
	right, err := suite.Pair(suite.G1ScalarMul(g1, ab), g2)
	if err != nil {
		return fmt.Errorf("pairing e(abG1,G2): %w", err)
	}
	if !suite.GTEqual(left, right) {
		return fmt.Errorf("bilinearity check failed: e(aG1,bG2) != e(abG1,G2)")
	}
	return nil
}

func probeFFT(suite curve.Suite) error {
	const n = 8
	d, err := qap.NewDomain(suite, n)
	if err != nil {
		return fmt.Errorf("constructing domain: %w", err)
	}
	coeffs := make([]curve.Scalar, n)
	for i := range coeffs {
		coeffs[i] = suite.ScalarFromUint64(uint64(i + 1))
	}
	evals := append([]curve.Scalar(nil), coeffs...)
	d.FFT(evals)
	d.IFFT(evals)
	for i := range coeffs {
		if !suite.ScalarEqual(coeffs[i], evals[i]) {
			return fmt.Errorf("IFFT(FFT(x)) != x at index %d", i)
		}
	}
	return nil
}

func probeAEAD() error {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		return err
	}
	plaintext := []byte("zkenc selftest payload")
	blob, err := aead.Encrypt(rand.Reader, key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	out, err := aead.Decrypt(key, blob)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	if string(out) != string(plaintext) {
		return fmt.Errorf("round-trip mismatch")
	}
	return nil
}
