// Package codec implements the wire formats of spec §4.4, §6.1 and §6.2:
// the inner WKEM ciphertext (σ plus public inputs) and the outer
// combined-ciphertext envelope (WKEM ciphertext, optional embedded
// public-input JSON, AEAD blob).
//
// All multi-byte integers are big-endian (spec §6.1). Point fields use
// each curve's canonical compressed affine encoding; decoding rejects
// non-canonical encodings and non-subgroup points by relying on
// curve.Suite.G1FromBytes/G2FromBytes, which enable the underlying
// library's subgroup checks (spec §4.4: "they must be enabled").
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/wkem"
	"github.com/flyinglimao/zkenc/zkerr"
)

// EncodeCiphertext serializes a wkem.Ciphertext per spec §6.2: σ in
// order (α_g1, β_g2, δ_g2, r_u_g1[0..m], r_v_g2[0..m],
// phi_delta_g1[0..m-ℓ-1], h_g1[0..N-1]), followed by a u32 count and
// that many fixed-width scalars for the public inputs.
func EncodeCiphertext(suite curve.Suite, ct *wkem.Ciphertext) []byte {
	ek := ct.Key
	var out []byte
	out = append(out, suite.G1Bytes(ek.AlphaG1)...)
	out = append(out, suite.G2Bytes(ek.BetaG2)...)
	out = append(out, suite.G2Bytes(ek.DeltaG2)...)
	for _, p := range ek.RUG1 {
		out = append(out, suite.G1Bytes(p)...)
	}
	for _, p := range ek.RVG2 {
		out = append(out, suite.G2Bytes(p)...)
	}
	for _, p := range ek.PhiDeltaG1 {
		out = append(out, suite.G1Bytes(p)...)
	}
	for _, p := range ek.HG1 {
		out = append(out, suite.G1Bytes(p)...)
	}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(ct.Public)))
	out = append(out, countBuf[:]...)
	for _, s := range ct.Public {
		out = append(out, suite.ScalarBytes(s)...)
	}
	return out
}

// DecodeCiphertext parses the bytes EncodeCiphertext produces. The
// circuit's (m, ℓ, N) dimensions are required since the inner σ carries
// no explicit vector lengths (spec §4.4: "implicit from circuit
// dimensions for the inner σ").
func DecodeCiphertext(suite curve.Suite, cs *r1cs.R1CS, domainN uint64, b []byte) (*wkem.Ciphertext, error) {
	m := cs.M()
	l := cs.L()
	g1Size := suite.G1CompressedSize()
	g2Size := suite.G2CompressedSize()
	fieldSize := suite.FieldBytes()

	r := &reader{buf: b}
	alphaG1, err := readG1(suite, r, g1Size)
	if err != nil {
		return nil, err
	}
	betaG2, err := readG2(suite, r, g2Size)
	if err != nil {
		return nil, err
	}
	deltaG2, err := readG2(suite, r, g2Size)
	if err != nil {
		return nil, err
	}
	ruG1 := make([]curve.G1, m)
	for i := range ruG1 {
		ruG1[i], err = readG1(suite, r, g1Size)
		if err != nil {
			return nil, err
		}
	}
	rvG2 := make([]curve.G2, m)
	for i := range rvG2 {
		rvG2[i], err = readG2(suite, r, g2Size)
		if err != nil {
			return nil, err
		}
	}
	phiDeltaG1 := make([]curve.G1, m-l-1)
	for i := range phiDeltaG1 {
		phiDeltaG1[i], err = readG1(suite, r, g1Size)
		if err != nil {
			return nil, err
		}
	}
	hG1 := make([]curve.G1, domainN-1)
	for i := range hG1 {
		hG1[i], err = readG1(suite, r, g1Size)
		if err != nil {
			return nil, err
		}
	}
	countBuf, err := r.take(4)
	if err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint32(countBuf)
	if int(count) != l {
		return nil, fmt.Errorf("%w: ciphertext declares %d public inputs, circuit has %d", zkerr.ErrMalformedInput, count, l)
	}
	public := make([]curve.Scalar, count)
	for i := range public {
		sb, err := r.take(fieldSize)
		if err != nil {
			return nil, err
		}
		public[i], err = suite.ScalarFromBytes(sb)
		if err != nil {
			return nil, err
		}
	}
	if !r.empty() {
		return nil, fmt.Errorf("%w: trailing bytes after WKEM ciphertext", zkerr.ErrMalformedInput)
	}

	ek := &wkem.EncapKey{
		AlphaG1:    alphaG1,
		BetaG2:     betaG2,
		DeltaG2:    deltaG2,
		RUG1:       ruG1,
		RVG2:       rvG2,
		PhiDeltaG1: phiDeltaG1,
		HG1:        hG1,
	}
	return &wkem.Ciphertext{Key: ek, Public: public}, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("%w: expected %d more bytes, have %d", zkerr.ErrTruncatedInput, n, len(r.buf)-r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) empty() bool { return r.pos == len(r.buf) }

func readG1(suite curve.Suite, r *reader, size int) (curve.G1, error) {
	b, err := r.take(size)
	if err != nil {
		return curve.G1{}, err
	}
	return suite.G1FromBytes(b)
}

func readG2(suite curve.Suite, r *reader, size int) (curve.G2, error) {
	b, err := r.take(size)
	if err != nil {
		return curve.G2{}, err
	}
	return suite.G2FromBytes(b)
}
