// Package circom parses the Circom toolchain's binary artifacts — the
// .r1cs constraint system, the snarkjs .wtns witness file, and the
// textual .sym symbol table — and maps JSON-shaped inputs onto wire
// indices (spec §4.5).
package circom

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/zkerr"
)

const (
	r1csMagic       = "r1cs"
	r1csHeaderType  = 1
	r1csConstraints = 2
)

// ParseR1CS parses a Circom binary .r1cs file into an r1cs.R1CS bound to
// suite. Section types other than header and constraints (e.g. the
// optional wire-to-label map) are skipped: spec §4.5 only requires them
// "used for sanity", not for building the constraint system.
func ParseR1CS(suite curve.Suite, data []byte) (*r1cs.R1CS, error) {
	br := &byteReader{buf: data}

	magic, err := br.take(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != r1csMagic {
		return nil, fmt.Errorf("%w: bad r1cs magic %q", zkerr.ErrUnsupportedFormat, magic)
	}
	version, err := br.u32()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, fmt.Errorf("%w: unsupported r1cs version %d", zkerr.ErrUnsupportedFormat, version)
	}
	nSections, err := br.u32()
	if err != nil {
		return nil, err
	}

	var hdr *r1csHeader
	var constraints []r1cs.Constraint

	for s := uint32(0); s < nSections; s++ {
		secType, err := br.u32()
		if err != nil {
			return nil, err
		}
		secSize, err := br.u64()
		if err != nil {
			return nil, err
		}
		payload, err := br.take(int(secSize))
		if err != nil {
			return nil, err
		}
		switch secType {
		case r1csHeaderType:
			hdr, err = parseR1CSHeader(suite, payload)
			if err != nil {
				return nil, err
			}
		case r1csConstraints:
			if hdr == nil {
				return nil, fmt.Errorf("%w: constraints section before header section", zkerr.ErrMalformedInput)
			}
			constraints, err = parseConstraints(suite, payload, hdr)
			if err != nil {
				return nil, err
			}
		}
	}
	if hdr == nil {
		return nil, fmt.Errorf("%w: r1cs missing header section", zkerr.ErrMalformedInput)
	}
	if constraints == nil {
		constraints = []r1cs.Constraint{}
	}

	cs := &r1cs.R1CS{
		Suite:       suite,
		NWires:      hdr.nWires,
		NPublic:     hdr.nPubOut + hdr.nPubIn,
		Constraints: constraints,
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

type r1csHeader struct {
	fieldSize    uint32
	nWires       uint32
	nPubOut      uint32
	nPubIn       uint32
	nPrvIn       uint32
	nLabels      uint64
	nConstraints uint32
}

func parseR1CSHeader(suite curve.Suite, payload []byte) (*r1csHeader, error) {
	br := &byteReader{buf: payload}
	fieldSize, err := br.u32()
	if err != nil {
		return nil, err
	}
	prime, err := br.take(int(fieldSize))
	if err != nil {
		return nil, err
	}
	if !feMatchesSuite(suite, prime) {
		return nil, fmt.Errorf("%w: r1cs field characteristic does not match suite %s", zkerr.ErrMalformedInput, suite.Name())
	}
	nWires, err := br.u32()
	if err != nil {
		return nil, err
	}
	nPubOut, err := br.u32()
	if err != nil {
		return nil, err
	}
	nPubIn, err := br.u32()
	if err != nil {
		return nil, err
	}
	nPrvIn, err := br.u32()
	if err != nil {
		return nil, err
	}
	nLabels, err := br.u64()
	if err != nil {
		return nil, err
	}
	nConstraints, err := br.u32()
	if err != nil {
		return nil, err
	}
	return &r1csHeader{
		fieldSize:    fieldSize,
		nWires:       nWires,
		nPubOut:      nPubOut,
		nPubIn:       nPubIn,
		nPrvIn:       nPrvIn,
		nLabels:      nLabels,
		nConstraints: nConstraints,
	}, nil
}

// feMatchesSuite compares the little-endian prime bytes from the r1cs
// header against the suite's scalar field modulus, so a .r1cs compiled
// for the wrong curve is rejected as MalformedInput rather than
// producing silently wrong field elements.
func feMatchesSuite(suite curve.Suite, leBytes []byte) bool {
	be := make([]byte, len(leBytes))
	for i, b := range leBytes {
		be[len(leBytes)-1-i] = b
	}
	got := new(big.Int).SetBytes(be)
	want := suite.ScalarFieldModulus()
	return got.Cmp(want) == 0
}

func parseConstraints(suite curve.Suite, payload []byte, hdr *r1csHeader) ([]r1cs.Constraint, error) {
	br := &byteReader{buf: payload}
	out := make([]r1cs.Constraint, hdr.nConstraints)
	for i := range out {
		a, err := parseLC(suite, br, hdr.fieldSize)
		if err != nil {
			return nil, err
		}
		b, err := parseLC(suite, br, hdr.fieldSize)
		if err != nil {
			return nil, err
		}
		c, err := parseLC(suite, br, hdr.fieldSize)
		if err != nil {
			return nil, err
		}
		out[i] = r1cs.Constraint{A: a, B: b, C: c}
	}
	return out, nil
}

func parseLC(suite curve.Suite, br *byteReader, fieldSize uint32) ([]r1cs.Term, error) {
	nTerms, err := br.u32()
	if err != nil {
		return nil, err
	}
	terms := make([]r1cs.Term, nTerms)
	for i := range terms {
		wireID, err := br.u32()
		if err != nil {
			return nil, err
		}
		coeffLE, err := br.take(int(fieldSize))
		if err != nil {
			return nil, err
		}
		coeff, err := scalarFromLE(suite, coeffLE)
		if err != nil {
			return nil, err
		}
		terms[i] = r1cs.Term{Wire: wireID, Coeff: coeff}
	}
	return terms, nil
}

// scalarFromLE interprets coeffLE (Circom's little-endian field element
// encoding) as a scalar in suite's field; curve.Suite.ScalarFromBytes
// already expects little-endian (spec §3), so no reversal is needed.
func scalarFromLE(suite curve.Suite, coeffLE []byte) (curve.Scalar, error) {
	if len(coeffLE) == suite.FieldBytes() {
		return suite.ScalarFromBytes(coeffLE)
	}
	padded := make([]byte, suite.FieldBytes())
	copy(padded, coeffLE)
	s, err := suite.ScalarFromBytes(padded)
	if err != nil {
		return curve.Scalar{}, fmt.Errorf("%w: %v", zkerr.ErrCoefficientOutOfField, err)
	}
	return s, nil
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("%w: expected %d more bytes, have %d", zkerr.ErrTruncatedInput, n, len(r.buf)-r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
