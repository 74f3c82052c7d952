package circom

import (
	"fmt"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/zkerr"
)

const (
	wtnsMagic      = "wtns"
	wtnsHeaderType = 1
	wtnsBodyType   = 2
)

// ParseWitness parses a snarkjs .wtns v2 file into a witness vector of
// length m, validated against the circuit's wire count (spec §4.5:
// "Validates count against R1CS m").
func ParseWitness(suite curve.Suite, data []byte, m int) ([]curve.Scalar, error) {
	br := &byteReader{buf: data}
	magic, err := br.take(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != wtnsMagic {
		return nil, fmt.Errorf("%w: bad wtns magic %q", zkerr.ErrUnsupportedFormat, magic)
	}
	version, err := br.u32()
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, fmt.Errorf("%w: unsupported wtns version %d", zkerr.ErrUnsupportedFormat, version)
	}
	nSections, err := br.u32()
	if err != nil {
		return nil, err
	}

	var fieldSize uint32
	var count uint32
	var body []byte
	haveHeader := false

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
		case wtnsHeaderType:
			hr := &byteReader{buf: payload}
			fieldSize, err = hr.u32()
			if err != nil {
				return nil, err
			}
			if _, err := hr.take(int(fieldSize)); err != nil { // prime, unused beyond sizing
				return nil, err
			}
			count, err = hr.u32()
			if err != nil {
				return nil, err
			}
			haveHeader = true
		case wtnsBodyType:
			body = payload
		}
	}
	if !haveHeader {
		return nil, fmt.Errorf("%w: wtns missing header section", zkerr.ErrMalformedInput)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: wtns missing body section", zkerr.ErrMalformedInput)
	}
	if int(count) != m {
		return nil, fmt.Errorf("%w: wtns has %d values, circuit has %d wires", zkerr.ErrMalformedInput, count, m)
	}

	bodyR := &byteReader{buf: body}
	out := make([]curve.Scalar, count)
	for i := range out {
		elemLE, err := bodyR.take(int(fieldSize))
		if err != nil {
			return nil, err
		}
		out[i], err = scalarFromLE(suite, elemLE)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
