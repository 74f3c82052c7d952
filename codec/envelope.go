package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/flyinglimao/zkenc/zkerr"
)

// Envelope is the combined-ciphertext outer format (spec §6.1).
type Envelope struct {
	IncludePublic   bool
	WCT             []byte // WKEM ciphertext, opaque to this layer
	PublicInputJSON []byte // present iff IncludePublic
	AEAD            []byte // nonce ‖ ciphertext ‖ tag
}

// EncodeEnvelope assembles the bit-exact layout of spec §6.1:
//
//	+0  u8  flag
//	+1  u32 wct_len
//	     wct bytes
//	     [if flag=1: u32 pi_len, pi bytes]
//	     aead bytes
func EncodeEnvelope(e *Envelope) []byte {
	var flag byte
	if e.IncludePublic {
		flag = 1
	}
	out := make([]byte, 0, 1+4+len(e.WCT)+4+len(e.PublicInputJSON)+len(e.AEAD))
	out = append(out, flag)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.WCT)))
	out = append(out, lenBuf[:]...)
	out = append(out, e.WCT...)
	if e.IncludePublic {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.PublicInputJSON)))
		out = append(out, lenBuf[:]...)
		out = append(out, e.PublicInputJSON...)
	}
	out = append(out, e.AEAD...)
	return out
}

// DecodeEnvelope parses the layout EncodeEnvelope produces. It does not
// interpret WCT (the caller passes it to DecodeCiphertext once the
// circuit's dimensions are known).
func DecodeEnvelope(b []byte) (*Envelope, error) {
	r := &reader{buf: b}
	flagB, err := r.take(1)
	if err != nil {
		return nil, err
	}
	flag := flagB[0]
	if flag != 0 && flag != 1 {
		return nil, fmt.Errorf("%w: envelope flag byte must be 0 or 1, got %d", zkerr.ErrMalformedInput, flag)
	}
	wctLenB, err := r.take(4)
	if err != nil {
		return nil, err
	}
	wctLen := binary.BigEndian.Uint32(wctLenB)
	wct, err := r.take(int(wctLen))
	if err != nil {
		return nil, err
	}
	e := &Envelope{IncludePublic: flag == 1, WCT: append([]byte(nil), wct...)}
	if e.IncludePublic {
		piLenB, err := r.take(4)
		if err != nil {
			return nil, err
		}
		piLen := binary.BigEndian.Uint32(piLenB)
		pi, err := r.take(int(piLen))
		if err != nil {
			return nil, err
		}
		e.PublicInputJSON = append([]byte(nil), pi...)
	}
	e.AEAD = append([]byte(nil), b[r.pos:]...)
	return e, nil
}
