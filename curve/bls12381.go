package curve

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bls12381fft "github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/flyinglimao/zkenc/zkerr"
)

// BLS12381 is the Suite accepted for testing (spec §6.4).
type BLS12381 struct{}

func (BLS12381) Name() string    { return "bls12-381" }
func (BLS12381) FieldBytes() int { return 32 }

func (BLS12381) ScalarFieldModulus() *big.Int {
	return bls12381fr.Modulus()
}

func bls12381FrOf(s Scalar) (*bls12381fr.Element, error) {
	e, ok := s.v.(bls12381fr.Element)
	if !ok {
		return nil, fmt.Errorf("%w: scalar is not a bls12-381 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BLS12381) ScalarRandom(rnd io.Reader) (Scalar, error) {
	v, err := scalarFromReaderModulus(rnd, bls12381fr.Modulus())
	if err != nil {
		return Scalar{}, err
	}
	var e bls12381fr.Element
	e.SetBigInt(v)
	return Scalar{e}, nil
}

func (BLS12381) ScalarZero() Scalar {
	var e bls12381fr.Element
	return Scalar{e}
}

func (BLS12381) ScalarOne() Scalar {
	var e bls12381fr.Element
	e.SetOne()
	return Scalar{e}
}

func (BLS12381) ScalarFromUint64(v uint64) Scalar {
	var e bls12381fr.Element
	e.SetUint64(v)
	return Scalar{e}
}

func (BLS12381) ScalarFromBigInt(v *big.Int) Scalar {
	var e bls12381fr.Element
	e.SetBigInt(v)
	return Scalar{e}
}

func (s BLS12381) ScalarAdd(a, b Scalar) Scalar {
	ae, _ := bls12381FrOf(a)
	be, _ := bls12381FrOf(b)
	var r bls12381fr.Element
	r.Add(ae, be)
	return Scalar{r}
}

func (s BLS12381) ScalarSub(a, b Scalar) Scalar {
	ae, _ := bls12381FrOf(a)
	be, _ := bls12381FrOf(b)
	var r bls12381fr.Element
	r.Sub(ae, be)
	return Scalar{r}
}

func (s BLS12381) ScalarMul(a, b Scalar) Scalar {
	ae, _ := bls12381FrOf(a)
	be, _ := bls12381FrOf(b)
	var r bls12381fr.Element
	r.Mul(ae, be)
	return Scalar{r}
}

func (s BLS12381) ScalarNeg(a Scalar) Scalar {
	ae, _ := bls12381FrOf(a)
	var r bls12381fr.Element
	r.Neg(ae)
	return Scalar{r}
}

func (s BLS12381) ScalarInverse(a Scalar) (Scalar, error) {
	ae, _ := bls12381FrOf(a)
	if ae.IsZero() {
		return Scalar{}, fmt.Errorf("%w: inverse of zero", zkerr.ErrInternal)
	}
	var r bls12381fr.Element
	r.Inverse(ae)
	return Scalar{r}, nil
}

func (s BLS12381) ScalarEqual(a, b Scalar) bool {
	ae, _ := bls12381FrOf(a)
	be, _ := bls12381FrOf(b)
	return ae.Equal(be)
}

func (s BLS12381) ScalarIsZero(a Scalar) bool {
	ae, _ := bls12381FrOf(a)
	return ae.IsZero()
}

func (s BLS12381) ScalarBytes(a Scalar) []byte {
	ae, _ := bls12381FrOf(a)
	be := ae.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

func (s BLS12381) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, fmt.Errorf("%w: scalar must be 32 bytes, got %d", zkerr.ErrMalformedInput, len(b))
	}
	be := make([]byte, 32)
	for i, c := range b {
		be[31-i] = c
	}
	var e bls12381fr.Element
	e.SetBytes(be)
	return Scalar{e}, nil
}

func (s BLS12381) PrimitiveRoot(n uint64) (Scalar, error) {
	d := bls12381fft.NewDomain(n)
	if d.Cardinality != n {
		return Scalar{}, fmt.Errorf("%w: %d is not a power of two", zkerr.ErrInternal, n)
	}
	return Scalar{d.Generator}, nil
}

func bls12381G1Of(p G1) (*bls12381.G1Affine, error) {
	e, ok := p.v.(bls12381.G1Affine)
	if !ok {
		return nil, fmt.Errorf("%w: point is not a bls12-381 G1 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BLS12381) G1Zero() G1 {
	var p bls12381.G1Affine
	return G1{p}
}

func (BLS12381) G1Generator() G1 {
	_, _, g1, _ := bls12381.Generators()
	return G1{g1}
}

func (s BLS12381) G1Add(a, b G1) G1 {
	aa, _ := bls12381G1Of(a)
	ba, _ := bls12381G1Of(b)
	var aJac, bJac, rJac bls12381.G1Jac
	aJac.FromAffine(aa)
	bJac.FromAffine(ba)
	rJac.Set(&aJac).AddAssign(&bJac)
	var r bls12381.G1Affine
	r.FromJacobian(&rJac)
	return G1{r}
}

func (s BLS12381) G1Neg(a G1) G1 {
	aa, _ := bls12381G1Of(a)
	var r bls12381.G1Affine
	r.Neg(aa)
	return G1{r}
}

func (s BLS12381) G1ScalarMul(p G1, sc Scalar) G1 {
	pa, _ := bls12381G1Of(p)
	se, _ := bls12381FrOf(sc)
	var r bls12381.G1Affine
	r.ScalarMultiplication(pa, se.BigInt(new(big.Int)))
	return G1{r}
}

func (s BLS12381) G1MSM(points []G1, scalars []Scalar) (G1, error) {
	if len(points) != len(scalars) {
		return G1{}, fmt.Errorf("%w: MSM length mismatch: %d points, %d scalars", zkerr.ErrInternal, len(points), len(scalars))
	}
	pts := make([]bls12381.G1Affine, len(points))
	scs := make([]bls12381fr.Element, len(scalars))
	for i := range points {
		pa, err := bls12381G1Of(points[i])
		if err != nil {
			return G1{}, err
		}
		se, err := bls12381FrOf(scalars[i])
		if err != nil {
			return G1{}, err
		}
		pts[i] = *pa
		scs[i] = *se
	}
	var r bls12381.G1Affine
	if _, err := r.MultiExp(pts, scs, ecc.MultiExpConfig{}); err != nil {
		return G1{}, fmt.Errorf("%w: MSM failed: %v", zkerr.ErrInternal, err)
	}
	return G1{r}, nil
}

func (s BLS12381) G1Equal(a, b G1) bool {
	aa, _ := bls12381G1Of(a)
	ba, _ := bls12381G1Of(b)
	return aa.Equal(ba)
}

func (s BLS12381) G1Bytes(p G1) []byte {
	pa, _ := bls12381G1Of(p)
	b := pa.Bytes()
	return b[:]
}

func (s BLS12381) G1FromBytes(b []byte) (G1, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return G1{}, fmt.Errorf("%w: %v", zkerr.ErrMalformedInput, err)
	}
	if !p.IsInSubGroup() {
		return G1{}, fmt.Errorf("%w: G1 point not in subgroup", zkerr.ErrMalformedInput)
	}
	return G1{p}, nil
}

func (BLS12381) G1CompressedSize() int { return bls12381.SizeOfG1AffineCompressed }

func bls12381G2Of(p G2) (*bls12381.G2Affine, error) {
	e, ok := p.v.(bls12381.G2Affine)
	if !ok {
		return nil, fmt.Errorf("%w: point is not a bls12-381 G2 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BLS12381) G2Zero() G2 {
	var p bls12381.G2Affine
	return G2{p}
}

func (BLS12381) G2Generator() G2 {
	_, _, _, g2 := bls12381.Generators()
	return G2{g2}
}

func (s BLS12381) G2Add(a, b G2) G2 {
	aa, _ := bls12381G2Of(a)
	ba, _ := bls12381G2Of(b)
	var aJac, bJac, rJac bls12381.G2Jac
	aJac.FromAffine(aa)
	bJac.FromAffine(ba)
	rJac.Set(&aJac).AddAssign(&bJac)
	var r bls12381.G2Affine
	r.FromJacobian(&rJac)
	return G2{r}
}

func (s BLS12381) G2ScalarMul(p G2, sc Scalar) G2 {
	pa, _ := bls12381G2Of(p)
	se, _ := bls12381FrOf(sc)
	var r bls12381.G2Affine
	r.ScalarMultiplication(pa, se.BigInt(new(big.Int)))
	return G2{r}
}

func (s BLS12381) G2MSM(points []G2, scalars []Scalar) (G2, error) {
	if len(points) != len(scalars) {
		return G2{}, fmt.Errorf("%w: MSM length mismatch: %d points, %d scalars", zkerr.ErrInternal, len(points), len(scalars))
	}
	pts := make([]bls12381.G2Affine, len(points))
	scs := make([]bls12381fr.Element, len(scalars))
	for i := range points {
		pa, err := bls12381G2Of(points[i])
		if err != nil {
			return G2{}, err
		}
		se, err := bls12381FrOf(scalars[i])
		if err != nil {
			return G2{}, err
		}
		pts[i] = *pa
		scs[i] = *se
	}
	var r bls12381.G2Affine
	if _, err := r.MultiExp(pts, scs, ecc.MultiExpConfig{}); err != nil {
		return G2{}, fmt.Errorf("%w: MSM failed: %v", zkerr.ErrInternal, err)
	}
	return G2{r}, nil
}

func (s BLS12381) G2Equal(a, b G2) bool {
	aa, _ := bls12381G2Of(a)
	ba, _ := bls12381G2Of(b)
	return aa.Equal(ba)
}

func (s BLS12381) G2Bytes(p G2) []byte {
	pa, _ := bls12381G2Of(p)
	b := pa.Bytes()
	return b[:]
}

func (s BLS12381) G2FromBytes(b []byte) (G2, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(b); err != nil {
		return G2{}, fmt.Errorf("%w: %v", zkerr.ErrMalformedInput, err)
	}
	if !p.IsInSubGroup() {
		return G2{}, fmt.Errorf("%w: G2 point not in subgroup", zkerr.ErrMalformedInput)
	}
	return G2{p}, nil
}

func (BLS12381) G2CompressedSize() int { return bls12381.SizeOfG2AffineCompressed }

func bls12381GTOf(a GT) (*bls12381.GT, error) {
	e, ok := a.v.(bls12381.GT)
	if !ok {
		return nil, fmt.Errorf("%w: GT element is not a bls12-381 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (s BLS12381) Pair(a G1, b G2) (GT, error) {
	aa, err := bls12381G1Of(a)
	if err != nil {
		return GT{}, err
	}
	ba, err := bls12381G2Of(b)
	if err != nil {
		return GT{}, err
	}
	r, err := bls12381.Pair([]bls12381.G1Affine{*aa}, []bls12381.G2Affine{*ba})
	if err != nil {
		return GT{}, fmt.Errorf("%w: pairing failed: %v", zkerr.ErrInternal, err)
	}
	return GT{r}, nil
}

func (s BLS12381) PairingProduct(a1 G1, b1 G2, a2 G1, b2 G2) (GT, error) {
	a1a, err := bls12381G1Of(a1)
	if err != nil {
		return GT{}, err
	}
	b1a, err := bls12381G2Of(b1)
	if err != nil {
		return GT{}, err
	}
	a2a, err := bls12381G1Of(a2)
	if err != nil {
		return GT{}, err
	}
	b2a, err := bls12381G2Of(b2)
	if err != nil {
		return GT{}, err
	}
	r, err := bls12381.Pair([]bls12381.G1Affine{*a1a, *a2a}, []bls12381.G2Affine{*b1a, *b2a})
	if err != nil {
		return GT{}, fmt.Errorf("%w: pairing product failed: %v", zkerr.ErrInternal, err)
	}
	return GT{r}, nil
}

func (s BLS12381) GTMul(a, b GT) GT {
	aa, _ := bls12381GTOf(a)
	ba, _ := bls12381GTOf(b)
	var r bls12381.GT
	r.Mul(aa, ba)
	return GT{r}
}

func (s BLS12381) GTInverse(a GT) GT {
	aa, _ := bls12381GTOf(a)
	var r bls12381.GT
	r.Inverse(aa)
	return GT{r}
}

func (s BLS12381) GTEqual(a, b GT) bool {
	aa, _ := bls12381GTOf(a)
	ba, _ := bls12381GTOf(b)
	return aa.Equal(ba)
}

func (s BLS12381) GTBytes(a GT) []byte {
	aa, _ := bls12381GTOf(a)
	b := aa.Bytes()
	return b[:]
}
