package curve

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bn254fft "github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/flyinglimao/zkenc/zkerr"
)

// BN254 is the production Suite: BN254 (alt_bn128), the curve Circom and
// snarkjs target (spec §6.4).
type BN254 struct{}

func (BN254) Name() string    { return "bn254" }
func (BN254) FieldBytes() int { return 32 }

func (BN254) ScalarFieldModulus() *big.Int {
	return bn254fr.Modulus()
}

func bn254FrOf(s Scalar) (*bn254fr.Element, error) {
	e, ok := s.v.(bn254fr.Element)
	if !ok {
		return nil, fmt.Errorf("%w: scalar is not a bn254 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BN254) ScalarRandom(rnd io.Reader) (Scalar, error) {
	v, err := scalarFromReaderModulus(rnd, bn254fr.Modulus())
	if err != nil {
		return Scalar{}, err
	}
	var e bn254fr.Element
	e.SetBigInt(v)
	return Scalar{e}, nil
}

func (BN254) ScalarZero() Scalar {
	var e bn254fr.Element
	return Scalar{e}
}

func (BN254) ScalarOne() Scalar {
	var e bn254fr.Element
	e.SetOne()
	return Scalar{e}
}

func (BN254) ScalarFromUint64(v uint64) Scalar {
	var e bn254fr.Element
	e.SetUint64(v)
	return Scalar{e}
}

func (BN254) ScalarFromBigInt(v *big.Int) Scalar {
	var e bn254fr.Element
	e.SetBigInt(v)
	return Scalar{e}
}

func (s BN254) ScalarAdd(a, b Scalar) Scalar {
	ae, _ := bn254FrOf(a)
	be, _ := bn254FrOf(b)
	var r bn254fr.Element
	r.Add(ae, be)
	return Scalar{r}
}

func (s BN254) ScalarSub(a, b Scalar) Scalar {
	ae, _ := bn254FrOf(a)
	be, _ := bn254FrOf(b)
	var r bn254fr.Element
	r.Sub(ae, be)
	return Scalar{r}
}

func (s BN254) ScalarMul(a, b Scalar) Scalar {
	ae, _ := bn254FrOf(a)
	be, _ := bn254FrOf(b)
	var r bn254fr.Element
	r.Mul(ae, be)
	return Scalar{r}
}

func (s BN254) ScalarNeg(a Scalar) Scalar {
	ae, _ := bn254FrOf(a)
	var r bn254fr.Element
	r.Neg(ae)
	return Scalar{r}
}

func (s BN254) ScalarInverse(a Scalar) (Scalar, error) {
	ae, _ := bn254FrOf(a)
	if ae.IsZero() {
		return Scalar{}, fmt.Errorf("%w: inverse of zero", zkerr.ErrInternal)
	}
	var r bn254fr.Element
	r.Inverse(ae)
	return Scalar{r}, nil
}

func (s BN254) ScalarEqual(a, b Scalar) bool {
	ae, _ := bn254FrOf(a)
	be, _ := bn254FrOf(b)
	return ae.Equal(be)
}

func (s BN254) ScalarIsZero(a Scalar) bool {
	ae, _ := bn254FrOf(a)
	return ae.IsZero()
}

func (s BN254) ScalarBytes(a Scalar) []byte {
	ae, _ := bn254FrOf(a)
	be := ae.Bytes() // canonical big-endian
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

func (s BN254) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, fmt.Errorf("%w: scalar must be 32 bytes, got %d", zkerr.ErrMalformedInput, len(b))
	}
	be := make([]byte, 32)
	for i, c := range b {
		be[31-i] = c
	}
	var e bn254fr.Element
	e.SetBytes(be)
	return Scalar{e}, nil
}

func (s BN254) PrimitiveRoot(n uint64) (Scalar, error) {
	d := bn254fft.NewDomain(n)
	if d.Cardinality != n {
		return Scalar{}, fmt.Errorf("%w: %d is not a power of two", zkerr.ErrInternal, n)
	}
	return Scalar{d.Generator}, nil
}

func bn254G1Of(p G1) (*bn254.G1Affine, error) {
	e, ok := p.v.(bn254.G1Affine)
	if !ok {
		return nil, fmt.Errorf("%w: point is not a bn254 G1 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BN254) G1Zero() G1 {
	var p bn254.G1Affine
	return G1{p}
}

func (BN254) G1Generator() G1 {
	_, _, g1, _ := bn254.Generators()
	return G1{g1}
}

func (s BN254) G1Add(a, b G1) G1 {
	aa, _ := bn254G1Of(a)
	ba, _ := bn254G1Of(b)
	var aJac, bJac, rJac bn254.G1Jac
	aJac.FromAffine(aa)
	bJac.FromAffine(ba)
	rJac.Set(&aJac).AddAssign(&bJac)
	var r bn254.G1Affine
	r.FromJacobian(&rJac)
	return G1{r}
}

func (s BN254) G1Neg(a G1) G1 {
	aa, _ := bn254G1Of(a)
	var r bn254.G1Affine
	r.Neg(aa)
	return G1{r}
}

func (s BN254) G1ScalarMul(p G1, sc Scalar) G1 {
	pa, _ := bn254G1Of(p)
	se, _ := bn254FrOf(sc)
	var r bn254.G1Affine
	r.ScalarMultiplication(pa, se.BigInt(new(big.Int)))
	return G1{r}
}

func (s BN254) G1MSM(points []G1, scalars []Scalar) (G1, error) {
	if len(points) != len(scalars) {
		return G1{}, fmt.Errorf("%w: MSM length mismatch: %d points, %d scalars", zkerr.ErrInternal, len(points), len(scalars))
	}
	pts := make([]bn254.G1Affine, len(points))
	scs := make([]bn254fr.Element, len(scalars))
	for i := range points {
		pa, err := bn254G1Of(points[i])
		if err != nil {
			return G1{}, err
		}
		se, err := bn254FrOf(scalars[i])
		if err != nil {
			return G1{}, err
		}
		pts[i] = *pa
		scs[i] = *se
	}
	var r bn254.G1Affine
	if _, err := r.MultiExp(pts, scs, ecc.MultiExpConfig{}); err != nil {
		return G1{}, fmt.Errorf("%w: MSM failed: %v", zkerr.ErrInternal, err)
	}
	return G1{r}, nil
}

func (s BN254) G1Equal(a, b G1) bool {
	aa, _ := bn254G1Of(a)
	ba, _ := bn254G1Of(b)
	return aa.Equal(ba)
}

func (s BN254) G1Bytes(p G1) []byte {
	pa, _ := bn254G1Of(p)
	b := pa.Bytes()
	return b[:]
}

func (s BN254) G1FromBytes(b []byte) (G1, error) {
	var p bn254.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return G1{}, fmt.Errorf("%w: %v", zkerr.ErrMalformedInput, err)
	}
	if !p.IsInSubGroup() {
		return G1{}, fmt.Errorf("%w: G1 point not in subgroup", zkerr.ErrMalformedInput)
	}
	return G1{p}, nil
}

func (BN254) G1CompressedSize() int { return bn254.SizeOfG1AffineCompressed }

func bn254G2Of(p G2) (*bn254.G2Affine, error) {
	e, ok := p.v.(bn254.G2Affine)
	if !ok {
		return nil, fmt.Errorf("%w: point is not a bn254 G2 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (BN254) G2Zero() G2 {
	var p bn254.G2Affine
	return G2{p}
}

func (BN254) G2Generator() G2 {
	_, _, _, g2 := bn254.Generators()
	return G2{g2}
}

func (s BN254) G2Add(a, b G2) G2 {
	aa, _ := bn254G2Of(a)
	ba, _ := bn254G2Of(b)
	var aJac, bJac, rJac bn254.G2Jac
	aJac.FromAffine(aa)
	bJac.FromAffine(ba)
	rJac.Set(&aJac).AddAssign(&bJac)
	var r bn254.G2Affine
	r.FromJacobian(&rJac)
	return G2{r}
}

func (s BN254) G2ScalarMul(p G2, sc Scalar) G2 {
	pa, _ := bn254G2Of(p)
	se, _ := bn254FrOf(sc)
	var r bn254.G2Affine
	r.ScalarMultiplication(pa, se.BigInt(new(big.Int)))
	return G2{r}
}

func (s BN254) G2MSM(points []G2, scalars []Scalar) (G2, error) {
	if len(points) != len(scalars) {
		return G2{}, fmt.Errorf("%w: MSM length mismatch: %d points, %d scalars", zkerr.ErrInternal, len(points), len(scalars))
	}
	pts := make([]bn254.G2Affine, len(points))
	scs := make([]bn254fr.Element, len(scalars))
	for i := range points {
		pa, err := bn254G2Of(points[i])
		if err != nil {
			return G2{}, err
		}
		se, err := bn254FrOf(scalars[i])
		if err != nil {
			return G2{}, err
		}
		pts[i] = *pa
		scs[i] = *se
	}
	var r bn254.G2Affine
	if _, err := r.MultiExp(pts, scs, ecc.MultiExpConfig{}); err != nil {
		return G2{}, fmt.Errorf("%w: MSM failed: %v", zkerr.ErrInternal, err)
	}
	return G2{r}, nil
}

func (s BN254) G2Equal(a, b G2) bool {
	aa, _ := bn254G2Of(a)
	ba, _ := bn254G2Of(b)
	return aa.Equal(ba)
}

func (s BN254) G2Bytes(p G2) []byte {
	pa, _ := bn254G2Of(p)
	b := pa.Bytes()
	return b[:]
}

func (s BN254) G2FromBytes(b []byte) (G2, error) {
	var p bn254.G2Affine
	if _, err := p.SetBytes(b); err != nil {
		return G2{}, fmt.Errorf("%w: %v", zkerr.ErrMalformedInput, err)
	}
	if !p.IsInSubGroup() {
		return G2{}, fmt.Errorf("%w: G2 point not in subgroup", zkerr.ErrMalformedInput)
	}
	return G2{p}, nil
}

func (BN254) G2CompressedSize() int { return bn254.SizeOfG2AffineCompressed }

func bn254GTOf(a GT) (*bn254.GT, error) {
	e, ok := a.v.(bn254.GT)
	if !ok {
		return nil, fmt.Errorf("%w: GT element is not a bn254 element", zkerr.ErrMalformedInput)
	}
	return &e, nil
}

func (s BN254) Pair(a G1, b G2) (GT, error) {
	aa, err := bn254G1Of(a)
	if err != nil {
		return GT{}, err
	}
	ba, err := bn254G2Of(b)
	if err != nil {
		return GT{}, err
	}
	r, err := bn254.Pair([]bn254.G1Affine{*aa}, []bn254.G2Affine{*ba})
	if err != nil {
		return GT{}, fmt.Errorf("%w: pairing failed: %v", zkerr.ErrInternal, err)
	}
	return GT{r}, nil
}

func (s BN254) PairingProduct(a1 G1, b1 G2, a2 G1, b2 G2) (GT, error) {
	a1a, err := bn254G1Of(a1)
	if err != nil {
		return GT{}, err
	}
	b1a, err := bn254G2Of(b1)
	if err != nil {
		return GT{}, err
	}
	a2a, err := bn254G1Of(a2)
	if err != nil {
		return GT{}, err
	}
	b2a, err := bn254G2Of(b2)
	if err != nil {
		return GT{}, err
	}
	r, err := bn254.Pair([]bn254.G1Affine{*a1a, *a2a}, []bn254.G2Affine{*b1a, *b2a})
	if err != nil {
		return GT{}, fmt.Errorf("%w: pairing product failed: %v", zkerr.ErrInternal, err)
	}
	return GT{r}, nil
}

func (s BN254) GTMul(a, b GT) GT {
	aa, _ := bn254GTOf(a)
	ba, _ := bn254GTOf(b)
	var r bn254.GT
	r.Mul(aa, ba)
	return GT{r}
}

func (s BN254) GTInverse(a GT) GT {
	aa, _ := bn254GTOf(a)
	var r bn254.GT
	r.Inverse(aa)
	return GT{r}
}

func (s BN254) GTEqual(a, b GT) bool {
	aa, _ := bn254GTOf(a)
	ba, _ := bn254GTOf(b)
	return aa.Equal(ba)
}

func (s BN254) GTBytes(a GT) []byte {
	aa, _ := bn254GTOf(a)
	b := aa.Bytes()
	return b[:]
}
