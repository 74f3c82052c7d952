package circom_test

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/circom"
	"github.com/flyinglimao/zkenc/curve"
)

// leBytes renders v as fieldSize little-endian bytes, the Circom wire
// format for field elements.
func leBytes(v uint64, fieldSize int) []byte {
	out := make([]byte, fieldSize)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func modulusLE(suite curve.Suite) []byte {
	be := suite.ScalarFieldModulus().Bytes()
	out := make([]byte, suite.FieldBytes())
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func section(secType uint32, payload []byte) []byte {
	out := append([]byte{}, u32(secType)...)
	out = append(out, u64(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

// buildMultiplyR1CS encodes the trivial x*y=z circuit (wire 0 = 1, wire
// 1 = z public, wires 2,3 = x,y private) as a binary .r1cs blob.
func buildMultiplyR1CS(suite curve.Suite) []byte {
	fieldSize := uint32(suite.FieldBytes())
	prime := modulusLE(suite)

	header := append([]byte{}, u32(fieldSize)...)
	header = append(header, prime...)
	header = append(header, u32(4)...)  // nWires
	header = append(header, u32(1)...)  // nPubOut
	header = append(header, u32(0)...)  // nPubIn
	header = append(header, u32(2)...)  // nPrvIn
	header = append(header, u64(0)...)  // nLabels
	header = append(header, u32(1)...)  // nConstraints

	one := leBytes(1, int(fieldSize))
	lc := func(wire uint32) []byte {
		out := append([]byte{}, u32(1)...) // nTerms
		out = append(out, u32(wire)...)
		out = append(out, one...)
		return out
	}
	constraints := append([]byte{}, lc(2)...) // A: wire 2 (x)
	constraints = append(constraints, lc(3)...)
	constraints = append(constraints, lc(1)...)

	out := []byte("r1cs")
	out = append(out, u32(1)...) // version
	out = append(out, u32(2)...) // nSections
	out = append(out, section(1, header)...)
	out = append(out, section(2, constraints)...)
	return out
}

func buildWitness(suite curve.Suite, values []uint64) []byte {
	fieldSize := uint32(suite.FieldBytes())
	prime := modulusLE(suite)

	header := append([]byte{}, u32(fieldSize)...)
	header = append(header, prime...)
	header = append(header, u32(uint32(len(values)))...)

	var body []byte
	for _, v := range values {
		body = append(body, leBytes(v, int(fieldSize))...)
	}

	out := []byte("wtns")
	out = append(out, u32(2)...) // version
	out = append(out, u32(2)...) // nSections
	out = append(out, section(1, header)...)
	out = append(out, section(2, body)...)
	return out
}

func TestParseR1CSBuildsExpectedCircuit(t *testing.T) {
	suite := curve.BN254{}
	cs, err := circom.ParseR1CS(suite, buildMultiplyR1CS(suite))
	require.NoError(t, err)
	require.Equal(t, 4, cs.M())
	require.Equal(t, 1, cs.L())
	require.Equal(t, 1, cs.N())
}

func TestParseR1CSRejectsBadMagic(t *testing.T) {
	suite := curve.BN254{}
	data := buildMultiplyR1CS(suite)
	data[0] = 'x'
	_, err := circom.ParseR1CS(suite, data)
	require.Error(t, err)
}

func TestParseR1CSRejectsFieldMismatch(t *testing.T) {
	// Built for BLS12-381's field, parsed against BN254.
	data := buildMultiplyR1CS(curve.BLS12381{})
	_, err := circom.ParseR1CS(curve.BN254{}, data)
	require.Error(t, err)
}

func TestParseWitnessValidatesCountAgainstM(t *testing.T) {
	suite := curve.BN254{}
	cs, err := circom.ParseR1CS(suite, buildMultiplyR1CS(suite))
	require.NoError(t, err)

	w := buildWitness(suite, []uint64{1, 15, 3, 5})
	witness, err := circom.ParseWitness(suite, w, cs.M())
	require.NoError(t, err)
	require.Len(t, witness, 4)
	require.True(t, suite.ScalarEqual(witness[0], suite.ScalarOne()))

	_, err = circom.ParseWitness(suite, w, cs.M()+1)
	require.Error(t, err)
}

func TestParseSymbolsStripsMainPrefixAndSkipsNegativeWires(t *testing.T) {
	text := "1,1,0,main.z\n2,2,0,main.x\n3,3,0,main.y\n4,-1,0,main.unused\n"
	sym, err := circom.ParseSymbols(text)
	require.NoError(t, err)

	w, ok := sym.Lookup("z")
	require.True(t, ok)
	require.EqualValues(t, 1, w)

	w, ok = sym.Lookup("x")
	require.True(t, ok)
	require.EqualValues(t, 2, w)

	_, ok = sym.Lookup("unused")
	require.False(t, ok)

	_, ok = sym.Lookup("main.z")
	require.False(t, ok, "the main. prefix must be stripped, not preserved")
}

func TestMapInputsFlattensNestedAndArrayShapes(t *testing.T) {
	sym, err := circom.ParseSymbols("1,10,0,main.a.b\n2,11,0,main.c[0]\n3,12,0,main.c[1]\n")
	require.NoError(t, err)

	suite := curve.BN254{}
	inputsJSON := []byte(`{"a":{"b":"7"},"c":[1,2],"unused":"5"}`)
	values, err := circom.MapInputs(suite, inputsJSON, sym)
	require.NoError(t, err)

	require.True(t, suite.ScalarEqual(values[10], suite.ScalarFromUint64(7)))
	require.True(t, suite.ScalarEqual(values[11], suite.ScalarFromUint64(1)))
	require.True(t, suite.ScalarEqual(values[12], suite.ScalarFromUint64(2)))
	_, hasUnused := values[99]
	require.False(t, hasUnused)
	require.Len(t, values, 3, "the unmatched 'unused' field must be silently dropped")
}

func TestMapInputsIsKeyOrderCommutative(t *testing.T) {
	sym, err := circom.ParseSymbols("1,10,0,main.a.b\n2,11,0,main.c[0]\n3,12,0,main.c[1]\n4,13,0,main.d\n")
	require.NoError(t, err)

	suite := curve.BN254{}
	first := []byte(`{"a":{"b":"7"},"c":[1,2],"d":"9"}`)
	second := []byte(`{"d":"9","c":[1,2],"a":{"b":"7"}}`)

	valuesFirst, err := circom.MapInputs(suite, first, sym)
	require.NoError(t, err)
	valuesSecond, err := circom.MapInputs(suite, second, sym)
	require.NoError(t, err)

	require.Len(t, valuesSecond, len(valuesFirst))
	for wire, v := range valuesFirst {
		other, ok := valuesSecond[wire]
		require.True(t, ok, "wire %d missing when inputs are given in a different key order", wire)
		require.True(t, suite.ScalarEqual(v, other), "wire %d disagrees across key orderings", wire)
	}
}

func TestMapInputsHandlesNegativeDecimalStrings(t *testing.T) {
	sym, err := circom.ParseSymbols("1,5,0,main.x\n")
	require.NoError(t, err)

	suite := curve.BN254{}
	values, err := circom.MapInputs(suite, []byte(`{"x":"-1"}`), sym)
	require.NoError(t, err)

	want := suite.ScalarFromBigInt(new(big.Int).Sub(suite.ScalarFieldModulus(), big.NewInt(1)))
	require.True(t, suite.ScalarEqual(values[5], want))
}

func TestPublicInputVectorReportsMissingInput(t *testing.T) {
	values := map[uint32]curve.Scalar{}
	_, err := circom.PublicInputVector(values, 1)
	require.Error(t, err)
}

func TestPublicInputVectorOrdersByWireIndex(t *testing.T) {
	suite := curve.BN254{}
	values := map[uint32]curve.Scalar{
		1: suite.ScalarFromUint64(11),
		2: suite.ScalarFromUint64(22),
	}
	out, err := circom.PublicInputVector(values, 2)
	require.NoError(t, err)
	require.True(t, suite.ScalarEqual(out[0], suite.ScalarFromUint64(11)))
	require.True(t, suite.ScalarEqual(out[1], suite.ScalarFromUint64(22)))
}
