package binding_test

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/binding"
	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/zkerr"
)

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

func section(secType uint32, payload []byte) []byte {
	out := append([]byte{}, u32(secType)...)
	out = append(out, u64(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

// buildMultiplyR1CS and buildWitness mirror package circom's own test
// fixtures: the trivial x*y=z circuit with z the sole public wire.
func buildMultiplyR1CS(suite curve.Suite) []byte {
	fieldSize := uint32(suite.FieldBytes())
	header := append([]byte{}, u32(fieldSize)...)
	header = append(header, modulusLE(suite)...)
	header = append(header, u32(4)...)
	header = append(header, u32(1)...)
	header = append(header, u32(0)...)
	header = append(header, u32(2)...)
	header = append(header, u64(0)...)
	header = append(header, u32(1)...)

	one := leBytes(1, int(fieldSize))
	lc := func(wire uint32) []byte {
		out := append([]byte{}, u32(1)...)
		out = append(out, u32(wire)...)
		out = append(out, one...)
		return out
	}
	constraints := append([]byte{}, lc(2)...)
	constraints = append(constraints, lc(3)...)
	constraints = append(constraints, lc(1)...)

	out := []byte("r1cs")
	out = append(out, u32(1)...)
	out = append(out, u32(2)...)
	out = append(out, section(1, header)...)
	out = append(out, section(2, constraints)...)
	return out
}

// buildPuzzleR1CS encodes a miniature Sudoku-shaped circuit (spec §8
// scenario 2's public-clue / private-solution cell layout, scaled down
// from an 81-cell grid to four cells so it can be hand-encoded here):
// wire 0 = const 1, wires 1,2 = public clue cells, wires 3,4 = private
// solution cells. Two constraints relate them: clue0+clue1=solution0,
// solution0*solution1=100.
func buildPuzzleR1CS(suite curve.Suite) []byte {
	fieldSize := uint32(suite.FieldBytes())
	header := append([]byte{}, u32(fieldSize)...)
	header = append(header, modulusLE(suite)...)
	header = append(header, u32(5)...) // nWires
	header = append(header, u32(2)...) // nPubOut
	header = append(header, u32(0)...) // nPubIn
	header = append(header, u32(2)...) // nPrvIn
	header = append(header, u64(0)...) // nLabels
	header = append(header, u32(2)...) // nConstraints

	one := leBytes(1, int(fieldSize))
	term := func(wire uint32, coeff []byte) []byte {
		out := append([]byte{}, u32(wire)...)
		return append(out, coeff...)
	}
	lc := func(terms ...[]byte) []byte {
		out := append([]byte{}, u32(uint32(len(terms)))...)
		for _, t := range terms {
			out = append(out, t...)
		}
		return out
	}

	var constraints []byte
	// clue0 + clue1 = solution0
	constraints = append(constraints, lc(term(1, one), term(2, one))...)
	constraints = append(constraints, lc(term(0, one))...)
	constraints = append(constraints, lc(term(3, one))...)
	// solution0 * solution1 = 100
	constraints = append(constraints, lc(term(3, one))...)
	constraints = append(constraints, lc(term(4, one))...)
	constraints = append(constraints, lc(term(0, leBytes(100, int(fieldSize))))...)

	out := []byte("r1cs")
	out = append(out, u32(1)...)
	out = append(out, u32(2)...)
	out = append(out, section(1, header)...)
	out = append(out, section(2, constraints)...)
	return out
}

func buildWitness(suite curve.Suite, values []uint64) []byte {
	fieldSize := uint32(suite.FieldBytes())
	header := append([]byte{}, u32(fieldSize)...)
	header = append(header, modulusLE(suite)...)
	header = append(header, u32(uint32(len(values)))...)

	var body []byte
	for _, v := range values {
		body = append(body, leBytes(v, int(fieldSize))...)
	}

	out := []byte("wtns")
	out = append(out, u32(2)...)
	out = append(out, u32(2)...)
	out = append(out, section(1, header)...)
	out = append(out, section(2, body)...)
	return out
}

func TestResolveSuite(t *testing.T) {
	s, err := binding.ResolveSuite("")
	require.NoError(t, err)
	require.Equal(t, "bn254", s.Name())

	s, err = binding.ResolveSuite("bn254")
	require.NoError(t, err)
	require.Equal(t, "bn254", s.Name())

	s, err = binding.ResolveSuite("bls12-381")
	require.NoError(t, err)
	require.Equal(t, "bls12-381", s.Name())

	_, err = binding.ResolveSuite("secp256k1")
	require.ErrorIs(t, err, zkerr.ErrMalformedInput)
}

func TestEncryptDecryptRoundTripThroughBinding(t *testing.T) {
	suite := curve.BN254{}
	r1csBytes := buildMultiplyR1CS(suite)
	symText := []byte("1,1,0,main.z\n2,2,0,main.x\n3,3,0,main.y\n")
	inputsJSON := []byte(`{"z":"15","x":"3","y":"5"}`)
	wtnsBytes := buildWitness(suite, []uint64{1, 15, 3, 5})

	envelope, err := binding.Encrypt("bn254", r1csBytes, symText, inputsJSON, []byte("payload"), true, rand.Reader, 8)
	require.NoError(t, err)

	msg, err := binding.Decrypt("bn254", r1csBytes, wtnsBytes, envelope)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), msg)

	pi, err := binding.GetPublicInput(envelope)
	require.NoError(t, err)
	require.JSONEq(t, string(inputsJSON), string(pi))
}

func TestEncapDecapRoundTripThroughBinding(t *testing.T) {
	suite := curve.BN254{}
	r1csBytes := buildMultiplyR1CS(suite)
	symText := []byte("1,1,0,main.z\n2,2,0,main.x\n3,3,0,main.y\n")
	inputsJSON := []byte(`{"z":"15","x":"3","y":"5"}`)
	wtnsBytes := buildWitness(suite, []uint64{1, 15, 3, 5})

	ctBytes, encKey, err := binding.Encap("bn254", r1csBytes, symText, inputsJSON, rand.Reader, 8)
	require.NoError(t, err)

	decKey, err := binding.Decap("bn254", r1csBytes, wtnsBytes, ctBytes)
	require.NoError(t, err)
	require.Equal(t, encKey, decKey)
}

// TestEncapIsInvariantToPublicInputJSONKeyOrderUnderFixedSeed is spec §8
// scenario 3: encrypting the same public statement with its JSON fields
// given in a different key order must produce byte-identical WKEM
// ciphertexts once the RNG is fixed across both runs.
func TestEncapIsInvariantToPublicInputJSONKeyOrderUnderFixedSeed(t *testing.T) {
	suite := curve.BN254{}
	r1csBytes := buildPuzzleR1CS(suite)
	symText := []byte("1,1,0,main.clue0\n2,2,0,main.clue1\n3,3,0,main.sol0\n4,4,0,main.sol1\n")
	firstJSON := []byte(`{"clue0":"4","clue1":"6"}`)
	secondJSON := []byte(`{"clue1":"6","clue0":"4"}`)

	ctFirst, keyFirst, err := binding.Encap("bn254", r1csBytes, symText, firstJSON, mathrand.New(mathrand.NewSource(1234)), 8)
	require.NoError(t, err)

	ctSecond, keySecond, err := binding.Encap("bn254", r1csBytes, symText, secondJSON, mathrand.New(mathrand.NewSource(1234)), 8)
	require.NoError(t, err)

	require.Equal(t, ctFirst, ctSecond)
	require.Equal(t, keyFirst, keySecond)
}

// TestCrossCurveEnvelopeIsRejected is spec §8's cross-curve distinctness
// property: an envelope produced against one curve must be rejected when
// decoded against the other.
func TestCrossCurveEnvelopeIsRejected(t *testing.T) {
	bn := curve.BN254{}
	r1csBN := buildMultiplyR1CS(bn)
	symText := []byte("1,1,0,main.z\n2,2,0,main.x\n3,3,0,main.y\n")
	inputsJSON := []byte(`{"z":"15","x":"3","y":"5"}`)

	envelope, err := binding.Encrypt("bn254", r1csBN, symText, inputsJSON, []byte("payload"), false, rand.Reader, 8)
	require.NoError(t, err)

	bls := curve.BLS12381{}
	r1csBLS := buildMultiplyR1CS(bls)
	wtnsBLS := buildWitness(bls, []uint64{1, 15, 3, 5})

	_, err = binding.Decrypt("bls12-381", r1csBLS, wtnsBLS, envelope)
	require.Error(t, err)
}

// TestEncryptDecryptRoundTripThroughMultiConstraintPuzzle exercises spec
// §8 scenario 2's public-clue / private-solution shape (scaled down from
// an 81-cell Sudoku grid to four cells, see buildPuzzleR1CS) across more
// than one constraint.
func TestEncryptDecryptRoundTripThroughMultiConstraintPuzzle(t *testing.T) {
	suite := curve.BN254{}
	r1csBytes := buildPuzzleR1CS(suite)
	symText := []byte("1,1,0,main.clue0\n2,2,0,main.clue1\n3,3,0,main.sol0\n4,4,0,main.sol1\n")
	inputsJSON := []byte(`{"clue0":"4","clue1":"6"}`)
	wtnsBytes := buildWitness(suite, []uint64{1, 4, 6, 10, 10})

	envelope, err := binding.Encrypt("bn254", r1csBytes, symText, inputsJSON, []byte("Secret"), true, rand.Reader, 8)
	require.NoError(t, err)

	msg, err := binding.Decrypt("bn254", r1csBytes, wtnsBytes, envelope)
	require.NoError(t, err)
	require.Equal(t, []byte("Secret"), msg)

	wrongWtns := buildWitness(suite, []uint64{1, 4, 6, 10, 11})
	_, err = binding.Decrypt("bn254", r1csBytes, wrongWtns, envelope)
	require.Error(t, err)
}
