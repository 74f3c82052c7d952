package wkem_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/internal/testcircuit"
	"github.com/flyinglimao/zkenc/wkem"
)

func TestEncapDecapRoundTrip(t *testing.T) {
	for name, suite := range map[string]curve.Suite{"bn254": curve.BN254{}, "bls12-381": curve.BLS12381{}} {
		t.Run(name, func(t *testing.T) {
			cs := testcircuit.Multiply(suite)
			witness := testcircuit.MultiplyAssignment(suite, 3, 5)
			public := witness[1:2] // wire 1, z = 15

			_, ct, encKey, err := wkem.Encap(suite, cs, public, rand.Reader, wkem.DefaultMaxRetries)
			require.NoError(t, err)

			decKey, err := wkem.Decap(suite, cs, ct, witness)
			require.NoError(t, err)
			require.Equal(t, encKey, decKey)
		})
	}
}

func TestDecapRejectsWrongWitness(t *testing.T) {
	suite := curve.BN254{}
	cs := testcircuit.Multiply(suite)
	witness := testcircuit.MultiplyAssignment(suite, 3, 5)
	public := witness[1:2]

	_, ct, _, err := wkem.Encap(suite, cs, public, rand.Reader, wkem.DefaultMaxRetries)
	require.NoError(t, err)

	wrongWitness := testcircuit.MultiplyAssignment(suite, 3, 5)
	wrongWitness[3] = suite.ScalarFromUint64(6) // y changed, x*y != z anymore

	_, err = wkem.Decap(suite, cs, ct, wrongWitness)
	require.Error(t, err)
}

func TestDecapRejectsWitnessWithMismatchedPublicInput(t *testing.T) {
	suite := curve.BN254{}
	cs := testcircuit.Multiply(suite)
	witness := testcircuit.MultiplyAssignment(suite, 3, 5)
	public := witness[1:2]

	_, ct, _, err := wkem.Encap(suite, cs, public, rand.Reader, wkem.DefaultMaxRetries)
	require.NoError(t, err)

	otherWitness := testcircuit.MultiplyAssignment(suite, 4, 5) // z=20, different public statement
	_, err = wkem.Decap(suite, cs, ct, otherWitness)
	require.Error(t, err)
}

func TestEncapRejectsWrongPublicInputLength(t *testing.T) {
	suite := curve.BN254{}
	cs := testcircuit.Multiply(suite)
	_, _, _, err := wkem.Encap(suite, cs, nil, rand.Reader, wkem.DefaultMaxRetries)
	require.Error(t, err)
}

func TestEncapIsRandomizedAcrossCalls(t *testing.T) {
	suite := curve.BN254{}
	cs := testcircuit.Multiply(suite)
	witness := testcircuit.MultiplyAssignment(suite, 3, 5)
	public := witness[1:2]

	_, _, key1, err := wkem.Encap(suite, cs, public, rand.Reader, wkem.DefaultMaxRetries)
	require.NoError(t, err)
	_, _, key2, err := wkem.Encap(suite, cs, public, rand.Reader, wkem.DefaultMaxRetries)
	require.NoError(t, err)

	require.NotEqual(t, key1, key2)
}
