package kdf_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/kdf"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	suite := curve.BN254{}
	a, err := suite.ScalarRandom(rand.Reader)
	require.NoError(t, err)
	gt, err := suite.Pair(suite.G1ScalarMul(suite.G1Generator(), a), suite.G2Generator())
	require.NoError(t, err)

	k1 := kdf.DeriveKey(suite, gt)
	k2 := kdf.DeriveKey(suite, gt)
	require.Equal(t, k1, k2)
	require.Len(t, k1, kdf.KeySize)
}

func TestDeriveKeyDistinctForDistinctInputs(t *testing.T) {
	suite := curve.BN254{}
	a, err := suite.ScalarRandom(rand.Reader)
	require.NoError(t, err)
	b, err := suite.ScalarRandom(rand.Reader)
	require.NoError(t, err)

	gtA, err := suite.Pair(suite.G1ScalarMul(suite.G1Generator(), a), suite.G2Generator())
	require.NoError(t, err)
	gtB, err := suite.Pair(suite.G1ScalarMul(suite.G1Generator(), b), suite.G2Generator())
	require.NoError(t, err)

	require.NotEqual(t, kdf.DeriveKey(suite, gtA), kdf.DeriveKey(suite, gtB))
}

func TestDeriveKeyDistinctAcrossCurves(t *testing.T) {
	bn := curve.BN254{}
	bls := curve.BLS12381{}

	gtBN, err := bn.Pair(bn.G1Generator(), bn.G2Generator())
	require.NoError(t, err)
	gtBLS, err := bls.Pair(bls.G1Generator(), bls.G2Generator())
	require.NoError(t, err)

	require.NotEqual(t, kdf.DeriveKey(bn, gtBN), kdf.DeriveKey(bls, gtBLS))
}
