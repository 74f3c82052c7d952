package r1cs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/r1cs"
	"github.com/flyinglimao/zkenc/zkerr"
)

func multiplyCircuit(suite curve.Suite) *r1cs.R1CS {
	one := func(wire uint32) []r1cs.Term {
		return []r1cs.Term{{Wire: wire, Coeff: suite.ScalarOne()}}
	}
	return &r1cs.R1CS{
		Suite:   suite,
		NWires:  4,
		NPublic: 1,
		Constraints: []r1cs.Constraint{
			{A: one(2), B: one(3), C: one(1)},
		},
	}
}

func TestValidateAcceptsWellFormedCircuit(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	require.NoError(t, cs.Validate())
	require.Equal(t, 4, cs.M())
	require.Equal(t, 1, cs.L())
	require.Equal(t, 1, cs.N())
}

func TestValidateRejectsOutOfRangeWire(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	cs.Constraints[0].A[0].Wire = 99
	err := cs.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, zkerr.ErrMalformedInput))
}

func TestValidateRejectsPublicCountAtLeastWireCount(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	cs.NPublic = cs.NWires
	require.Error(t, cs.Validate())
}

func TestCheckAssignmentAcceptsSatisfyingWitness(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	x := suite.ScalarFromUint64(3)
	y := suite.ScalarFromUint64(5)
	z := suite.ScalarMul(x, y)
	a := []curve.Scalar{suite.ScalarOne(), z, x, y}

	require.NoError(t, r1cs.CheckAssignment(suite, cs, a))
}

func TestCheckAssignmentRejectsWrongWitness(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	x := suite.ScalarFromUint64(3)
	y := suite.ScalarFromUint64(5)
	wrongZ := suite.ScalarFromUint64(16) // != 15
	a := []curve.Scalar{suite.ScalarOne(), wrongZ, x, y}

	err := r1cs.CheckAssignment(suite, cs, a)
	require.Error(t, err)
	require.True(t, errors.Is(err, zkerr.ErrNotSatisfied))
}

func TestCheckAssignmentRejectsWrongLength(t *testing.T) {
	suite := curve.BN254{}
	cs := multiplyCircuit(suite)
	err := r1cs.CheckAssignment(suite, cs, []curve.Scalar{suite.ScalarOne()})
	require.Error(t, err)
	require.True(t, errors.Is(err, zkerr.ErrMalformedInput))
}
