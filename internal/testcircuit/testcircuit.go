// Package testcircuit builds small, fixed R1CS instances for the test
// suites of qap, wkem, codec and zkenc, so each package's tests don't
// have to hand-roll a constraint system just to exercise the plumbing
// around one.
package testcircuit

import (
	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/r1cs"
)

// Multiply returns the single-constraint circuit x*y=z with z the sole
// public output (wire 1) and x, y private (wires 2, 3); wire 0 is the
// constant 1. Assignment builds a satisfying full witness for given x,
// y.
func Multiply(suite curve.Suite) *r1cs.R1CS {
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

// MultiplyAssignment returns the full witness [1, z, x, y] for the
// Multiply circuit, with z = x*y.
func MultiplyAssignment(suite curve.Suite, x, y uint64) []curve.Scalar {
	xs := suite.ScalarFromUint64(x)
	ys := suite.ScalarFromUint64(y)
	z := suite.ScalarMul(xs, ys)
	return []curve.Scalar{suite.ScalarOne(), z, xs, ys}
}
