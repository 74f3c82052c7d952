// Package r1cs defines the Rank-1 Constraint System data model (spec §3):
// (n, m, ℓ, {Aᵢ, Bᵢ, Cᵢ}) with sparse per-constraint vectors over a
// curve's scalar field. It is curve-agnostic, parameterized by
// curve.Suite, and has no notion of where the constraints came from —
// package circom is what builds an R1CS from a Circom .r1cs file.
package r1cs

import (
	"fmt"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/zkerr"
)

// Term is one (wire, coefficient) entry of a sparse constraint row.
type Term struct {
	Wire  uint32
	Coeff curve.Scalar
}

// Constraint is one row (Aᵢ, Bᵢ, Cᵢ) of the constraint system: sparse
// vectors over F indexed by wire, satisfying (Aᵢ·a)(Bᵢ·a) = Cᵢ·a for a
// satisfying assignment a.
type Constraint struct {
	A, B, C []Term
}

// R1CS is a full constraint system together with the curve it is defined
// over and the wire-layout invariants from spec §3: m wires total
// (wire 0 is the constant 1), wires 1..ℓ are public inputs, the rest are
// private witness wires.
type R1CS struct {
	Suite       curve.Suite
	NWires      uint32 // m
	NPublic     uint32 // ℓ
	Constraints []Constraint
}

// M returns the wire count m.
func (r *R1CS) M() int { return int(r.NWires) }

// L returns the public input count ℓ.
func (r *R1CS) L() int { return int(r.NPublic) }

// N returns the constraint count n.
func (r *R1CS) N() int { return len(r.Constraints) }

// Validate checks the structural invariants spec §3 assumes elsewhere:
// ℓ < m (room for at least the constant wire and one private wire is not
// actually required, but ℓ must not exceed m-1), and every term's wire
// index is in range.
func (r *R1CS) Validate() error {
	if r.NPublic >= r.NWires {
		return fmt.Errorf("%w: public input count %d must be less than wire count %d", zkerr.ErrMalformedInput, r.NPublic, r.NWires)
	}
	for i, c := range r.Constraints {
		for _, terms := range [][]Term{c.A, c.B, c.C} {
			for _, t := range terms {
				if t.Wire >= r.NWires {
					return fmt.Errorf("%w: constraint %d references wire %d, but m=%d", zkerr.ErrMalformedInput, i, t.Wire, r.NWires)
				}
			}
		}
	}
	return nil
}

// EvalRow evaluates Σⱼ termsⱼ.Coeff * a[termsⱼ.Wire] for a sparse row
// against a full assignment a.
func EvalRow(suite curve.Suite, terms []Term, a []curve.Scalar) curve.Scalar {
	sum := suite.ScalarZero()
	for _, t := range terms {
		sum = suite.ScalarAdd(sum, suite.ScalarMul(t.Coeff, a[t.Wire]))
	}
	return sum
}

// CheckRow reports whether constraint i is satisfied by assignment a:
// (Aᵢ·a)(Bᵢ·a) = Cᵢ·a.
func CheckRow(suite curve.Suite, c Constraint, a []curve.Scalar) bool {
	av := EvalRow(suite, c.A, a)
	bv := EvalRow(suite, c.B, a)
	cv := EvalRow(suite, c.C, a)
	lhs := suite.ScalarMul(av, bv)
	return suite.ScalarEqual(lhs, cv)
}

// CheckAssignment verifies every constraint row against a full
// assignment, returning zkerr.ErrNotSatisfied on the first failure.
func CheckAssignment(suite curve.Suite, r *R1CS, a []curve.Scalar) error {
	if len(a) != r.M() {
		return fmt.Errorf("%w: assignment has %d wires, want %d", zkerr.ErrMalformedInput, len(a), r.M())
	}
	for i, c := range r.Constraints {
		if !CheckRow(suite, c, a) {
			return fmt.Errorf("%w: constraint %d unsatisfied", zkerr.ErrNotSatisfied, i)
		}
	}
	return nil
}
