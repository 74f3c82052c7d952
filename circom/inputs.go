package circom

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/flyinglimao/zkenc/curve"
	"github.com/flyinglimao/zkenc/zkerr"
)

// MapInputs implements map_inputs (spec §4.5): flattens a JSON input
// tree into named leaves (array elements as pathElements[0], nested
// objects as dot-joined names) and resolves each name against sym. A
// name with no matching wire is silently ignored, so a single JSON
// object may carry both public and private inputs through one call.
//
// The mapping is position-by-name: traversal order of a JSON object
// never affects which wire a leaf lands on, since Go's encoding/json
// decodes objects into a map and every leaf is looked up by its full
// dotted/bracketed name rather than by the order it was visited in.
func MapInputs(suite curve.Suite, inputsJSON []byte, sym *SymbolTable) (map[uint32]curve.Scalar, error) {
	var tree any
	if err := json.Unmarshal(inputsJSON, &tree); err != nil {
		return nil, fmt.Errorf("%w: invalid inputs JSON: %v", zkerr.ErrMalformedInput, err)
	}
	out := make(map[uint32]curve.Scalar)
	if err := flatten(suite, "", tree, sym, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(suite curve.Suite, prefix string, node any, sym *SymbolTable, out map[uint32]curve.Scalar) error {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			if err := flatten(suite, name, child, sym, out); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, child := range v {
			name := fmt.Sprintf("%s[%d]", prefix, i)
			if err := flatten(suite, name, child, sym, out); err != nil {
				return err
			}
		}
		return nil
	case string, float64:
		scalar, err := leafScalar(suite, v)
		if err != nil {
			return fmt.Errorf("%w: input %q: %v", zkerr.ErrMalformedInput, prefix, err)
		}
		wire, ok := sym.Lookup(prefix)
		if !ok {
			return nil // silent extra, per spec §4.5
		}
		out[wire] = scalar
		return nil
	case nil:
		return fmt.Errorf("%w: input %q is null", zkerr.ErrMalformedInput, prefix)
	default:
		return fmt.Errorf("%w: input %q has unsupported JSON type %T", zkerr.ErrMalformedInput, prefix, v)
	}
}

// PublicInputVector extracts wires 1..ℓ from a wire-value map produced
// by MapInputs, in wire-index order, for use as Encap's public input
// vector. A missing public wire is reported as zkerr.ErrMissingInput,
// the one case the high-level encrypt path (spec §4.7) must check
// itself rather than deferring to the external witness calculator.
func PublicInputVector(wireValues map[uint32]curve.Scalar, l int) ([]curve.Scalar, error) {
	out := make([]curve.Scalar, l)
	for i := 0; i < l; i++ {
		wire := uint32(i + 1)
		v, ok := wireValues[wire]
		if !ok {
			return nil, fmt.Errorf("%w: public input wire %d has no value", zkerr.ErrMissingInput, wire)
		}
		out[i] = v
	}
	return out, nil
}

func leafScalar(suite curve.Suite, v any) (curve.Scalar, error) {
	switch t := v.(type) {
	case string:
		n, ok := new(big.Int).SetString(t, 10)
		if !ok {
			return curve.Scalar{}, fmt.Errorf("not a base-10 integer: %q", t)
		}
		return suite.ScalarFromBigInt(n), nil
	case float64:
		if t != float64(int64(t)) {
			return curve.Scalar{}, fmt.Errorf("non-integral numeric input %v", t)
		}
		return suite.ScalarFromBigInt(big.NewInt(int64(t))), nil
	default:
		return curve.Scalar{}, fmt.Errorf("unsupported leaf type %T", v)
	}
}
