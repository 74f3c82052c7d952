package circom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flyinglimao/zkenc/zkerr"
)

// SymbolTable maps a circuit's dotted signal names (the "main." prefix
// stripped) to wire indices, built from a Circom .sym file (spec §4.5).
type SymbolTable struct {
	wires map[string]uint32
}

// ParseSymbols parses the textual .sym format: lines of
// labelId,wireId,componentId,dottedSignalName. Lines with a negative
// wireId are excluded (they name symbols with no corresponding wire).
func ParseSymbols(text string) (*SymbolTable, error) {
	wires := make(map[string]uint32)
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: .sym line %d has %d fields, want 4", zkerr.ErrMalformedInput, lineNo+1, len(fields))
		}
		wireID, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: .sym line %d: bad wireId %q", zkerr.ErrMalformedInput, lineNo+1, fields[1])
		}
		if wireID < 0 {
			continue
		}
		name := fields[3]
		const prefix = "main."
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
		}
		wires[name] = uint32(wireID)
	}
	return &SymbolTable{wires: wires}, nil
}

// Lookup returns the wire index for a dotted signal name (already
// stripped of any "main." prefix), and whether it was found.
func (t *SymbolTable) Lookup(name string) (uint32, bool) {
	w, ok := t.wires[name]
	return w, ok
}
