package analysis

import (
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// NullSet records which variables are nullable (derive ε).
type NullSet map[symbol.Symbol]bool

// ComputeNull computes the least fixed point: V is in the result iff V has
// a live production every RHS symbol of which is itself nullable — the
// null (epsilon) production trivially satisfies this for any variable that
// still has it live.
func ComputeNull[T comparable](g *grammar.Grammar[T]) NullSet {
	null := make(NullSet)
	for changed := true; changed; {
		changed = false
		for _, v := range g.LiveVariables() {
			if null[v] {
				continue
			}
			for _, p := range g.LiveProductions(v) {
				if sequenceNullable(p.RHS(), null) {
					null[v] = true
					changed = true
					break
				}
			}
		}
	}
	return null
}

func sequenceNullable(s symstring.String, null NullSet) bool {
	for i := 0; i < s.Len(); i++ {
		sym := s.At(i)
		if sym.IsTerminal() || !null[sym] {
			return false
		}
	}
	return true
}
