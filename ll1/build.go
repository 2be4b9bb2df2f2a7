package ll1

import (
	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// Build constructs the LL(1) table for g from its precomputed NULL, FIRST,
// and FOLLOW sets. For each production A -> w it adds a cell at (A, a) for
// every a in FIRST(w), and — when w is fully nullable — an additional cell
// for every a in FOLLOW(A) (which subsumes the literal w = ε case, since an
// empty production is vacuously fully nullable with an empty FIRST(w)).
// Collisions are recorded as Conflicts rather than aborting construction.
func Build[T comparable](g *grammar.Grammar[T], null analysis.NullSet, first analysis.FirstSet, follow analysis.FollowSet) *Table[T] {
	t := newTable[T]()

	for _, v := range g.LiveVariables() {
		for _, p := range g.LiveProductions(v) {
			w := p.RHS()
			syms := w.Symbols()

			firstW := first.OfString(null, w)
			for _, a := range firstW.Symbols() {
				t.set(v, a, p.ID())
			}

			if wNullable(syms, null) {
				fw := follow[v]
				for _, a := range fw.Symbols() {
					t.set(v, a, p.ID())
				}
				if fw.HasEndOfInput() {
					t.set(v, analysis.EndOfInput, p.ID())
				}
			}
		}
	}

	return t
}

func wNullable(syms []symbol.Symbol, null analysis.NullSet) bool {
	for _, s := range syms {
		if s.IsTerminal() || !null[s] {
			return false
		}
	}
	return true
}
