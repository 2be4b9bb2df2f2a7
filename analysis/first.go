package analysis

import (
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// FirstSet maps each variable to the set of terminals that can begin a
// derivation from it.
type FirstSet map[symbol.Symbol]TerminalSet

// ComputeFirst computes the least fixed point of FIRST over every live
// variable, given its NULL set.
func ComputeFirst[T comparable](g *grammar.Grammar[T], null NullSet) FirstSet {
	first := make(FirstSet)
	for _, v := range g.LiveVariables() {
		first[v] = TerminalSet{}
	}

	for changed := true; changed; {
		changed = false
		for _, v := range g.LiveVariables() {
			for _, p := range g.LiveProductions(v) {
				contribution := firstOfSequence(null, first, p.RHS().Symbols())
				cur := first[v]
				if cur.AddAll(contribution) {
					first[v] = cur
					changed = true
				}
			}
		}
	}
	return first
}

// OfSymbol returns the FIRST set of a single symbol: the singleton of
// itself if s is a terminal, or the computed FIRST(s) if s is a variable.
func (first FirstSet) OfSymbol(s symbol.Symbol) TerminalSet {
	if s.IsTerminal() {
		var out TerminalSet
		out.Add(TerminalIndex(s))
		return out
	}
	return first[s]
}

// OfString returns FIRST(w) for an arbitrary symbol string w, per the
// walk-until-non-nullable rule: add FIRST(X1) (minus ε); if X1 is
// nullable, add FIRST(X2); and so on.
func (first FirstSet) OfString(null NullSet, w symstring.String) TerminalSet {
	return firstOfSequence(null, first, w.Symbols())
}

func firstOfSequence(null NullSet, first FirstSet, seq []symbol.Symbol) TerminalSet {
	var out TerminalSet
	for _, s := range seq {
		if s.IsTerminal() {
			out.Add(TerminalIndex(s))
			return out
		}
		out.AddAll(first[s])
		if !null[s] {
			return out
		}
	}
	return out
}
