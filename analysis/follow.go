package analysis

import (
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// FollowSet maps each variable to the set of terminals that can appear
// immediately after it in some sentential form derived from the start
// symbol, plus (for the start variable) the end-of-input marker.
type FollowSet map[symbol.Symbol]TerminalSet

// ComputeFollow computes the least fixed point of FOLLOW over every live
// variable, given NULL and FIRST. start is the grammar's start variable;
// pass symbol.Epsilon if none has been set (no variable then receives the
// end-of-input marker).
func ComputeFollow[T comparable](g *grammar.Grammar[T], null NullSet, first FirstSet, start symbol.Symbol) FollowSet {
	follow := make(FollowSet)
	for _, v := range g.LiveVariables() {
		follow[v] = TerminalSet{}
	}
	if start != symbol.Epsilon {
		sv := follow[start]
		sv.AddEndOfInput()
		follow[start] = sv
	}

	for changed := true; changed; {
		changed = false
		for _, v := range g.LiveVariables() {
			for _, p := range g.LiveProductions(v) {
				syms := p.RHS().Symbols()
				for i, s := range syms {
					if !s.IsVariable() {
						continue
					}
					beta := syms[i+1:]
					betaFirst := firstOfSequence(null, first, beta)

					cur := follow[s]
					if cur.AddAll(betaFirst) {
						follow[s] = cur
						changed = true
					}

					if betaNullable(beta, null) {
						cur2 := follow[s]
						if cur2.AddAll(follow[v]) {
							follow[s] = cur2
							changed = true
						}
					}
				}
			}
		}
	}
	return follow
}

func betaNullable(beta []symbol.Symbol, null NullSet) bool {
	for _, s := range beta {
		if s.IsTerminal() || !null[s] {
			return false
		}
	}
	return true
}
