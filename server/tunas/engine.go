package tunas

import (
	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/earley"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/ll1"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/transform"
)

// Stored grammars are always gfmt text over a string alphabet, so the
// service layer only ever instantiates the generic core packages at
// T = string.
type (
	cfgGrammar = grammar.Grammar[string]
	cfgSymbol  = symbol.Symbol
)

func computeNull(g *cfgGrammar) analysis.NullSet { return analysis.ComputeNull(g) }

func computeFirst(g *cfgGrammar, null analysis.NullSet) analysis.FirstSet {
	return analysis.ComputeFirst(g, null)
}

func computeFollow(g *cfgGrammar, null analysis.NullSet, first analysis.FirstSet, start symbol.Symbol) analysis.FollowSet {
	return analysis.ComputeFollow(g, null, first, start)
}

func removeLeftRecursion(g *cfgGrammar) error { return transform.RemoveLeftRecursion(g) }

func buildLL1(g *cfgGrammar, null analysis.NullSet, first analysis.FirstSet, follow analysis.FollowSet) *ll1.Table[string] {
	return ll1.Build(g, null, first, follow)
}

func recognize(g *cfgGrammar, start symbol.Symbol, input []symbol.Symbol, null analysis.NullSet) (*earley.Tree[string], bool) {
	chart, ok := earley.Recognize(g, start, input, null, earley.WithParseTree[string]())
	if !ok {
		return nil, false
	}
	tree, ok := chart.ExtractTree(start)
	return tree, ok
}

// liveTerminals returns every alphabet terminal actually referenced by a
// grammar's live productions, plus the end-of-input sentinel, for use as
// the terminal header of a rendered LL(1) table.
func liveTerminals(g *cfgGrammar) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	var out []symbol.Symbol

	for _, v := range g.LiveVariables() {
		for _, p := range g.LiveProductions(v) {
			for _, s := range p.RHS().Symbols() {
				if s.IsTerminal() && g.IsAlphabetTerminal(s) && !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}

	out = append(out, analysis.EndOfInput)
	return out
}
