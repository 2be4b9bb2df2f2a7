package earley

import (
	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// Recognize runs the Earley algorithm over input, seeded from every
// production of start. It returns the completed chart and whether input is
// accepted (column n contains (start -> γ·, 0)). null is required (it
// drives the nullable-completion shortcut in Predict); pass
// WithFirstFiltering to additionally prune predictions using a
// precomputed FIRST set, and WithParseTree to retain enough back-pointers
// for Chart.ExtractTree.
func Recognize[T comparable](g *grammar.Grammar[T], start symbol.Symbol, input []symbol.Symbol, null analysis.NullSet, opts ...Option[T]) (*Chart[T], bool) {
	var cfg config[T]
	for _, o := range opts {
		o(&cfg)
	}

	n := len(input)
	chart := newChart(g, n)

	for _, p := range g.LiveProductions(start) {
		chart.addItem(0, Item[T]{Production: p, Dot: 0, Origin: 0}, cause[T]{kind: causeSeed})
	}

	for i := 0; i <= n; i++ {
		processed := make(map[Item[T]]bool)
		for {
			progressed := false
			for it := range chart.columns[i] {
				if processed[it] {
					continue
				}
				processed[it] = true
				progressed = true

				if next, ok := it.NextSymbol(); ok {
					if next.IsVariable() {
						chart.predict(cfg, i, it, next, null, input)
					} else if i < n && next == input[i] {
						chart.scan(i, it, next)
					}
				} else {
					chart.complete(i, it)
				}
			}
			if !progressed {
				break
			}
		}
	}

	accept := false
	for it := range chart.columns[n] {
		if it.Production.Variable() == start && it.Origin == 0 && it.IsComplete() {
			accept = true
			break
		}
	}
	return chart, accept
}

// ExtractTree reconstructs one parse tree (of possibly several, for an
// ambiguous grammar) rooted at an accepting item for start, using
// back-pointers recorded when Recognize was run with WithParseTree. It
// returns false if the chart records no accepting item, or was not built
// with parse-tree tracking and nothing resolves.
func (c *Chart[T]) ExtractTree(start symbol.Symbol) (*Tree[T], bool) {
	last := c.NumColumns() - 1
	for it := range c.columns[last] {
		if it.Production.Variable() == start && it.Origin == 0 && it.IsComplete() {
			return c.extractTree(last, it), true
		}
	}
	return nil, false
}

func (c *Chart[T]) extractTree(col int, it Item[T]) *Tree[T] {
	return &Tree[T]{Production: it.Production, Children: c.extractChildren(col, it)}
}

func (c *Chart[T]) extractChildren(col int, it Item[T]) []*Tree[T] {
	if it.Dot == 0 {
		return nil
	}
	causes := c.columns[col][it]
	if len(causes) == 0 {
		return nil
	}
	cz := causes[0]

	switch cz.kind {
	case causeScan:
		kids := c.extractChildren(col-1, cz.prev)
		leaf := &Tree[T]{IsLeaf: true, Leaf: cz.terminal}
		return append(kids, leaf)
	case causeComplete:
		prevCol := cz.sub.Origin
		kids := c.extractChildren(prevCol, cz.prev)
		sub := c.extractTree(col, cz.sub)
		return append(kids, sub)
	case causeNullable:
		kids := c.extractChildren(col, cz.prev)
		for cand := range c.columns[col] {
			if cand.Production.Variable() == cz.skippedVar && cand.Origin == col && cand.IsComplete() {
				return append(kids, c.extractTree(col, cand))
			}
		}
		return kids
	default:
		return nil
	}
}
