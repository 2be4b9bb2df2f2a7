package earley

import (
	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// Chart is the completed Earley chart: one column per input position,
// 0..len(input) inclusive.
type Chart[T comparable] struct {
	g       *grammar.Grammar[T]
	columns []map[Item[T]][]cause[T]
}

func newChart[T comparable](g *grammar.Grammar[T], n int) *Chart[T] {
	c := &Chart[T]{g: g, columns: make([]map[Item[T]][]cause[T], n+1)}
	for i := range c.columns {
		c.columns[i] = make(map[Item[T]][]cause[T])
	}
	return c
}

// NumColumns returns len(input) + 1.
func (c *Chart[T]) NumColumns() int {
	return len(c.columns)
}

// Items returns every item recorded in column i.
func (c *Chart[T]) Items(i int) []Item[T] {
	out := make([]Item[T], 0, len(c.columns[i]))
	for it := range c.columns[i] {
		out = append(out, it)
	}
	return out
}

func (c *Chart[T]) addItem(col int, it Item[T], cz cause[T]) {
	existing := c.columns[col][it]
	c.columns[col][it] = append(existing, cz)
}

type config[T comparable] struct {
	trees       bool
	firstFilter bool
	first       analysis.FirstSet
}

// Option configures a Recognize call.
type Option[T comparable] func(*config[T])

// WithParseTree enables back-pointer recording so ExtractTree can later
// reconstruct a parse tree from the accepting item.
func WithParseTree[T comparable]() Option[T] {
	return func(cfg *config[T]) { cfg.trees = true }
}

// WithFirstFiltering enables FIRST-set filtering in Predict: a prediction
// for variable B is skipped when FIRST(B) is disjoint from the single next
// input terminal. The nullable-completion shortcut is never filtered, so
// correctness is preserved regardless of the precomputed FIRST set's
// provenance.
func WithFirstFiltering[T comparable](first analysis.FirstSet) Option[T] {
	return func(cfg *config[T]) {
		cfg.firstFilter = true
		cfg.first = first
	}
}

func (c *Chart[T]) predict(cfg config[T], i int, it Item[T], b symbol.Symbol, null analysis.NullSet, input []symbol.Symbol) {
	filtered := false
	if cfg.firstFilter && i < len(input) {
		a := input[i]
		if a.IsTerminal() && !cfg.first[b].Has(analysis.TerminalIndex(a)) {
			filtered = true
		}
	}
	if !filtered {
		for _, p := range c.g.LiveProductions(b) {
			c.addItem(i, Item[T]{Production: p, Dot: 0, Origin: i}, cause[T]{kind: causeSeed})
		}
	}
	if null[b] {
		advanced := Item[T]{Production: it.Production, Dot: it.Dot + 1, Origin: it.Origin}
		c.addItem(i, advanced, cause[T]{kind: causeNullable, prev: it, skippedVar: b})
	}
}

func (c *Chart[T]) scan(i int, it Item[T], a symbol.Symbol) {
	advanced := Item[T]{Production: it.Production, Dot: it.Dot + 1, Origin: it.Origin}
	c.addItem(i+1, advanced, cause[T]{kind: causeScan, prev: it, terminal: a})
}

func (c *Chart[T]) complete(i int, it Item[T]) {
	b := it.Production.Variable()
	for outer := range c.columns[it.Origin] {
		next, ok := outer.NextSymbol()
		if !ok || next != b {
			continue
		}
		advanced := Item[T]{Production: outer.Production, Dot: outer.Dot + 1, Origin: outer.Origin}
		c.addItem(i, advanced, cause[T]{kind: causeComplete, prev: outer, sub: it})
	}
}
