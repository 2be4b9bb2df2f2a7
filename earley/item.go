// Package earley implements chart parsing over a grammar: Earley
// recognition with optional FIRST-filtered prediction, and optional
// parse-tree extraction from the completed chart.
package earley

import (
	"fmt"

	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// Item is an Earley item (A -> α·β, origin): a production, how many RHS
// symbols have been matched so far (Dot), and the column where matching
// began (Origin). Item is comparable and used directly as a map key.
type Item[T comparable] struct {
	Production grammar.Production[T]
	Dot        int
	Origin     int
}

// IsComplete reports whether the dot has reached the end of the RHS.
func (it Item[T]) IsComplete() bool {
	return it.Dot >= it.Production.RHS().Len()
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists (false for a complete item).
func (it Item[T]) NextSymbol() (symbol.Symbol, bool) {
	rhs := it.Production.RHS()
	if it.Dot >= rhs.Len() {
		return symbol.Epsilon, false
	}
	return rhs.At(it.Dot), true
}

func (it Item[T]) String() string {
	syms := it.Production.RHS().Symbols()
	s := it.Production.Variable().String() + " ->"
	for i := 0; i <= len(syms); i++ {
		if i == it.Dot {
			s += " ·"
		}
		if i < len(syms) {
			s += " " + syms[i].String()
		}
	}
	return fmt.Sprintf("(%s, %d)", s, it.Origin)
}

type causeKind int

const (
	causeSeed causeKind = iota
	causeScan
	causeComplete
	causeNullable
)

// cause records one way an item came to exist in a column, enough to
// reconstruct a parse tree by walking backward from an accepting item.
type cause[T comparable] struct {
	kind causeKind

	prev Item[T] // the item one dot position earlier (same production/origin)

	terminal symbol.Symbol // causeScan: the matched terminal

	sub Item[T] // causeComplete: the completed sub-item that advanced prev

	skippedVar symbol.Symbol // causeNullable: the variable skipped via the shortcut
}

// Tree is one node of an extracted parse tree: either an interior node
// naming the production applied, with one child per matched RHS symbol, or
// a terminal leaf (Production is the zero value, Leaf is set).
type Tree[T comparable] struct {
	Production grammar.Production[T]
	IsLeaf     bool
	Leaf       symbol.Symbol
	Children   []*Tree[T]
}

func (t *Tree[T]) String() string {
	if t.IsLeaf {
		return t.Leaf.String()
	}
	s := t.Production.Variable().String() + "("
	for i, c := range t.Children {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s + ")"
}
