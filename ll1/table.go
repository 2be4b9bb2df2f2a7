// Package ll1 builds LL(1) parse tables from a grammar's NULL, FIRST, and
// FOLLOW sets, reporting any cell conflicts without aborting construction.
package ll1

import (
	"fmt"

	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
)

// CellKey addresses one table cell: a variable and a lookahead terminal
// (which may be analysis.EndOfInput).
type CellKey struct {
	Variable symbol.Symbol
	Terminal symbol.Symbol
}

// Conflict records that two distinct productions both claimed the same
// table cell; the later one (in construction order) won the cell.
type Conflict struct {
	Variable        symbol.Symbol
	Terminal        symbol.Symbol
	Evicted, Winner grammar.ProductionID
}

func (c Conflict) String() string {
	return fmt.Sprintf("conflict at (%s, %s): production %d evicted by production %d",
		c.Variable, c.Terminal, c.Evicted, c.Winner)
}

// Table is a completed LL(1) parse table, produced whether or not it is
// actually LL(1) (see Conflicts and IsLL1).
type Table[T comparable] struct {
	cells     map[CellKey]grammar.ProductionID
	conflicts []Conflict
}

func newTable[T comparable]() *Table[T] {
	return &Table[T]{cells: make(map[CellKey]grammar.ProductionID)}
}

// Get returns the production to use when parsing variable v with lookahead
// terminal a (or analysis.EndOfInput), and whether a cell exists.
func (t *Table[T]) Get(v, a symbol.Symbol) (grammar.ProductionID, bool) {
	id, ok := t.cells[CellKey{Variable: v, Terminal: a}]
	return id, ok
}

// Conflicts returns every cell collision encountered during construction,
// in the order they were detected.
func (t *Table[T]) Conflicts() []Conflict {
	return t.conflicts
}

// IsLL1 reports whether construction encountered zero conflicts.
func (t *Table[T]) IsLL1() bool {
	return len(t.conflicts) == 0
}

func (t *Table[T]) set(v, a symbol.Symbol, id grammar.ProductionID) {
	key := CellKey{Variable: v, Terminal: a}
	if existing, ok := t.cells[key]; ok && existing != id {
		t.conflicts = append(t.conflicts, Conflict{Variable: v, Terminal: a, Evicted: existing, Winner: id})
	}
	t.cells[key] = id
}
