package grammar

import (
	"fmt"

	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// ProductionID is the stable, never-reissued identity of a production
// record inside a single Grammar's arena.
type ProductionID int32

const noProduction ProductionID = 0

type productionRecord[T comparable] struct {
	variable symbol.Symbol
	rhs      symstring.String
	deleted  bool
	refs     int
	prev     ProductionID
	next     ProductionID
}

// Production is an opaque, comparable handle to a single production record
// owned by a Grammar. Two handles obtained from equal (V, α) pairs on the
// same Grammar compare == to each other (see Grammar.AddProduction).
type Production[T comparable] struct {
	g  *Grammar[T]
	id ProductionID
}

// Variable returns the left-hand-side variable of the production.
func (p Production[T]) Variable() symbol.Symbol {
	return p.g.rec(p.id).variable
}

// RHS returns the right-hand-side symbol string of the production.
func (p Production[T]) RHS() symstring.String {
	return p.g.rec(p.id).rhs
}

// IsDeleted reports whether the production has been tombstoned. A
// tombstoned production remains addressable through any handle that still
// holds it, but is never yielded by a Generator or counted in
// Grammar.NumProductions.
func (p Production[T]) IsDeleted() bool {
	return p.g.rec(p.id).deleted
}

// IsNull reports whether p is the distinguished null (epsilon) production
// for its variable.
func (p Production[T]) IsNull() bool {
	return p.g.varRec(p.Variable()).nullProd == p.id
}

// ID returns the production's arena identity, stable for the lifetime of
// the owning Grammar.
func (p Production[T]) ID() ProductionID {
	return p.id
}

// Retain increments the production's outstanding-holder count. Pair with a
// deferred Release on every exit path once a caller decides to hold a
// Production handle across other grammar mutations (principally used by
// Generator).
func (p Production[T]) Retain() {
	p.g.rec(p.id).refs++
}

// Release decrements the production's outstanding-holder count.
func (p Production[T]) Release() {
	rec := p.g.rec(p.id)
	if rec.refs > 0 {
		rec.refs--
	}
}

// Refs reports the current outstanding-holder count, for tests and
// diagnostics.
func (p Production[T]) Refs() int {
	return p.g.rec(p.id).refs
}

func (p Production[T]) String() string {
	return fmt.Sprintf("%s -> %s", p.g.Name(p.Variable()), p.g.symbolsString(p.RHS()))
}
