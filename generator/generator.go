// Package generator implements lazy, single-threaded, cooperative cursors
// over pattern matches: pull one production at a time out of a grammar,
// skipping everything the pattern rejects, without materializing every
// match up front.
//
// A Generator is safe across exactly one kind of concurrent structural
// mutation: the caller removing the production currently bound by the
// generator (the one returned by the most recent successful MatchNext).
// Any other mutation — adding or removing other productions or variables —
// while a generator is mid-iteration is undefined: the generator may skip,
// repeat, or fail to see the change, and in the worst case invalidate the
// resume position entirely (it falls back to restarting the affected
// variable's scan from the beginning, which may repeat an earlier match).
package generator

import (
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/pattern"
	"github.com/dekarrin/cfgkit/symbol"
)

// Generator walks a Grammar's live productions, yielding the ones a Pattern
// matches. The zero value is not usable; use New.
type Generator[T comparable] struct {
	g   *grammar.Grammar[T]
	pat *pattern.Pattern

	started   bool
	exhausted bool

	curVar    symbol.Symbol
	resumeID  grammar.ProductionID

	bound    grammar.Production[T]
	hasBound bool
}

// New creates a generator over g, yielding only productions pat matches.
func New[T comparable](g *grammar.Grammar[T], pat *pattern.Pattern) *Generator[T] {
	return &Generator[T]{g: g, pat: pat}
}

// MatchNext advances to the next production the pattern matches, binding
// every hole in the pattern as a side effect and retaining the matched
// production so it remains addressable even if removed mid-iteration. It
// returns false once no further match exists; a caller must stop calling it
// (or call Rewind) at that point.
func (gen *Generator[T]) MatchNext() bool {
	gen.releaseBound()
	if gen.exhausted {
		return false
	}

	vars := gen.g.LiveVariables()
	startVarIdx := 0
	if gen.started {
		startVarIdx = firstIndexGreaterThan(vars, gen.curVar)
	}
	gen.started = true

	for vi := startVarIdx; vi < len(vars); vi++ {
		v := vars[vi]
		prods := gen.g.LiveProductions(v)

		beginIdx := 0
		if v == gen.curVar && gen.resumeID != 0 {
			if idx, ok := indexOfProductionID(prods, gen.resumeID); ok {
				beginIdx = idx
			}
		}

		for pi := beginIdx; pi < len(prods); pi++ {
			p := prods[pi]
			if !gen.pat.Match(p.Variable(), p.RHS()) {
				continue
			}
			p.Retain()
			gen.bound = p
			gen.hasBound = true
			gen.curVar = v
			if pi+1 < len(prods) {
				gen.resumeID = prods[pi+1].ID()
			} else {
				gen.resumeID = 0
			}
			return true
		}
		gen.curVar = v
		gen.resumeID = 0
	}

	gen.exhausted = true
	return false
}

// Current returns the production most recently bound by a successful
// MatchNext call, and whether one is currently bound.
func (gen *Generator[T]) Current() (grammar.Production[T], bool) {
	return gen.bound, gen.hasBound
}

// Rewind resets the generator to scan from the beginning.
func (gen *Generator[T]) Rewind() {
	gen.releaseBound()
	gen.started = false
	gen.exhausted = false
	gen.curVar = symbol.Epsilon
	gen.resumeID = 0
}

// Close releases the currently bound production, if any, without advancing.
// Call it when abandoning iteration before MatchNext returns false.
func (gen *Generator[T]) Close() {
	gen.releaseBound()
}

func (gen *Generator[T]) releaseBound() {
	if gen.hasBound {
		gen.bound.Release()
		gen.hasBound = false
	}
}

func firstIndexGreaterThan(vars []symbol.Symbol, v symbol.Symbol) int {
	for i, cand := range vars {
		if cand > v {
			return i
		}
	}
	return len(vars)
}

func indexOfProductionID[T comparable](prods []grammar.Production[T], id grammar.ProductionID) (int, bool) {
	for i, p := range prods {
		if p.ID() == id {
			return i, true
		}
	}
	return 0, false
}
