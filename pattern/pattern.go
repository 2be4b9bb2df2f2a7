// Package pattern implements the pattern DSL and matcher: the declarative
// heart of the system. A Pattern is a partially specified production — a
// left-hand-side spec plus a right-hand-side built from fixed symbols,
// wildcards ("_" and "__"), and typed holes (~symbol, ~terminal,
// ~variable, ~string) — compiled once and matched repeatedly against
// productions. Holes bind into caller-supplied pointers; a failed match
// never writes to them, and a successful match only ever reflects the
// latest call.
package pattern

import (
	"fmt"

	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

type lhsKind int

const (
	lhsWildcard lhsKind = iota
	lhsLiteral
	lhsHole
)

type lhsSpec struct {
	kind    lhsKind
	literal symbol.Symbol
	target  *symbol.Symbol
}

type slotKind int

const (
	slotFixed slotKind = iota
	slotAnySingle
	slotAnySlice
	slotSymbolHole
	slotTerminalHole
	slotVariableHole
	slotStringHole
)

func (k slotKind) isSlice() bool {
	return k == slotAnySlice || k == slotStringHole
}

// width of a fixed-width slot: always 1, except for slice slots which are
// handled separately by the matcher.
type rawSlot struct {
	kind      slotKind
	literal   symbol.Symbol
	symTarget *symbol.Symbol
	strTarget *symstring.String
}

// Builder constructs a Pattern through fluent calls. The zero value is not
// usable; use New.
type Builder struct {
	lhs  lhsSpec
	rhs  []rawSlot
	errs []error
}

// New starts a pattern whose LHS is unbound (a wildcard, "_"): it accepts
// any variable without binding it. Call LHSLiteral or LHSHole to specify a
// different LHS before adding RHS atoms.
func New() *Builder {
	return &Builder{lhs: lhsSpec{kind: lhsWildcard}}
}

// LHSLiteral requires the production's variable to equal v exactly.
func (b *Builder) LHSLiteral(v symbol.Symbol) *Builder {
	b.lhs = lhsSpec{kind: lhsLiteral, literal: v}
	return b
}

// LHSHole accepts any variable and, on a successful match, writes it into
// *target.
func (b *Builder) LHSHole(target *symbol.Symbol) *Builder {
	if target == nil {
		b.errs = append(b.errs, fmt.Errorf("pattern: LHSHole target must not be nil"))
		return b
	}
	b.lhs = lhsSpec{kind: lhsHole, target: target}
	return b
}

// LHSWildcard accepts any variable without binding it. This is the default.
func (b *Builder) LHSWildcard() *Builder {
	b.lhs = lhsSpec{kind: lhsWildcard}
	return b
}

// Symbol appends a fixed RHS symbol that must match exactly.
func (b *Builder) Symbol(s symbol.Symbol) *Builder {
	b.rhs = append(b.rhs, rawSlot{kind: slotFixed, literal: s})
	return b
}

// String appends a fixed RHS symbol string, expanding to one fixed slot per
// symbol.
func (b *Builder) String(s symstring.String) *Builder {
	for i := 0; i < s.Len(); i++ {
		b.Symbol(s.At(i))
	}
	return b
}

// Any appends "_": a slot that matches exactly one symbol of any kind,
// without binding it.
func (b *Builder) Any() *Builder {
	b.rhs = append(b.rhs, rawSlot{kind: slotAnySingle})
	return b
}

// AnySlice appends "__": a slot that matches any possibly-empty run of
// symbols, without binding it.
func (b *Builder) AnySlice() *Builder {
	b.rhs = append(b.rhs, rawSlot{kind: slotAnySlice})
	return b
}

// SymbolHole appends "~symbol": matches exactly one symbol of any kind and
// binds it into *target.
func (b *Builder) SymbolHole(target *symbol.Symbol) *Builder {
	return b.typedSingleHole(slotSymbolHole, target)
}

// TerminalHole appends "~terminal": matches exactly one terminal symbol
// (alphabet or variable terminal) and binds it into *target. Fails to match
// a variable symbol.
func (b *Builder) TerminalHole(target *symbol.Symbol) *Builder {
	return b.typedSingleHole(slotTerminalHole, target)
}

// VariableHole appends "~variable": matches exactly one variable symbol and
// binds it into *target. Fails to match a terminal symbol.
func (b *Builder) VariableHole(target *symbol.Symbol) *Builder {
	return b.typedSingleHole(slotVariableHole, target)
}

func (b *Builder) typedSingleHole(kind slotKind, target *symbol.Symbol) *Builder {
	if target == nil {
		b.errs = append(b.errs, fmt.Errorf("pattern: hole target must not be nil"))
		return b
	}
	b.rhs = append(b.rhs, rawSlot{kind: kind, symTarget: target})
	return b
}

// StringHole appends "~string": matches any possibly-empty run of symbols
// and binds it into *target. Always bindable — it carries no kind
// constraint.
func (b *Builder) StringHole(target *symstring.String) *Builder {
	if target == nil {
		b.errs = append(b.errs, fmt.Errorf("pattern: string hole target must not be nil"))
		return b
	}
	b.rhs = append(b.rhs, rawSlot{kind: slotStringHole, strTarget: target})
	return b
}
