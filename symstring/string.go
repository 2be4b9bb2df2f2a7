// Package symstring implements the symbol-string algebra: an ordered,
// semantically immutable sequence of symbols supporting cheap copy,
// concatenation, and content equality. Two strings compare equal iff their
// symbol sequences are equal; the empty string is the unique epsilon
// singleton.
package symstring

import (
	"strings"

	"github.com/dekarrin/cfgkit/symbol"
)

// header is the private, shared backing storage for a String. The public
// interface never exposes it directly.
type header struct {
	symbols []symbol.Symbol
	refs    int
}

// String is an immutable sequence of symbols. The zero value is the empty
// string (epsilon).
type String struct {
	h *header
}

var epsilonHeader = &header{}

// Epsilon returns the unique empty symbol string.
func Epsilon() String {
	return String{h: epsilonHeader}
}

// New builds a String from an explicit symbol sequence. A nil or empty
// slice yields Epsilon. The caller's slice is copied; the returned String
// never aliases it.
func New(symbols ...symbol.Symbol) String {
	if len(symbols) == 0 {
		return Epsilon()
	}
	cp := make([]symbol.Symbol, len(symbols))
	copy(cp, symbols)
	return String{h: &header{symbols: cp}}
}

// Len returns the number of symbols in the string.
func (s String) Len() int {
	if s.h == nil {
		return 0
	}
	return len(s.h.symbols)
}

// IsEpsilon reports whether s is the empty string.
func (s String) IsEpsilon() bool {
	return s.Len() == 0
}

// At returns the symbol at index i. It panics if i is out of range, same as
// slice indexing.
func (s String) At(i int) symbol.Symbol {
	return s.h.symbols[i]
}

// Slice returns the substring [i:j). Slicing the full range, or any empty
// range, returns Epsilon rather than aliasing this string's storage.
func (s String) Slice(i, j int) String {
	if s.h == nil {
		if i != 0 || j != 0 {
			panic("symstring: slice index out of range")
		}
		return Epsilon()
	}
	return New(s.h.symbols[i:j]...)
}

// Symbols returns a fresh copy of the underlying symbol sequence. Mutating
// the result never affects s.
func (s String) Symbols() []symbol.Symbol {
	if s.h == nil || len(s.h.symbols) == 0 {
		return nil
	}
	cp := make([]symbol.Symbol, len(s.h.symbols))
	copy(cp, s.h.symbols)
	return cp
}

// Concat returns the sequence s·other as a new String. It may share backing
// storage with neither, either, or both operands.
func (s String) Concat(other String) String {
	if s.IsEpsilon() {
		return other
	}
	if other.IsEpsilon() {
		return s
	}
	out := make([]symbol.Symbol, 0, s.Len()+other.Len())
	out = append(out, s.h.symbols...)
	out = append(out, other.h.symbols...)
	return String{h: &header{symbols: out}}
}

// Equal reports whether s and other have equal symbol sequences. Epsilon
// compares equal to any other empty string regardless of how it was built.
func (s String) Equal(other String) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.At(i) != other.At(i) {
			return false
		}
	}
	return true
}

// Hash returns a content hash suitable for use as a dedup key (e.g. in a
// map[uint64][]String bucket), using the FNV-1a algorithm over the symbol
// sequence.
func (s String) Hash() uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < s.Len(); i++ {
		h ^= uint64(uint32(s.At(i)))
		h *= 1099511628211
	}
	return h
}

// Retain increments the string's reference count. Call Release an equal
// number of times when done holding it. Retaining Epsilon is a no-op.
func (s String) Retain() {
	if s.h == nil || s.h == epsilonHeader {
		return
	}
	s.h.refs++
}

// Release decrements the string's reference count. It never frees storage
// itself (the Go garbage collector does that once all holders, including
// the grammar's own production records, drop their String values) — it
// exists so components that must track "is anyone still holding this"
// (principally the production store) have an accurate count to consult.
func (s String) Release() {
	if s.h == nil || s.h == epsilonHeader {
		return
	}
	if s.h.refs > 0 {
		s.h.refs--
	}
}

// Refs reports the current reference count, for tests and diagnostics.
func (s String) Refs() int {
	if s.h == nil {
		return 0
	}
	return s.h.refs
}

func (s String) String() string {
	if s.IsEpsilon() {
		return "ε"
	}
	var sb strings.Builder
	for i := 0; i < s.Len(); i++ {
		sb.WriteString(s.At(i).String())
		if i+1 < s.Len() {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}
