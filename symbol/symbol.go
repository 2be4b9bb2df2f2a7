// Package symbol interns terminals and variables into small integer
// identities. Positive identities are variables, negative identities are
// terminals, and zero is the epsilon/invalid sentinel. Terminals further
// split into alphabet terminals (backed by an interned value of the
// grammar's parameter type) and variable terminals (backed by an interned
// placeholder name, used while transforms rewrite a grammar).
package symbol

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/cfgkit/cfgerr"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Symbol is a tagged integer identity. See the package doc for the sign
// convention.
type Symbol int32

// Epsilon is the sentinel symbol: the empty symbol, used only as a value
// never actually stored inside a non-empty symbol string.
const Epsilon Symbol = 0

// IsVariable reports whether s names a variable.
func (s Symbol) IsVariable() bool { return s > 0 }

// IsTerminal reports whether s names a terminal (alphabet or variable).
func (s Symbol) IsTerminal() bool { return s < 0 }

// IsEpsilon reports whether s is the sentinel.
func (s Symbol) IsEpsilon() bool { return s == 0 }

func (s Symbol) String() string {
	switch {
	case s.IsEpsilon():
		return "ε"
	case s.IsVariable():
		return fmt.Sprintf("V%d", int(s))
	default:
		return fmt.Sprintf("T%d", int(-s))
	}
}

// termKind distinguishes the two sub-kinds of terminal.
type termKind uint8

const (
	termInvalid termKind = iota
	termAlphabet
	termVariable
)

type termRecord[T any] struct {
	kind termKind
	name string // set for termVariable
	hasValue bool
	value T // set for termAlphabet
}

// Registry interns terminals (of parameter type T) and variables into
// Symbol identities. A Registry is never safe for concurrent mutation; see
// the package-level concurrency note in the grammar package.
type Registry[T comparable] struct {
	terminals []termRecord[T] // index i holds the record for Symbol(-(i+1))
	valueIndex map[T]Symbol
	termNameIndex map[string]Symbol

	variableNames []string // index i holds the name for Symbol(i+1); "" if unnamed
	varNameIndex  map[string]Symbol

	dollarUpperBound int
}

// NewRegistry creates an empty registry.
func NewRegistry[T comparable]() *Registry[T] {
	return &Registry[T]{
		valueIndex:    make(map[T]Symbol),
		termNameIndex: make(map[string]Symbol),
		varNameIndex:  make(map[string]Symbol),
	}
}

// ValidName reports whether name satisfies the "$"-digits rule: empty, or
// starting with "$" followed only by digits, or starting with any
// non-"$" character.
func ValidName(name string) bool {
	if name == "" {
		return true
	}
	if !strings.HasPrefix(name, "$") {
		return true
	}
	digits := name[1:]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r *Registry[T]) noteDollarName(name string) {
	if !strings.HasPrefix(name, "$") {
		return
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil {
		return
	}
	if n+1 > r.dollarUpperBound {
		r.dollarUpperBound = n + 1
	}
}

// HasVariable reports whether name already names a variable, without
// creating one.
func (r *Registry[T]) HasVariable(name string) (Symbol, bool) {
	if name == "" {
		return Epsilon, false
	}
	sym, ok := r.varNameIndex[name]
	return sym, ok
}

// NumTerminals returns the count of interned terminals (alphabet and
// variable terminals combined).
func (r *Registry[T]) NumTerminals() int {
	return len(r.terminals)
}

// GetTerminal interns value as an alphabet terminal, creating it on first
// use. The returned Symbol never changes across later calls with an equal
// value.
func (r *Registry[T]) GetTerminal(value T) Symbol {
	if sym, ok := r.valueIndex[value]; ok {
		return sym
	}
	idx := len(r.terminals)
	r.terminals = append(r.terminals, termRecord[T]{kind: termAlphabet, value: value, hasValue: true})
	sym := Symbol(-(idx + 1))
	r.valueIndex[value] = sym
	return sym
}

// GetVariable interns name as a variable, creating it on first use. An
// empty or auto ("$N") name is permitted and tracked for collision
// avoidance. Returns a non-nil error if name violates ValidName.
func (r *Registry[T]) GetVariable(name string) (Symbol, error) {
	if !ValidName(name) {
		return Epsilon, invalidName(name)
	}
	if name != "" {
		if sym, ok := r.varNameIndex[name]; ok {
			return sym, nil
		}
	}
	idx := len(r.variableNames)
	r.variableNames = append(r.variableNames, name)
	sym := Symbol(idx + 1)
	if name != "" {
		r.varNameIndex[name] = sym
		r.noteDollarName(name)
	}
	return sym, nil
}

// AddVariable creates a fresh, anonymous variable with an auto-generated
// "$N" name strictly greater than any existing "$"-prefixed name.
func (r *Registry[T]) AddVariable() Symbol {
	name := fmt.Sprintf("$%d", r.dollarUpperBound)
	r.dollarUpperBound++
	sym, _ := r.GetVariable(name) // name is always valid: "$" + digits
	return sym
}

// GetVariableTerminal interns name as a variable terminal (a placeholder
// used by transforms), creating it on first use.
func (r *Registry[T]) GetVariableTerminal(name string) (Symbol, error) {
	if !ValidName(name) {
		return Epsilon, invalidName(name)
	}
	if sym, ok := r.termNameIndex[name]; ok {
		return sym, nil
	}
	idx := len(r.terminals)
	r.terminals = append(r.terminals, termRecord[T]{kind: termVariable, name: name})
	sym := Symbol(-(idx + 1))
	r.termNameIndex[name] = sym
	return sym, nil
}

// GetVariableSymbol resolves name against the variable-name map first, then
// the variable-terminal-name map, creating a new variable terminal if
// neither already exists.
func (r *Registry[T]) GetVariableSymbol(name string) (Symbol, error) {
	if !ValidName(name) {
		return Epsilon, invalidName(name)
	}
	if sym, ok := r.varNameIndex[name]; ok {
		return sym, nil
	}
	if sym, ok := r.termNameIndex[name]; ok {
		return sym, nil
	}
	return r.GetVariableTerminal(name)
}

// GetAlpha returns the alphabet value interned for an alphabet terminal. ok
// is false for any symbol that is not an alphabet terminal.
func (r *Registry[T]) GetAlpha(t Symbol) (value T, ok bool) {
	if !t.IsTerminal() {
		return value, false
	}
	idx := int(-t) - 1
	if idx < 0 || idx >= len(r.terminals) {
		return value, false
	}
	rec := r.terminals[idx]
	if rec.kind != termAlphabet {
		return value, false
	}
	return rec.value, true
}

// GetName returns the display name associated with a symbol: the interned
// alphabet value's formatted form, the interned terminal/variable name, or
// "" if the symbol carries no name (anonymous variable before naming, or an
// unknown symbol).
func (r *Registry[T]) GetName(s Symbol) string {
	switch {
	case s.IsEpsilon():
		return "ε"
	case s.IsVariable():
		idx := int(s) - 1
		if idx < 0 || idx >= len(r.variableNames) {
			return ""
		}
		return r.variableNames[idx]
	default:
		idx := int(-s) - 1
		if idx < 0 || idx >= len(r.terminals) {
			return ""
		}
		rec := r.terminals[idx]
		if rec.kind == termVariable {
			return rec.name
		}
		return fmt.Sprintf("%v", rec.value)
	}
}

// OrderedVariables returns every named variable symbol, sorted by display
// name using locale-aware collation rather than byte order, so reports
// listing many variables read in a natural order regardless of the
// alphabet's script.
func (r *Registry[T]) OrderedVariables() []Symbol {
	type named struct {
		sym  Symbol
		name string
	}
	var vars []named
	for i, name := range r.variableNames {
		if name == "" {
			continue
		}
		vars = append(vars, named{sym: Symbol(i + 1), name: name})
	}

	col := collate.New(language.Und)
	sort.Slice(vars, func(i, j int) bool {
		return col.CompareString(vars[i].name, vars[j].name) < 0
	})

	out := make([]Symbol, len(vars))
	for i, n := range vars {
		out[i] = n.sym
	}
	return out
}

// IsAlphabetTerminal reports whether s was interned via GetTerminal.
func (r *Registry[T]) IsAlphabetTerminal(s Symbol) bool {
	if !s.IsTerminal() {
		return false
	}
	idx := int(-s) - 1
	if idx < 0 || idx >= len(r.terminals) {
		return false
	}
	return r.terminals[idx].kind == termAlphabet
}

func invalidName(name string) error {
	return cfgerr.InvalidName(name)
}
