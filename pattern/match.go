package pattern

import (
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// Match attempts to match the pattern against a production's (variable,
// rhs) pair. On success, every hole in the pattern is bound to the portion
// of the input it matched and Match returns true. On failure, Match returns
// false and leaves every caller-supplied target untouched — a failed
// attempt never partially binds.
func (p *Pattern) Match(variable symbol.Symbol, rhs symstring.String) bool {
	if p.lhs.kind == lhsLiteral && p.lhs.literal != variable {
		return false
	}

	syms := rhs.Symbols()
	m := &matcher{slots: p.slots, minSuffix: p.minSuffix, syms: syms}
	if !m.match(0, 0) {
		return false
	}
	m.commit()

	if p.lhs.kind == lhsHole {
		*p.lhs.target = variable
	}
	return true
}

// matcher runs one match attempt. Bindings are recorded into a pending list
// and only written to caller targets once the whole pattern has matched
// (commit), so a failed branch never touches caller state.
type matcher struct {
	slots     []rawSlot
	minSuffix []int
	syms      []symbol.Symbol

	pendingSym []pendingSymBind
	pendingStr []pendingStrBind
}

type pendingSymBind struct {
	target *symbol.Symbol
	value  symbol.Symbol
}

type pendingStrBind struct {
	target *symstring.String
	value  symstring.String
}

func (m *matcher) commit() {
	for _, b := range m.pendingSym {
		*b.target = b.value
	}
	for _, b := range m.pendingStr {
		*b.target = b.value
	}
}

// match attempts to align slots[si:] against syms[pi:], recording bindings
// as it goes. It returns true iff the full remaining slot sequence accounts
// for exactly the full remaining symbol sequence.
func (m *matcher) match(si, pi int) bool {
	if si == len(m.slots) {
		return pi == len(m.syms)
	}

	s := m.slots[si]

	if s.kind.isSlice() {
		return m.matchSlice(si, pi, s)
	}

	if pi >= len(m.syms) {
		return false
	}
	sym := m.syms[pi]

	switch s.kind {
	case slotFixed:
		if sym != s.literal {
			return false
		}
	case slotAnySingle:
		// matches anything
	case slotSymbolHole:
		// matches anything
	case slotTerminalHole:
		if !sym.IsTerminal() {
			return false
		}
	case slotVariableHole:
		if !sym.IsVariable() {
			return false
		}
	}

	if !m.match(si+1, pi+1) {
		return false
	}

	if s.symTarget != nil {
		m.pendingSym = append(m.pendingSym, pendingSymBind{target: s.symTarget, value: sym})
	}
	return true
}

// matchSlice tries progressively shorter runs, starting from the longest
// run that still leaves enough symbols for the mandatory minimum of
// everything after it (leftmost-longest with backtracking).
func (m *matcher) matchSlice(si, pi int, s rawSlot) bool {
	remaining := len(m.syms) - pi
	mustLeave := m.minSuffix[si+1]
	maxTake := remaining - mustLeave
	if maxTake < 0 {
		return false
	}

	for take := maxTake; take >= 0; take-- {
		if m.match(si+1, pi+take) {
			if s.strTarget != nil {
				m.pendingStr = append(m.pendingStr, pendingStrBind{
					target: s.strTarget,
					value:  symstring.New(m.syms[pi : pi+take]...),
				})
			}
			return true
		}
	}
	return false
}
