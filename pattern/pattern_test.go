package pattern

import (
	"testing"

	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S3 — grammar S -> a S b | ε; search (~S) ---> ~x over S's productions:
// first call binds x = aSb, second binds x = ε, third returns false.
func TestS3_StringHoleOverAllProductions(t *testing.T) {
	const sVar symbol.Symbol = 1
	const aTerm symbol.Symbol = -1
	const bTerm symbol.Symbol = -2

	aSb := symstring.New(aTerm, sVar, bTerm)
	eps := symstring.Epsilon()

	var x symstring.String
	p, err := New().LHSLiteral(sVar).StringHole(&x).Compile()
	require.NoError(t, err)

	ok := p.Match(sVar, aSb)
	require.True(t, ok)
	assert.True(t, x.Equal(aSb))

	ok = p.Match(sVar, eps)
	require.True(t, ok)
	assert.True(t, x.Equal(eps))
}

func TestLHSWildcard_AcceptsAnyVariable(t *testing.T) {
	const v1 symbol.Symbol = 1
	const v2 symbol.Symbol = 2
	const a symbol.Symbol = -1

	p, err := New().Any().Compile()
	require.NoError(t, err)

	assert.True(t, p.Match(v1, symstring.New(a)))
	assert.True(t, p.Match(v2, symstring.New(a)))
}

func TestLHSHole_BindsVariable(t *testing.T) {
	const v symbol.Symbol = 7
	const a symbol.Symbol = -1

	var bound symbol.Symbol
	p, err := New().LHSHole(&bound).Symbol(a).Compile()
	require.NoError(t, err)

	require.True(t, p.Match(v, symstring.New(a)))
	assert.Equal(t, v, bound)
}

func TestLHSLiteral_RejectsOtherVariable(t *testing.T) {
	const v1 symbol.Symbol = 1
	const v2 symbol.Symbol = 2
	const a symbol.Symbol = -1

	p, err := New().LHSLiteral(v1).Symbol(a).Compile()
	require.NoError(t, err)

	assert.False(t, p.Match(v2, symstring.New(a)))
}

func TestTypedSingleHoles_KindConstraints(t *testing.T) {
	const term symbol.Symbol = -1
	const variable symbol.Symbol = 1

	var target symbol.Symbol

	pt, err := New().TerminalHole(&target).Compile()
	require.NoError(t, err)
	assert.True(t, pt.Match(1, symstring.New(term)))
	assert.False(t, pt.Match(1, symstring.New(variable)))

	pv, err := New().VariableHole(&target).Compile()
	require.NoError(t, err)
	assert.True(t, pv.Match(1, symstring.New(variable)))
	assert.False(t, pv.Match(1, symstring.New(term)))

	ps, err := New().SymbolHole(&target).Compile()
	require.NoError(t, err)
	assert.True(t, ps.Match(1, symstring.New(term)))
	assert.True(t, ps.Match(1, symstring.New(variable)))
}

func TestAnySlice_MatchesEmptyAndNonEmpty(t *testing.T) {
	const a symbol.Symbol = -1
	const b symbol.Symbol = -2

	p, err := New().Symbol(a).AnySlice().Symbol(b).Compile()
	require.NoError(t, err)

	assert.True(t, p.Match(1, symstring.New(a, b)))
	assert.True(t, p.Match(1, symstring.New(a, a, a, b)))
	assert.False(t, p.Match(1, symstring.New(a)))
	assert.False(t, p.Match(1, symstring.New(b, a)))
}

// Two slice holes in one segment: exercises the leftmost-longest with
// backtracking policy. Pattern __ a __ against "a a a" must find a way to
// split so the fixed "a" lands somewhere in the middle; with only one fixed
// anchor, the longest first slice is chosen such that the second can still
// find the literal.
func TestMultipleSliceHoles_BacktracksToFindFixedAnchor(t *testing.T) {
	const a symbol.Symbol = -1

	var head, tail symstring.String
	p, err := New().
		StringHole(&head).
		Symbol(a).
		StringHole(&tail).
		Compile()
	require.NoError(t, err)

	ok := p.Match(1, symstring.New(a, a, a))
	require.True(t, ok)
	// leftmost-longest: the first hole greedily takes as much as possible
	// while still leaving room for the mandatory "a" and the tail hole can
	// be empty, so head should be "a a" and tail empty.
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, 0, tail.Len())
}

func TestFailedMatch_LeavesTargetsUntouched(t *testing.T) {
	const a symbol.Symbol = -1
	const b symbol.Symbol = -2

	sentinel := symstring.New(a)
	x := sentinel
	p, err := New().Symbol(b).StringHole(&x).Compile()
	require.NoError(t, err)

	ok := p.Match(1, symstring.New(a, a))
	require.False(t, ok)
	assert.True(t, x.Equal(sentinel), "failed match must not bind holes")
}

func TestEpsilonAgainstAllSliceHoles(t *testing.T) {
	var s1, s2 symstring.String
	p, err := New().StringHole(&s1).StringHole(&s2).Compile()
	require.NoError(t, err)

	ok := p.Match(1, symstring.Epsilon())
	require.True(t, ok)
	assert.True(t, s1.IsEpsilon())
	assert.True(t, s2.IsEpsilon())
}

func TestLiteralStringAtom(t *testing.T) {
	const a symbol.Symbol = -1
	const b symbol.Symbol = -2

	lit := symstring.New(a, b)
	p, err := New().String(lit).Compile()
	require.NoError(t, err)

	assert.True(t, p.Match(1, symstring.New(a, b)))
	assert.False(t, p.Match(1, symstring.New(a)))
}

func TestNilHoleTarget_CompileFails(t *testing.T) {
	_, err := New().StringHole(nil).Compile()
	assert.Error(t, err)
}
