package analysis

import (
	"testing"

	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S4 — NULL: grammar S -> A B; A -> ε; B -> b | ε. Expect Null = {S, A, B}.
func TestS4_Null(t *testing.T) {
	g := grammar.New[string]()
	s := g.AddVariable()
	a := g.AddVariable()
	b := g.AddVariable()
	bTerm := g.GetTerminal("b")

	_, err := g.AddProduction(s, symstring.New(a, b))
	require.NoError(t, err)
	_, err = g.AddProduction(a, symstring.Epsilon())
	require.NoError(t, err)
	_, err = g.AddProduction(b, symstring.New(bTerm))
	require.NoError(t, err)
	_, err = g.AddProduction(b, symstring.Epsilon())
	require.NoError(t, err)

	null := ComputeNull(g)
	assert.True(t, null[s])
	assert.True(t, null[a])
	assert.True(t, null[b])
}

func TestNull_NonNullableVariableExcluded(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")
	_, err := g.AddProduction(v, symstring.New(a, v))
	require.NoError(t, err)

	null := ComputeNull(g)
	assert.False(t, null[v])
}

// S5 — FIRST/FOLLOW: grammar E -> T E'; E' -> + T E' | ε; T -> id.
// Expect FIRST(E) = {id}, FOLLOW(E') = FOLLOW(E) = {$}.
func TestS5_FirstFollow(t *testing.T) {
	g := grammar.New[string]()
	e := g.AddVariable()
	ePrime := g.AddVariable()
	tVar := g.AddVariable()
	plus := g.GetTerminal("+")
	id := g.GetTerminal("id")

	_, err := g.AddProduction(e, symstring.New(tVar, ePrime))
	require.NoError(t, err)
	_, err = g.AddProduction(ePrime, symstring.New(plus, tVar, ePrime))
	require.NoError(t, err)
	_, err = g.AddProduction(ePrime, symstring.Epsilon())
	require.NoError(t, err)
	_, err = g.AddProduction(tVar, symstring.New(id))
	require.NoError(t, err)

	require.NoError(t, g.SetStartVariable(e))

	null := ComputeNull(g)
	first := ComputeFirst(g, null)
	follow := ComputeFollow(g, null, first, e)

	assert.True(t, first[e].Has(TerminalIndex(id)))
	assert.Equal(t, 1, first[e].Len())

	assert.True(t, follow[ePrime].HasEndOfInput())
	assert.True(t, follow[e].HasEndOfInput())
	assert.Equal(t, follow[e].Symbols(), follow[ePrime].Symbols())
}

func TestFirst_StopsAtFirstNonNullableSymbol(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.AddVariable()
	b := g.GetTerminal("b")
	c := g.GetTerminal("c")

	_, err := g.AddProduction(a, symstring.Epsilon())
	require.NoError(t, err)
	_, err = g.AddProduction(v, symstring.New(a, b))
	require.NoError(t, err)
	_, err = g.AddProduction(v, symstring.New(c))
	require.NoError(t, err)

	null := ComputeNull(g)
	first := ComputeFirst(g, null)

	assert.True(t, first[v].Has(TerminalIndex(b)))
	assert.True(t, first[v].Has(TerminalIndex(c)))
	assert.Equal(t, 2, first[v].Len())
}

func TestOfSymbol_TerminalIsSingletonOfItself(t *testing.T) {
	g := grammar.New[string]()
	a := g.GetTerminal("a")
	null := ComputeNull(g)
	first := ComputeFirst(g, null)

	set := first.OfSymbol(a)
	assert.True(t, set.Has(TerminalIndex(a)))
	assert.Equal(t, 1, set.Len())
}
