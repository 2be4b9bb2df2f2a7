package generator

import (
	"testing"

	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/pattern"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchNext_YieldsEveryMatchThenStops(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")

	p1, err := g.AddProduction(v, symstring.New(a))
	require.NoError(t, err)
	p2, err := g.AddProduction(v, symstring.New(b))
	require.NoError(t, err)

	pat, err := pattern.New().Any().Compile()
	require.NoError(t, err)

	gen := New(g, pat)
	var seen []grammar.ProductionID
	for gen.MatchNext() {
		cur, ok := gen.Current()
		require.True(t, ok)
		seen = append(seen, cur.ID())
	}
	assert.ElementsMatch(t, []grammar.ProductionID{p1.ID(), p2.ID()}, seen)

	// exhausted generator keeps returning false
	assert.False(t, gen.MatchNext())
}

func TestMatchNext_SkipsNonMatches(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")

	_, err := g.AddProduction(v, symstring.New(a))
	require.NoError(t, err)
	target, err := g.AddProduction(v, symstring.New(b, b))
	require.NoError(t, err)

	pat, err := pattern.New().Any().Any().Compile()
	require.NoError(t, err)

	gen := New(g, pat)
	require.True(t, gen.MatchNext())
	cur, _ := gen.Current()
	assert.Equal(t, target.ID(), cur.ID())
	assert.False(t, gen.MatchNext())
}

func TestMatchNext_SafeRemovalOfCurrentProduction(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")
	c := g.GetTerminal("c")

	pa, err := g.AddProduction(v, symstring.New(a))
	require.NoError(t, err)
	pb, err := g.AddProduction(v, symstring.New(b))
	require.NoError(t, err)
	pc, err := g.AddProduction(v, symstring.New(c))
	require.NoError(t, err)

	pat, err := pattern.New().Any().Compile()
	require.NoError(t, err)

	gen := New(g, pat)

	var seen []grammar.ProductionID
	for gen.MatchNext() {
		cur, _ := gen.Current()
		seen = append(seen, cur.ID())
		// remove the production we are currently positioned on; the
		// generator must still reach the remaining two.
		require.NoError(t, g.RemoveProduction(cur))
	}

	assert.ElementsMatch(t, []grammar.ProductionID{pa.ID(), pb.ID(), pc.ID()}, seen)
}

func TestRewind_RestartsIteration(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")
	_, err := g.AddProduction(v, symstring.New(a))
	require.NoError(t, err)

	pat, err := pattern.New().Any().Compile()
	require.NoError(t, err)

	gen := New(g, pat)
	require.True(t, gen.MatchNext())
	require.False(t, gen.MatchNext())

	gen.Rewind()
	require.True(t, gen.MatchNext())
}

func TestStringHoleBinding_AcrossMultipleProductions(t *testing.T) {
	g := grammar.New[string]()
	s := g.AddVariable()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")

	_, err := g.AddProduction(s, symstring.New(a, s, b))
	require.NoError(t, err)
	_, err = g.AddProduction(s, symstring.Epsilon())
	require.NoError(t, err)

	var x symstring.String
	pat, err := pattern.New().LHSLiteral(s).StringHole(&x).Compile()
	require.NoError(t, err)

	gen := New(g, pat)

	var got []symstring.String
	for gen.MatchNext() {
		got = append(got, x)
	}
	require.Len(t, got, 2)

	var sawRecursive, sawEpsilon bool
	for _, s := range got {
		if s.IsEpsilon() {
			sawEpsilon = true
		} else if s.Len() == 3 {
			sawRecursive = true
		}
	}
	assert.True(t, sawRecursive)
	assert.True(t, sawEpsilon)
}

func TestLHSHole_BindsVariableAcrossGrammar(t *testing.T) {
	g := grammar.New[string]()
	v1 := g.AddVariable()
	v2 := g.AddVariable()
	a := g.GetTerminal("a")

	_, err := g.AddProduction(v1, symstring.New(a))
	require.NoError(t, err)
	_, err = g.AddProduction(v2, symstring.New(a))
	require.NoError(t, err)

	var boundVar symbol.Symbol
	pat, err := pattern.New().LHSHole(&boundVar).Any().Compile()
	require.NoError(t, err)

	gen := New(g, pat)
	var vars []symbol.Symbol
	for gen.MatchNext() {
		vars = append(vars, boundVar)
	}
	assert.ElementsMatch(t, []symbol.Symbol{v1, v2}, vars)
}
