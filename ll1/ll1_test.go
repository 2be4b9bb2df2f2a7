package ll1

import (
	"testing"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Classic LL(1) textbook grammar:
//   E  -> T E'
//   E' -> + T E' | ε
//   T  -> id
func buildClassicGrammar(t *testing.T) *grammar.Grammar[string] {
	t.Helper()
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

	return g
}

func TestBuild_ClassicGrammarIsLL1(t *testing.T) {
	g := buildClassicGrammar(t)
	start, _ := g.StartVariable()

	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)
	follow := analysis.ComputeFollow(g, null, first, start)

	table := Build(g, null, first, follow)
	assert.True(t, table.IsLL1())
	assert.Empty(t, table.Conflicts())

	// (E, id) must be populated since FIRST(T E') = {id}.
	liveVars := g.LiveVariables()
	e := liveVars[0]
	id := g.GetTerminal("id")
	_, ok := table.Get(e, id)
	assert.True(t, ok)
}

func TestBuild_ReportsConflictOnAmbiguousGrammar(t *testing.T) {
	g := grammar.New[string]()
	v := g.AddVariable()
	a := g.GetTerminal("a")

	p1, err := g.AddProduction(v, symstring.New(a))
	require.NoError(t, err)
	// second alternative with the same leading terminal forces a genuine
	// FIRST/FIRST collision at (v, a).
	p2, err := g.AddProduction(v, symstring.New(a, a))
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(v))

	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)
	follow := analysis.ComputeFollow(g, null, first, v)

	table := Build(g, null, first, follow)
	assert.False(t, table.IsLL1())
	require.Len(t, table.Conflicts(), 1)
	c := table.Conflicts()[0]
	assert.Equal(t, v, c.Variable)
	assert.Equal(t, a, c.Terminal)
	assert.Equal(t, p1.ID(), c.Evicted)
	assert.Equal(t, p2.ID(), c.Winner)

	// later assignment wins
	winner, ok := table.Get(v, a)
	require.True(t, ok)
	assert.Equal(t, p2.ID(), winner)
}

func TestBuild_EpsilonProductionUsesFollowAndEndOfInput(t *testing.T) {
	g := buildClassicGrammar(t)
	start, _ := g.StartVariable()

	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)
	follow := analysis.ComputeFollow(g, null, first, start)

	table := Build(g, null, first, follow)

	var ePrime = g.LiveVariables()[1]
	id, ok := table.Get(ePrime, analysis.EndOfInput)
	require.True(t, ok)

	var epsilonID = func() int {
		for _, p := range g.LiveProductions(ePrime) {
			if p.RHS().IsEpsilon() {
				return int(p.ID())
			}
		}
		return -1
	}()
	assert.Equal(t, epsilonID, int(id))
}
