package cfgtext

import (
	"testing"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/ll1"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicGrammar(t *testing.T) *grammar.Grammar[string] {
	g := grammar.New[string]()
	e, err := g.GetVariable("E")
	require.NoError(t, err)
	ep, err := g.GetVariable("EP")
	require.NoError(t, err)
	tm, err := g.GetVariable("T")
	require.NoError(t, err)
	plus := g.GetTerminal("+")
	id := g.GetTerminal("id")

	_, err = g.AddProduction(e, symstring.New(tm, ep))
	require.NoError(t, err)
	_, err = g.AddProduction(ep, symstring.New(plus, tm, ep))
	require.NoError(t, err)
	_, err = g.AddProduction(ep, symstring.Epsilon())
	require.NoError(t, err)
	_, err = g.AddProduction(tm, symstring.New(id))
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(e))
	return g
}

func TestListGrammar_ContainsEveryProduction(t *testing.T) {
	g := classicGrammar(t)
	out := ListGrammar(g)
	assert.Contains(t, out, "->")
	for _, v := range g.LiveVariables() {
		assert.Equal(t, len(g.LiveProductions(v)) > 0, true)
	}
}

func TestNullReport_ListsNullableVariables(t *testing.T) {
	g := classicGrammar(t)
	null := analysis.ComputeNull(g)
	out := NullReport(g, null)
	assert.Contains(t, out, "EP")
}

func TestFirstFollowReport_RendersTable(t *testing.T) {
	g := classicGrammar(t)
	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)
	e, _ := g.GetVariableSymbol("E")
	follow := analysis.ComputeFollow(g, null, first, e)

	out := FirstFollowReport(g, first, follow)
	assert.Contains(t, out, "Variable")
	assert.Contains(t, out, "FIRST")
	assert.Contains(t, out, "FOLLOW")
}

func TestTable_RendersConflictFreeCells(t *testing.T) {
	g := classicGrammar(t)
	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)
	e, _ := g.GetVariableSymbol("E")
	follow := analysis.ComputeFollow(g, null, first, e)
	table := ll1.Build(g, null, first, follow)

	plus := g.GetTerminal("+")
	id := g.GetTerminal("id")
	terminals := []symbol.Symbol{plus, id, analysis.EndOfInput}

	out := Table(g, table, g.LiveVariables(), terminals)
	assert.NotEmpty(t, out)

	conflictOut := ConflictReport(g, table.Conflicts())
	assert.Equal(t, "no conflicts", conflictOut)
}
