package gfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ClassicGrammar(t *testing.T) {
	g, err := Parse(`E -> T EP; EP -> plus T EP | ε; T -> id`)
	require.NoError(t, err)

	e, err := g.GetVariableSymbol("E")
	require.NoError(t, err)
	start, ok := g.StartVariable()
	require.True(t, ok)
	assert.Equal(t, e, start)

	assert.Len(t, g.LiveProductions(e), 1)
}

func TestParse_EpsilonAlternative(t *testing.T) {
	g, err := Parse(`S -> a S | ε`)
	require.NoError(t, err)

	s, err := g.GetVariableSymbol("S")
	require.NoError(t, err)
	assert.Len(t, g.LiveProductions(s), 2)
}

func TestParse_RejectsMixedCaseSymbol(t *testing.T) {
	_, err := Parse(`S -> aB`)
	assert.Error(t, err)
}

func TestParse_RejectsMalformedRule(t *testing.T) {
	_, err := Parse(`not a rule at all`)
	assert.Error(t, err)
}

func TestWrite_RoundTripsThroughParse(t *testing.T) {
	g, err := Parse(`S -> a S | ε`)
	require.NoError(t, err)

	out := Write(g)
	g2, err := Parse(out)
	require.NoError(t, err)

	s2, err := g2.GetVariableSymbol("S")
	require.NoError(t, err)
	assert.Len(t, g2.LiveProductions(s2), 2)
}
