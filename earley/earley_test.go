package earley

import (
	"testing"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S7 — Earley: grammar S -> S S | a, input aaa. Accept; multiple
// derivations exist and parse-tree extraction returns at least one valid
// tree.
func TestS7_AmbiguousSelfConcatenation(t *testing.T) {
	g := grammar.New[string]()
	s := g.AddVariable()
	a := g.GetTerminal("a")

	_, err := g.AddProduction(s, symstring.New(s, s))
	require.NoError(t, err)
	_, err = g.AddProduction(s, symstring.New(a))
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(s))

	null := analysis.ComputeNull(g)
	input := []symbol.Symbol{a, a, a}

	chart, ok := Recognize(g, s, input, null, WithParseTree[string]())
	require.True(t, ok)

	tree, ok := chart.ExtractTree(s)
	require.True(t, ok)
	assert.Equal(t, 3, countLeaves(tree))
}

func countLeaves[T comparable](t *Tree[T]) int {
	if t.IsLeaf {
		return 1
	}
	n := 0
	for _, c := range t.Children {
		n += countLeaves(c)
	}
	return n
}

func TestRecognize_RejectsNonmatchingInput(t *testing.T) {
	g := grammar.New[string]()
	s := g.AddVariable()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")

	_, err := g.AddProduction(s, symstring.New(a))
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(s))

	null := analysis.ComputeNull(g)
	_, ok := Recognize(g, s, []symbol.Symbol{b}, null)
	assert.False(t, ok)
}

func TestRecognize_EmptyInputAcceptsNullableStart(t *testing.T) {
	g := grammar.New[string]()
	s := g.AddVariable()
	_, err := g.AddProduction(s, symstring.Epsilon())
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(s))

	null := analysis.ComputeNull(g)
	chart, ok := Recognize(g, s, nil, null)
	assert.True(t, ok)
	assert.Equal(t, 1, chart.NumColumns())
}

// Indirect nullability through a variable in the middle of a production:
// A -> x B y; B -> ε. Exercises the nullable-completion shortcut in
// Predict alongside scanning real terminals on either side.
func TestRecognize_NullableShortcutMidProduction(t *testing.T) {
	g := grammar.New[string]()
	a := g.AddVariable()
	b := g.AddVariable()
	x := g.GetTerminal("x")
	y := g.GetTerminal("y")

	_, err := g.AddProduction(a, symstring.New(x, b, y))
	require.NoError(t, err)
	_, err = g.AddProduction(b, symstring.Epsilon())
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(a))

	null := analysis.ComputeNull(g)
	input := []symbol.Symbol{x, y}
	chart, ok := Recognize(g, a, input, null, WithParseTree[string]())
	require.True(t, ok)

	tree, ok := chart.ExtractTree(a)
	require.True(t, ok)
	require.Len(t, tree.Children, 3)
	assert.True(t, tree.Children[0].IsLeaf)
	assert.False(t, tree.Children[1].IsLeaf) // B's epsilon derivation
	assert.True(t, tree.Children[2].IsLeaf)
}

func TestRecognize_FirstFilteringStillAccepts(t *testing.T) {
	g := grammar.New[string]()
	e := g.AddVariable()
	t1 := g.AddVariable()
	plus := g.GetTerminal("+")
	id := g.GetTerminal("id")

	ePrime := g.AddVariable()
	_, err := g.AddProduction(e, symstring.New(t1, ePrime))
	require.NoError(t, err)
	_, err = g.AddProduction(ePrime, symstring.New(plus, t1, ePrime))
	require.NoError(t, err)
	_, err = g.AddProduction(ePrime, symstring.Epsilon())
	require.NoError(t, err)
	_, err = g.AddProduction(t1, symstring.New(id))
	require.NoError(t, err)
	require.NoError(t, g.SetStartVariable(e))

	null := analysis.ComputeNull(g)
	first := analysis.ComputeFirst(g, null)

	input := []symbol.Symbol{id, plus, id}
	_, ok := Recognize(g, e, input, null, WithFirstFiltering[string](first))
	assert.True(t, ok)
}
