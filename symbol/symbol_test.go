package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"plain", "foo", true},
		{"dollar-digits", "$12", true},
		{"dollar-only", "$", false},
		{"dollar-letters", "$abc", false},
		{"dollar-mixed", "$1a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.input))
		})
	}
}

func TestRegistry_GetTerminal_Interns(t *testing.T) {
	r := NewRegistry[string]()

	s1 := r.GetTerminal("a")
	s2 := r.GetTerminal("a")
	s3 := r.GetTerminal("b")

	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
	assert.True(t, s1.IsTerminal())

	v, ok := r.GetAlpha(s1)
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestRegistry_GetVariable_Interns(t *testing.T) {
	r := NewRegistry[string]()

	v1, err := r.GetVariable("S")
	require.NoError(t, err)
	v2, err := r.GetVariable("S")
	require.NoError(t, err)
	v3, err := r.GetVariable("T")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.NotEqual(t, v1, v3)
	assert.True(t, v1.IsVariable())
	assert.Equal(t, "S", r.GetName(v1))
}

func TestRegistry_GetVariable_InvalidName(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.GetVariable("$abc")
	assert.Error(t, err)
}

func TestRegistry_AddVariable_AutoNamesIncrease(t *testing.T) {
	r := NewRegistry[string]()

	a := r.AddVariable()
	b := r.AddVariable()

	assert.NotEqual(t, a, b)
	assert.Equal(t, "$0", r.GetName(a))
	assert.Equal(t, "$1", r.GetName(b))
}

func TestRegistry_AddVariable_SkipsExplicitDollarNames(t *testing.T) {
	r := NewRegistry[string]()

	_, err := r.GetVariable("$5")
	require.NoError(t, err)

	fresh := r.AddVariable()
	assert.Equal(t, "$6", r.GetName(fresh))
}

func TestRegistry_GetVariableSymbol_PrefersVariable(t *testing.T) {
	r := NewRegistry[string]()

	v, err := r.GetVariable("X")
	require.NoError(t, err)

	resolved, err := r.GetVariableSymbol("X")
	require.NoError(t, err)
	assert.Equal(t, v, resolved)
}

func TestRegistry_GetVariableSymbol_CreatesVariableTerminal(t *testing.T) {
	r := NewRegistry[string]()

	sym, err := r.GetVariableSymbol("ph1")
	require.NoError(t, err)
	assert.True(t, sym.IsTerminal())

	again, err := r.GetVariableSymbol("ph1")
	require.NoError(t, err)
	assert.Equal(t, sym, again)
}

func TestEpsilon(t *testing.T) {
	assert.True(t, Epsilon.IsEpsilon())
	assert.False(t, Epsilon.IsVariable())
	assert.False(t, Epsilon.IsTerminal())
}

func TestRegistry_OrderedVariables_SortsByName(t *testing.T) {
	r := NewRegistry[string]()
	zebra, err := r.GetVariable("Zebra")
	require.NoError(t, err)
	apple, err := r.GetVariable("Apple")
	require.NoError(t, err)
	mango, err := r.GetVariable("Mango")
	require.NoError(t, err)

	got := r.OrderedVariables()
	require.Len(t, got, 3)
	assert.Equal(t, []Symbol{apple, mango, zebra}, got)
}
