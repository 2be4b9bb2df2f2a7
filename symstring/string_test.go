package symstring

import (
	"testing"

	"github.com/dekarrin/cfgkit/symbol"
	"github.com/stretchr/testify/assert"
)

func sym(i int32) symbol.Symbol { return symbol.Symbol(i) }

func TestEpsilon_UniqueAndEqualToAnyEmpty(t *testing.T) {
	e1 := Epsilon()
	e2 := New()
	e3 := New(sym(1)).Slice(0, 0)

	assert.Equal(t, 0, e1.Len())
	assert.True(t, e1.Equal(e2))
	assert.True(t, e1.Equal(e3))
	assert.True(t, e2.Equal(e1))
}

func TestConcat_Identity(t *testing.T) {
	s := New(sym(1), sym(-2), sym(3))

	assert.True(t, Epsilon().Concat(s).Equal(s))
	assert.True(t, s.Concat(Epsilon()).Equal(s))
}

func TestConcat_Order(t *testing.T) {
	a := New(sym(1), sym(2))
	b := New(sym(3), sym(4))

	c := a.Concat(b)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []symbol.Symbol{sym(1), sym(2), sym(3), sym(4)}, c.Symbols())
}

func TestEqual_ByContentNotIdentity(t *testing.T) {
	a := New(sym(1), sym(2))
	b := New(sym(1), sym(2))

	assert.True(t, a.Equal(b))
}

func TestSlice(t *testing.T) {
	s := New(sym(1), sym(2), sym(3), sym(4))
	mid := s.Slice(1, 3)

	assert.Equal(t, []symbol.Symbol{sym(2), sym(3)}, mid.Symbols())
}

func TestRetainRelease(t *testing.T) {
	s := New(sym(1))
	assert.Equal(t, 0, s.Refs())
	s.Retain()
	s.Retain()
	assert.Equal(t, 2, s.Refs())
	s.Release()
	assert.Equal(t, 1, s.Refs())

	// Epsilon tracks no refcount.
	e := Epsilon()
	e.Retain()
	assert.Equal(t, 0, e.Refs())
}
