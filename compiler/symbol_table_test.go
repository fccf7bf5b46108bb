package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineResolvesGlobal(t *testing.T) {
	global := NewSymbolTable()

	a := global.Define("a")
	assert.Equal(t, Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)

	b := global.Define("b")
	assert.Equal(t, Symbol{Name: "b", Scope: GlobalScope, Index: 1}, b)
}

func TestResolveGlobal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")
	global.Define("b")

	for _, want := range []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: GlobalScope, Index: 1},
	} {
		got, ok := global.Resolve(want.Name)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestResolveLocalFallsBackToGlobal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")

	local := NewEnclosedSymbolTable(global)
	local.Define("b")

	a, ok := local.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)

	b, ok := local.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, Symbol{Name: "b", Scope: LocalScope, Index: 0}, b)
}

func TestResolveNestedLocal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")

	firstLocal := NewEnclosedSymbolTable(global)
	firstLocal.Define("b")

	secondLocal := NewEnclosedSymbolTable(firstLocal)
	secondLocal.Define("c")

	a, ok := secondLocal.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, GlobalScope, a.Scope)

	b, ok := secondLocal.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, LocalScope, b.Scope)
	assert.Equal(t, 0, b.Index)

	c, ok := secondLocal.Resolve("c")
	require.True(t, ok)
	assert.Equal(t, LocalScope, c.Scope)
	assert.Equal(t, 0, c.Index)
}

func TestResolveUnresolvable(t *testing.T) {
	global := NewSymbolTable()
	_, ok := global.Resolve("missing")
	assert.False(t, ok)
}
