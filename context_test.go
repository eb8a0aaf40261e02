package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext(nil, false)
	defer ctx.Destroy()

	assert.False(t, ctx.AllowsUnregisteredDialects())
	assert.False(t, ctx.ThreadingEnabled())
	assert.Equal(t, 1, ctx.NumRegisteredDialects())
	assert.Equal(t, 1, ctx.NumLoadedDialects())

	ctx.SetAllowUnregisteredDialects(true)
	assert.True(t, ctx.AllowsUnregisteredDialects())
}

func TestNewContextWithRegistry(t *testing.T) {
	registry := NewDialectRegistry()
	defer registry.Destroy()
	registry.RegisterAllDialects()

	ctx := NewContext(registry, false)
	defer ctx.Destroy()

	assert.Equal(t, 3, ctx.NumRegisteredDialects())
	assert.Equal(t, 1, ctx.NumLoadedDialects())

	arith, ok := ctx.GetOrLoadDialect("arith")
	require.True(t, ok)
	assert.Equal(t, "arith", arith.Namespace())
	assert.Equal(t, 2, ctx.NumLoadedDialects())

	_, ok = ctx.GetOrLoadDialect("nosuch")
	assert.False(t, ok)
}

func TestContextDestroyTwicePanics(t *testing.T) {
	ctx := NewContext(nil, false)
	ctx.Destroy()
	assert.Panics(t, func() { ctx.Destroy() })
}

func TestContextRefEqual(t *testing.T) {
	a := NewContext(nil, false)
	defer a.Destroy()
	b := NewContext(nil, false)
	defer b.Destroy()

	assert.True(t, a.Ref().Equal(a.Ref()))
	assert.False(t, a.Ref().Equal(b.Ref()))

	ref, ok := ContextRefTryFromRaw(a.Raw())
	require.True(t, ok)
	assert.True(t, ref.Equal(a.Ref()))
}

func TestIsOperationRegistered(t *testing.T) {
	registry := NewDialectRegistry()
	defer registry.Destroy()
	registry.RegisterAllDialects()

	ctx := NewContext(registry, false)
	defer ctx.Destroy()

	assert.True(t, ctx.IsOperationRegistered("builtin.module"))
	assert.True(t, ctx.IsOperationRegistered("arith.addi"))
	assert.False(t, ctx.IsOperationRegistered("dialect.op"))
}

func TestLoadAllAvailableDialects(t *testing.T) {
	registry := NewDialectRegistry()
	defer registry.Destroy()
	registry.RegisterAllDialects()

	ctx := NewContext(registry, false)
	defer ctx.Destroy()

	ctx.LoadAllAvailableDialects()
	assert.Equal(t, 3, ctx.NumLoadedDialects())
}
