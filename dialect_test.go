package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectHandleNamespaces(t *testing.T) {
	assert.Equal(t, "func", FuncDialectHandle().Namespace())
	assert.Equal(t, "arith", ArithDialectHandle().Namespace())
}

func TestDialectHandleRegisterThenLoad(t *testing.T) {
	ctx := NewContext(nil, false)
	defer ctx.Destroy()

	h := ArithDialectHandle()
	h.RegisterWithContext(ctx.Ref())
	assert.Equal(t, 2, ctx.NumRegisteredDialects())
	assert.Equal(t, 1, ctx.NumLoadedDialects())

	loaded := h.LoadIntoContext(ctx.Ref())
	assert.Equal(t, "arith", loaded.Namespace())
	assert.Equal(t, 2, ctx.NumLoadedDialects())

	again, ok := ctx.GetOrLoadDialect("arith")
	require.True(t, ok)
	assert.True(t, loaded.Equal(again))
	assert.True(t, ctx.Ref().Equal(loaded.Context()))
}

func TestDialectHandleLoadWithoutRegister(t *testing.T) {
	ctx := NewContext(nil, false)
	defer ctx.Destroy()

	FuncDialectHandle().LoadIntoContext(ctx.Ref())
	assert.Equal(t, 1, ctx.NumRegisteredDialects())
	assert.Equal(t, 2, ctx.NumLoadedDialects())
}

func TestDialectHandleInsertIntoRegistry(t *testing.T) {
	registry := NewDialectRegistry()
	defer registry.Destroy()
	FuncDialectHandle().InsertIntoRegistry(registry)

	ctx := NewContext(registry, false)
	defer ctx.Destroy()
	assert.Equal(t, 2, ctx.NumRegisteredDialects())
}

func TestDialectRegistryDestroyTwicePanics(t *testing.T) {
	registry := NewDialectRegistry()
	registry.Destroy()
	assert.Panics(t, func() { registry.Destroy() })
}
