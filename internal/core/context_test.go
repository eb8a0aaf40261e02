package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshContextHasOnlyBuiltin(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	assert.Equal(t, 1, ContextGetNumRegisteredDialects(ctx))
	assert.Equal(t, 1, ContextGetNumLoadedDialects(ctx))

	builtin := ContextGetOrLoadDialect(ctx, StringRefFromString("builtin"))
	require.False(t, builtin.IsNull())
	assert.Equal(t, "builtin", DialectGetNamespace(builtin).String())
}

func TestContextCreateWithRegistry(t *testing.T) {
	registry := DialectRegistryCreate()
	defer DialectRegistryDestroy(registry)
	RegisterAllDialects(registry)

	ctx := ContextCreateWithRegistry(registry, false)
	defer ContextDestroy(ctx)

	// builtin + func + arith registered; only builtin loaded
	assert.Equal(t, 3, ContextGetNumRegisteredDialects(ctx))
	assert.Equal(t, 1, ContextGetNumLoadedDialects(ctx))

	d := ContextGetOrLoadDialect(ctx, StringRefFromString("arith"))
	require.False(t, d.IsNull())
	assert.Equal(t, 2, ContextGetNumLoadedDialects(ctx))
}

func TestGetOrLoadDialectAbsence(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	d := ContextGetOrLoadDialect(ctx, StringRefFromString("nonexistent"))
	assert.True(t, d.IsNull())
}

func TestDialectHandleLoadWithoutRegister(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	handle := GetDialectHandleFunc()
	d := DialectHandleLoadDialect(handle, ctx)
	require.False(t, d.IsNull())

	// loading bypasses the registered table
	assert.Equal(t, 1, ContextGetNumRegisteredDialects(ctx))
	assert.Equal(t, 2, ContextGetNumLoadedDialects(ctx))
}

func TestDialectHandleRegisterThenLoad(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	handle := GetDialectHandleArith()
	DialectHandleRegisterDialect(handle, ctx)
	assert.Equal(t, 2, ContextGetNumRegisteredDialects(ctx))
	assert.Equal(t, 1, ContextGetNumLoadedDialects(ctx))

	d := ContextGetOrLoadDialect(ctx, StringRefFromString("arith"))
	require.False(t, d.IsNull())
	assert.Equal(t, 2, ContextGetNumLoadedDialects(ctx))

	// loading is idempotent and identity-stable
	again := ContextGetOrLoadDialect(ctx, StringRefFromString("arith"))
	assert.True(t, DialectEqual(d, again))
}

func TestLoadAllAvailableDialects(t *testing.T) {
	registry := DialectRegistryCreate()
	defer DialectRegistryDestroy(registry)
	RegisterAllDialects(registry)

	ctx := ContextCreateWithRegistry(registry, false)
	defer ContextDestroy(ctx)

	ContextLoadAllAvailableDialects(ctx)
	assert.Equal(t, 3, ContextGetNumLoadedDialects(ctx))
}

func TestIsRegisteredOperation(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	assert.True(t, ContextIsRegisteredOperation(ctx, StringRefFromString("builtin.module")))
	assert.False(t, ContextIsRegisteredOperation(ctx, StringRefFromString("arith.addi")))

	DialectHandleLoadDialect(GetDialectHandleArith(), ctx)
	assert.True(t, ContextIsRegisteredOperation(ctx, StringRefFromString("arith.addi")))
	assert.False(t, ContextIsRegisteredOperation(ctx, StringRefFromString("arith.bogus")))
}

func TestAllowUnregisteredDialects(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	assert.False(t, ContextGetAllowUnregisteredDialects(ctx))
	ContextSetAllowUnregisteredDialects(ctx, true)
	assert.True(t, ContextGetAllowUnregisteredDialects(ctx))
}

func TestContextDestroyTwicePanics(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	ContextDestroy(ctx)
	assert.Panics(t, func() { ContextDestroy(ctx) })
}

func TestUseAfterContextDestroyPanics(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	ContextDestroy(ctx)
	assert.Panics(t, func() { ContextGetNumLoadedDialects(ctx) })
}

func TestContextEqualIsIdentity(t *testing.T) {
	a := ContextCreateWithThreading(false)
	defer ContextDestroy(a)
	b := ContextCreateWithThreading(false)
	defer ContextDestroy(b)

	assert.True(t, ContextEqual(a, a))
	assert.False(t, ContextEqual(a, b))
}
