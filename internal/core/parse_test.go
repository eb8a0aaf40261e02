package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseSource runs the engine parser over source with the NUL terminator
// the parser contract requires.
func parseSource(t *testing.T, ctx Context, source, name string) Operation {
	t.Helper()
	buf := make([]byte, len(source)+1)
	copy(buf, source)
	return OperationCreateParse(ctx, StringRefFromCString(buf), StringRefFromString(name))
}

func printToString(op Operation) string {
	var sb strings.Builder
	OperationPrint(op, func(chunk StringRef, _ uintptr) { sb.WriteString(chunk.String()) }, 0)
	return sb.String()
}

func TestParseEmptyModule(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	op := parseSource(t, ctx, "module {}", "test.mlir")
	require.False(t, op.IsNull())
	defer OperationDestroy(op)

	assert.Equal(t, "builtin.module", IdentifierStr(OperationGetName(op)).String())

	want := LocationFileLineColGet(ctx, StringRefFromString("test.mlir"), 1, 1)
	assert.True(t, LocationEqual(want, OperationGetLocation(op)))

	assert.Equal(t, 1, OperationGetNumRegions(op))
	block := RegionGetFirstBlock(OperationGetRegion(op, 0))
	require.False(t, block.IsNull())
	assert.True(t, BlockGetFirstOperation(block).IsNull())
}

func TestParseGenericOperations(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)
	ContextSetAllowUnregisteredDialects(ctx, true)

	source := `module {
  %0:2 = "dialect.op1"() {"attribute name" = 42 : i32} : () -> (i1, i16)
  %1 = "dialect.op2"(%0#1) : (i16) -> i1
}`
	op := parseSource(t, ctx, source, "test.mlir")
	require.False(t, op.IsNull())
	defer OperationDestroy(op)

	block := RegionGetFirstBlock(OperationGetRegion(op, 0))
	first := BlockGetFirstOperation(block)
	require.False(t, first.IsNull())
	assert.Equal(t, "dialect.op1", IdentifierStr(OperationGetName(first)).String())
	assert.Equal(t, 2, OperationGetNumResults(first))

	attr := OperationGetAttributeByName(first, StringRefFromString("attribute name"))
	require.False(t, attr.IsNull())
	assert.True(t, AttributeIsAInteger(attr))
	assert.Equal(t, int64(42), IntegerAttrGetValueSInt(attr))

	second := OperationGetNextInBlock(first)
	require.False(t, second.IsNull())
	assert.Equal(t, 1, OperationGetNumOperands(second))
	operand := OperationGetOperand(second, 0)
	assert.True(t, ValueEqual(operand, OperationGetResult(first, 1)))
	assert.Equal(t, "i16", valueTypeSpelling(t, operand))
}

// valueTypeSpelling returns the printed spelling of a value's type.
func valueTypeSpelling(t *testing.T, v Value) string {
	t.Helper()
	var sb strings.Builder
	TypePrint(ValueGetType(v), func(chunk StringRef, _ uintptr) { sb.WriteString(chunk.String()) }, 0)
	return sb.String()
}

func TestParseRejectsUnregisteredByDefault(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	source := `module {
  "dialect.op"() : () -> ()
}`
	op := parseSource(t, ctx, source, "test.mlir")
	assert.True(t, op.IsNull())
}

func TestParseLoadsRegisteredDialectsOnDemand(t *testing.T) {
	registry := DialectRegistryCreate()
	defer DialectRegistryDestroy(registry)
	RegisterAllDialects(registry)
	ctx := ContextCreateWithRegistry(registry, false)
	defer ContextDestroy(ctx)

	assert.Equal(t, 1, ContextGetNumLoadedDialects(ctx))

	source := `module {
  %0 = "arith.constant"() {value = 7 : i32} : () -> i32
}`
	op := parseSource(t, ctx, source, "test.mlir")
	require.False(t, op.IsNull())
	defer OperationDestroy(op)

	assert.Equal(t, 2, ContextGetNumLoadedDialects(ctx))
}

func TestParseMalformed(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)
	ContextSetAllowUnregisteredDialects(ctx, true)

	cases := []struct {
		name   string
		source string
	}{
		{"unbalanced brace", "module {"},
		{"missing type", `module {
  "d.op"()
}`},
		{"unknown operand", `module {
  "d.op"(%9) : (i32) -> ()
}`},
		{"operand type mismatch", `module {
  %0 = "d.a"() : () -> i32
  "d.b"(%0) : (i64) -> ()
}`},
		{"result count mismatch", `module {
  %0:2 = "d.a"() : () -> i32
}`},
		{"trailing garbage", "module {} extra"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op := parseSource(t, ctx, tc.source, "bad.mlir")
			assert.True(t, op.IsNull())
		})
	}
}

func TestParseBlockArguments(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)
	ContextSetAllowUnregisteredDialects(ctx, true)

	source := `module {
  "d.wrap"() ({
  ^bb0(%arg0: i32, %arg1: i64):
    "d.use"(%arg1, %arg0) : (i64, i32) -> ()
  }) : () -> ()
}`
	op := parseSource(t, ctx, source, "args.mlir")
	require.False(t, op.IsNull())
	defer OperationDestroy(op)

	module := RegionGetFirstBlock(OperationGetRegion(op, 0))
	wrap := BlockGetFirstOperation(module)
	inner := RegionGetFirstBlock(OperationGetRegion(wrap, 0))
	assert.Equal(t, 2, BlockGetNumArguments(inner))

	use := BlockGetFirstOperation(inner)
	assert.True(t, ValueEqual(BlockGetArgument(inner, 1), OperationGetOperand(use, 0)))
	assert.True(t, ValueEqual(BlockGetArgument(inner, 0), OperationGetOperand(use, 1)))
}

func TestPrintParseRoundTrip(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)
	ContextSetAllowUnregisteredDialects(ctx, true)

	cases := []string{
		"module {\n}\n",
		"module {\n  %0:2 = \"dialect.op1\"() {\"attribute name\" = 42 : i32} : () -> (i1, i16)\n  %1 = \"dialect.op2\"(%0#1) : (i16) -> i1\n}\n",
		"module {\n  %0 = \"d.const\"() {value = unit} : () -> none\n  \"d.sink\"(%0, %0) : (none, none) -> ()\n}\n",
	}
	for _, source := range cases {
		op := parseSource(t, ctx, source, "rt.mlir")
		require.False(t, op.IsNull(), "source: %s", source)
		assert.Equal(t, source, printToString(op))
		OperationDestroy(op)
	}
}
