package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildConstant creates a detached arith.constant with an i32 value
// attribute and an explicit i32 result.
func buildConstant(t *testing.T, ctx Context, value int64) Operation {
	t.Helper()
	i32 := IntegerTypeGet(ctx, 32)
	state := OperationStateGet(StringRefFromString("arith.constant"), LocationUnknownGet(ctx))
	OperationStateAddResults(state, i32)
	OperationStateAddAttributes(state, NamedAttribute{
		Name:      IdentifierGet(ctx, StringRefFromString("value")),
		Attribute: IntegerAttrGet(i32, value),
	})
	op := OperationCreate(state)
	require.False(t, op.IsNull())
	return op
}

func arithContext(t *testing.T) Context {
	t.Helper()
	ctx := ContextCreateWithThreading(false)
	DialectHandleLoadDialect(GetDialectHandleArith(), ctx)
	return ctx
}

func TestOperationCreateRoutesInherentAttributes(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	op := buildConstant(t, ctx, 7)
	defer OperationDestroy(op)

	assert.True(t, OperationHasInherentAttributeByName(op, StringRefFromString("value")))
	assert.Equal(t, 0, OperationGetNumDiscardableAttributes(op))

	// A name the definition does not declare lands in the discardable
	// namespace.
	OperationSetAttributeByName(op, StringRefFromString("note"), UnitAttrGet(ctx))
	assert.Equal(t, 1, OperationGetNumDiscardableAttributes(op))
	assert.True(t, OperationHasInherentAttributeByName(op, StringRefFromString("value")))

	assert.Equal(t, 2, OperationGetNumAttributes(op))
	first := OperationGetAttribute(op, 0)
	second := OperationGetAttribute(op, 1)
	assert.Equal(t, "note", IdentifierStr(first.Name).String())
	assert.Equal(t, "value", IdentifierStr(second.Name).String())

	assert.True(t, OperationRemoveAttributeByName(op, StringRefFromString("value")))
	assert.False(t, OperationHasInherentAttributeByName(op, StringRefFromString("value")))
	assert.Equal(t, 1, OperationGetNumAttributes(op))
}

func TestAttributeNamespacesShareNames(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	op := buildConstant(t, ctx, 7)
	defer OperationDestroy(op)

	name := StringRefFromString("value")
	i32 := IntegerTypeGet(ctx, 32)
	inherent := IntegerAttrGet(i32, 7)
	unit := UnitAttrGet(ctx)

	// A discardable attribute may collide with a declared inherent
	// name without touching the inherent entry.
	OperationSetDiscardableAttributeByName(op, name, unit)
	assert.True(t, AttributeEqual(inherent, OperationGetInherentAttributeByName(op, name)))
	assert.True(t, AttributeEqual(unit, OperationGetDiscardableAttributeByName(op, name)))

	// The combined dictionary surfaces the name once, inherent first,
	// and the count agrees with the index range.
	n := OperationGetNumAttributes(op)
	assert.Equal(t, 1, n)
	for i := 0; i < n; i++ {
		named := OperationGetAttribute(op, i)
		assert.Equal(t, "value", IdentifierStr(named.Name).String())
		assert.True(t, AttributeEqual(inherent, named.Attribute))
	}
	assert.True(t, AttributeEqual(inherent, OperationGetAttributeByName(op, name)))

	// Removing one namespace's entry leaves the other intact.
	assert.True(t, OperationRemoveDiscardableAttributeByName(op, name))
	assert.True(t, AttributeEqual(inherent, OperationGetInherentAttributeByName(op, name)))

	OperationSetDiscardableAttributeByName(op, name, unit)
	assert.True(t, OperationRemoveInherentAttributeByName(op, name))
	assert.True(t, AttributeEqual(unit, OperationGetDiscardableAttributeByName(op, name)))
	assert.Equal(t, 1, OperationGetNumAttributes(op))
	assert.True(t, AttributeEqual(unit, OperationGetAttribute(op, 0).Attribute))
}

func TestOperationCreateUnregisteredRejected(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	state := OperationStateGet(StringRefFromString("dialect.op"), LocationUnknownGet(ctx))
	assert.True(t, OperationCreate(state).IsNull())

	ContextSetAllowUnregisteredDialects(ctx, true)
	state = OperationStateGet(StringRefFromString("dialect.op"), LocationUnknownGet(ctx))
	op := OperationCreate(state)
	require.False(t, op.IsNull())
	OperationDestroy(op)
}

func TestResultTypeInference(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	lhs := buildConstant(t, ctx, 1)
	defer OperationDestroy(lhs)
	rhs := buildConstant(t, ctx, 2)
	defer OperationDestroy(rhs)

	state := OperationStateGet(StringRefFromString("arith.addi"), LocationUnknownGet(ctx))
	OperationStateAddOperands(state, OperationGetResult(lhs, 0), OperationGetResult(rhs, 0))
	OperationStateEnableResultTypeInference(state)
	add := OperationCreate(state)
	require.False(t, add.IsNull())
	defer OperationDestroy(add)

	require.Equal(t, 1, OperationGetNumResults(add))
	got := ValueGetType(OperationGetResult(add, 0))
	assert.True(t, TypeEqual(IntegerTypeGet(ctx, 32), got))
}

func TestResultTypeInferenceWithoutOperandsFails(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	state := OperationStateGet(StringRefFromString("arith.addi"), LocationUnknownGet(ctx))
	OperationStateEnableResultTypeInference(state)
	assert.True(t, OperationCreate(state).IsNull())
}

func TestUseListStackOrder(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	cst := buildConstant(t, ctx, 40)
	defer OperationDestroy(cst)
	v := OperationGetResult(cst, 0)
	assert.True(t, OpOperandIsNull(ValueGetFirstUse(v)))

	newUser := func() Operation {
		state := OperationStateGet(StringRefFromString("arith.addi"), LocationUnknownGet(ctx))
		OperationStateAddOperands(state, v, v)
		OperationStateAddResults(state, IntegerTypeGet(ctx, 32))
		op := OperationCreate(state)
		require.False(t, op.IsNull())
		return op
	}
	first := newUser()
	defer OperationDestroy(first)
	second := newUser()
	defer OperationDestroy(second)

	// Newest use first. Each user contributes operand 1 then operand 0,
	// so the walk sees the second user's operands before the first's.
	use := ValueGetFirstUse(v)
	var owners []Operation
	var indices []int
	for !OpOperandIsNull(use) {
		assert.True(t, ValueEqual(v, OpOperandGetValue(use)))
		owners = append(owners, OpOperandGetOwner(use))
		indices = append(indices, OpOperandGetOperandNumber(use))
		use = OpOperandGetNextUse(use)
	}
	require.Len(t, owners, 4)
	assert.True(t, OperationEqual(second, owners[0]))
	assert.True(t, OperationEqual(second, owners[1]))
	assert.True(t, OperationEqual(first, owners[2]))
	assert.True(t, OperationEqual(first, owners[3]))
	assert.Equal(t, []int{1, 0, 1, 0}, indices)
}

func TestSetOperandRelinksUseLists(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	a := buildConstant(t, ctx, 1)
	defer OperationDestroy(a)
	b := buildConstant(t, ctx, 2)
	defer OperationDestroy(b)

	state := OperationStateGet(StringRefFromString("arith.addi"), LocationUnknownGet(ctx))
	OperationStateAddOperands(state, OperationGetResult(a, 0), OperationGetResult(a, 0))
	OperationStateAddResults(state, IntegerTypeGet(ctx, 32))
	add := OperationCreate(state)
	require.False(t, add.IsNull())
	defer OperationDestroy(add)

	OperationSetOperand(add, 0, OperationGetResult(b, 0))

	assert.True(t, ValueEqual(OperationGetResult(b, 0), OperationGetOperand(add, 0)))
	assert.True(t, ValueEqual(OperationGetResult(a, 0), OperationGetOperand(add, 1)))

	// a keeps exactly one use, b gains one.
	use := ValueGetFirstUse(OperationGetResult(a, 0))
	require.False(t, OpOperandIsNull(use))
	assert.Equal(t, 1, OpOperandGetOperandNumber(use))
	assert.True(t, OpOperandIsNull(OpOperandGetNextUse(use)))

	use = ValueGetFirstUse(OperationGetResult(b, 0))
	require.False(t, OpOperandIsNull(use))
	assert.Equal(t, 0, OpOperandGetOperandNumber(use))
	assert.True(t, OpOperandIsNull(OpOperandGetNextUse(use)))
}

func TestBlockAttachDetachMove(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	module := parseSource(t, ctx, "module {}", "test.mlir")
	require.False(t, module.IsNull())
	defer OperationDestroy(module)
	block := RegionGetFirstBlock(OperationGetRegion(module, 0))

	first := buildConstant(t, ctx, 1)
	second := buildConstant(t, ctx, 2)
	third := buildConstant(t, ctx, 3)
	BlockAppendOwnedOperation(block, first)
	BlockAppendOwnedOperation(block, third)
	BlockInsertOwnedOperationBefore(block, third, second)

	assert.True(t, BlockEqual(block, OperationGetBlock(first)))
	assert.True(t, OperationEqual(module, OperationGetParentOperation(first)))

	order := func() []Operation {
		var ops []Operation
		for op := BlockGetFirstOperation(block); !op.IsNull(); op = OperationGetNextInBlock(op) {
			ops = append(ops, op)
		}
		return ops
	}
	got := order()
	require.Len(t, got, 3)
	assert.True(t, OperationEqual(first, got[0]))
	assert.True(t, OperationEqual(second, got[1]))
	assert.True(t, OperationEqual(third, got[2]))
	assert.True(t, OperationEqual(third, BlockGetTerminator(block)))

	OperationMoveAfter(first, third)
	got = order()
	assert.True(t, OperationEqual(second, got[0]))
	assert.True(t, OperationEqual(third, got[1]))
	assert.True(t, OperationEqual(first, got[2]))

	OperationMoveBefore(first, second)
	got = order()
	assert.True(t, OperationEqual(first, got[0]))

	OperationRemoveFromParent(second)
	assert.True(t, OperationGetBlock(second).IsNull())
	assert.Len(t, order(), 2)
	OperationDestroy(second)
}

func TestOperationCloneIsIndependent(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	op := buildConstant(t, ctx, 5)
	defer OperationDestroy(op)
	clone := OperationClone(op)
	defer OperationDestroy(clone)

	assert.False(t, OperationEqual(op, clone))
	assert.True(t, IdentifierEqual(OperationGetName(op), OperationGetName(clone)))
	assert.False(t, ValueEqual(OperationGetResult(op, 0), OperationGetResult(clone, 0)))

	OperationSetAttributeByName(clone, StringRefFromString("note"), UnitAttrGet(ctx))
	assert.True(t, OperationGetAttributeByName(op, StringRefFromString("note")).IsNull())
}

func TestOperationCloneOperandsAliasOriginalValues(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	cst := buildConstant(t, ctx, 9)
	defer OperationDestroy(cst)
	v := OperationGetResult(cst, 0)

	state := OperationStateGet(StringRefFromString("arith.addi"), LocationUnknownGet(ctx))
	OperationStateAddOperands(state, v, v)
	OperationStateAddResults(state, IntegerTypeGet(ctx, 32))
	add := OperationCreate(state)
	require.False(t, add.IsNull())
	defer OperationDestroy(add)

	clone := OperationClone(add)
	defer OperationDestroy(clone)

	assert.True(t, ValueEqual(v, OperationGetOperand(clone, 0)))

	uses := 0
	for use := ValueGetFirstUse(v); !OpOperandIsNull(use); use = OpOperandGetNextUse(use) {
		uses++
	}
	assert.Equal(t, 4, uses)
}

func TestOperationWalkOrders(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)
	ContextSetAllowUnregisteredDialects(ctx, true)

	source := `module {
  "dialect.outer"() ({
    "dialect.inner"() : () -> ()
  }) : () -> ()
  "dialect.last"() : () -> ()
}`
	module := parseSource(t, ctx, source, "test.mlir")
	require.False(t, module.IsNull())
	defer OperationDestroy(module)

	collect := func(order WalkOrder) []string {
		var names []string
		OperationWalk(module, func(op Operation) {
			names = append(names, IdentifierStr(OperationGetName(op)).String())
		}, order)
		return names
	}

	assert.Equal(t,
		[]string{"builtin.module", "dialect.outer", "dialect.inner", "dialect.last"},
		collect(WalkPreOrder))
	assert.Equal(t,
		[]string{"dialect.inner", "dialect.outer", "dialect.last", "builtin.module"},
		collect(WalkPostOrder))
}

func TestBlockArguments(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	i32 := IntegerTypeGet(ctx, 32)
	loc := LocationUnknownGet(ctx)
	block := BlockCreate([]Type{i32, IndexTypeGet(ctx)}, []Location{loc, loc})
	defer BlockDestroy(block)

	assert.Equal(t, 2, BlockGetNumArguments(block))
	arg := BlockGetArgument(block, 0)
	assert.True(t, ValueIsABlockArgument(arg))
	assert.False(t, ValueIsAOpResult(arg))
	assert.True(t, TypeEqual(i32, ValueGetType(arg)))

	assert.Panics(t, func() {
		BlockCreate([]Type{i32}, nil)
	})
}

func TestIndexBoundsPanics(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	op := buildConstant(t, ctx, 1)
	defer OperationDestroy(op)

	assert.Panics(t, func() { OperationGetOperand(op, 0) })
	assert.Panics(t, func() { OperationGetResult(op, 1) })
	assert.Panics(t, func() { OperationGetRegion(op, 0) })
}

func TestDestroyAttachedOperationPanics(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	module := parseSource(t, ctx, "module {}", "test.mlir")
	require.False(t, module.IsNull())
	defer OperationDestroy(module)
	block := RegionGetFirstBlock(OperationGetRegion(module, 0))

	op := buildConstant(t, ctx, 1)
	BlockAppendOwnedOperation(block, op)
	assert.Panics(t, func() { OperationDestroy(op) })
}

func TestOperationDoubleDestroyPanics(t *testing.T) {
	ctx := arithContext(t)
	defer ContextDestroy(ctx)

	op := buildConstant(t, ctx, 1)
	OperationDestroy(op)
	assert.Panics(t, func() { OperationDestroy(op) })
}

func TestRegionAppendOwnedBlock(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	region := RegionCreate()
	defer RegionDestroy(region)
	assert.True(t, RegionGetFirstBlock(region).IsNull())

	first := BlockCreate(nil, nil)
	second := BlockCreate(nil, nil)
	RegionAppendOwnedBlock(region, first)
	RegionAppendOwnedBlock(region, second)

	got := RegionGetFirstBlock(region)
	assert.True(t, BlockEqual(first, got))
	assert.True(t, BlockEqual(second, BlockGetNextInRegion(got)))
	assert.True(t, RegionEqual(region, BlockGetParentRegion(got)))
}
