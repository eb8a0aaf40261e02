package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeInterning(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	a := IntegerTypeGet(ctx, 32)
	b := IntegerTypeGet(ctx, 32)
	assert.True(t, TypeEqual(a, b))

	c := IntegerTypeGet(ctx, 64)
	assert.False(t, TypeEqual(a, c))

	// signedness distinguishes spellings
	signed := IntegerTypeSignedGet(ctx, 32)
	assert.False(t, TypeEqual(a, signed))

	// parse reaches the same interned object
	parsed := TypeParseGet(ctx, StringRefFromString("i32"))
	require.False(t, parsed.IsNull())
	assert.True(t, TypeEqual(a, parsed))
}

func TestTypeAccessors(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	i16 := IntegerTypeGet(ctx, 16)
	assert.True(t, TypeIsAInteger(i16))
	assert.Equal(t, 16, IntegerTypeGetWidth(i16))
	assert.True(t, IntegerTypeIsSignless(i16))
	assert.False(t, IntegerTypeIsSigned(i16))

	u8 := IntegerTypeUnsignedGet(ctx, 8)
	assert.True(t, IntegerTypeIsUnsigned(u8))

	f32 := F32TypeGet(ctx)
	assert.True(t, TypeIsAF32(f32))
	assert.False(t, TypeIsAF64(f32))

	assert.True(t, TypeIsANone(NoneTypeGet(ctx)))
	assert.True(t, TypeIsAIndex(IndexTypeGet(ctx)))
}

func TestRankedTensorType(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	elem := IntegerTypeGet(ctx, 8)
	tensor := RankedTensorTypeGet([]int64{2, 3}, elem)
	require.True(t, TypeIsARankedTensor(tensor))
	assert.Equal(t, int64(2), ShapedTypeGetDimSize(tensor, 0))
	assert.Equal(t, int64(3), ShapedTypeGetDimSize(tensor, 1))
	assert.True(t, TypeEqual(elem, ShapedTypeGetElementType(tensor)))

	assert.Panics(t, func() { ShapedTypeGetDimSize(tensor, 2) })

	same := TypeParseGet(ctx, StringRefFromString("tensor<2x3xi8>"))
	require.False(t, same.IsNull())
	assert.True(t, TypeEqual(tensor, same))
}

func TestAttributeInterning(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	i32 := IntegerTypeGet(ctx, 32)
	a := IntegerAttrGet(i32, 42)
	b := IntegerAttrGet(i32, 42)
	assert.True(t, AttributeEqual(a, b))

	c := IntegerAttrGet(i32, 43)
	assert.False(t, AttributeEqual(a, c))

	parsed := AttributeParseGet(ctx, StringRefFromString("42 : i32"))
	require.False(t, parsed.IsNull())
	assert.True(t, AttributeEqual(a, parsed))
}

func TestAttributeTypes(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	i32 := IntegerTypeGet(ctx, 32)
	assert.True(t, TypeEqual(i32, AttributeGetType(IntegerAttrGet(i32, 7))))

	// bool attributes report i1
	i1 := IntegerTypeGet(ctx, 1)
	assert.True(t, TypeEqual(i1, AttributeGetType(BoolAttrGet(ctx, true))))

	// typeless attributes report none
	none := NoneTypeGet(ctx)
	assert.True(t, TypeEqual(none, AttributeGetType(StringAttrGet(ctx, StringRefFromString("s")))))
	assert.True(t, TypeEqual(none, AttributeGetType(UnitAttrGet(ctx))))
}

func TestDenseArrayAttributes(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	bools := DenseBoolArrayGet(ctx, []bool{true, false})
	require.True(t, AttributeIsADenseBoolArray(bools))
	assert.Equal(t, 2, DenseArrayGetNumElements(bools))
	assert.True(t, DenseBoolArrayGetElement(bools, 0))
	assert.False(t, DenseBoolArrayGetElement(bools, 1))
	assert.Panics(t, func() { DenseBoolArrayGetElement(bools, 2) })

	i64s := DenseI64ArrayGet(ctx, []int64{1, -2, 3})
	assert.Equal(t, 3, DenseArrayGetNumElements(i64s))
	assert.Equal(t, int64(-2), DenseI64ArrayGetElement(i64s, 1))

	parsed := AttributeParseGet(ctx, StringRefFromString("array<i64: 1, -2, 3>"))
	require.False(t, parsed.IsNull())
	assert.True(t, AttributeEqual(i64s, parsed))
}

func TestDenseElementsStrings(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	shaped := RankedTensorTypeGet([]int64{2}, IntegerTypeGet(ctx, 8))
	attr := DenseElementsAttrStringGet(shaped, []StringRef{
		StringRefFromString("ab"),
		StringRefFromString("cd"),
	})
	require.True(t, AttributeIsADenseElements(attr))
	assert.Equal(t, 2, ElementsAttrGetNumElements(attr))
	assert.Equal(t, "cd", DenseElementsAttrGetStringValue(attr, 1).String())
	assert.True(t, TypeEqual(shaped, AttributeGetType(attr)))
	assert.Panics(t, func() { DenseElementsAttrGetStringValue(attr, 2) })
}

func TestIdentifierInterning(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	a := IdentifierGet(ctx, StringRefFromString("value"))
	b := IdentifierGet(ctx, StringRefFromString("value"))
	assert.True(t, IdentifierEqual(a, b))
	assert.Equal(t, "value", IdentifierStr(a).String())

	c := IdentifierGet(ctx, StringRefFromString("other"))
	assert.False(t, IdentifierEqual(a, c))
}

func TestLocationInterning(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	a := LocationFileLineColGet(ctx, StringRefFromString("f.ir"), 1, 2)
	b := LocationFileLineColGet(ctx, StringRefFromString("f.ir"), 1, 2)
	assert.True(t, LocationEqual(a, b))

	c := LocationFileLineColGet(ctx, StringRefFromString("f.ir"), 1, 3)
	assert.False(t, LocationEqual(a, c))

	unknown := LocationUnknownGet(ctx)
	assert.False(t, LocationEqual(a, unknown))

	call := LocationCallSiteGet(a, unknown)
	sameCall := LocationCallSiteGet(a, unknown)
	assert.True(t, LocationEqual(call, sameCall))
}

func TestLocationPrintForm(t *testing.T) {
	ctx := ContextCreateWithThreading(false)
	defer ContextDestroy(ctx)

	loc := LocationFileLineColGet(ctx, StringRefFromString("test.mlir"), 1, 1)
	var got string
	LocationPrint(loc, func(chunk StringRef, _ uintptr) { got += chunk.String() }, 0)
	assert.Equal(t, `loc("test.mlir":1:1)`, got)
}
