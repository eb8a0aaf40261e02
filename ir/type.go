package ir

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/bridge"
	"github.com/arbor-ir/arbor/internal/core"
)

// Type is a borrowed view of an interned type. Interning makes identity
// equality and structural equality the same relation.
type Type struct {
	raw core.Type
}

// ParseType parses a type from its textual form. Malformed text is
// absence, not an error.
func ParseType(ctx Context, text string) (Type, bool) {
	t := core.TypeParseGet(ctx.Raw(), core.StringRefFromString(text))
	if t.IsNull() {
		return Type{}, false
	}
	return Type{raw: t}, true
}

// TypeFromRaw wraps a raw type handle the caller attests is valid.
func TypeFromRaw(raw core.Type) Type { return Type{raw: raw} }

// TypeTryFromRaw wraps a raw type handle, reporting absence for the null
// handle.
func TypeTryFromRaw(raw core.Type) (Type, bool) {
	if raw.IsNull() {
		return Type{}, false
	}
	return Type{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (t Type) Raw() core.Type { return t.raw }

// Context returns the context the type is interned in.
func (t Type) Context() arbor.ContextRef {
	return arbor.ContextRefFromRaw(core.TypeGetContext(t.raw))
}

// Dialect returns the dialect the type belongs to.
func (t Type) Dialect() arbor.Dialect {
	return arbor.DialectFromRaw(core.TypeGetDialect(t.raw))
}

// Equal reports type equality. Interned types make this exact structural
// equality.
func (t Type) Equal(other Type) bool { return core.TypeEqual(t.raw, other.raw) }

func (t Type) String() string {
	return bridge.String(func(cb core.StringCallback, ud uintptr) {
		core.TypePrint(t.raw, cb, ud)
	})
}

// IntegerType is a signless, signed, or unsigned integer type.
type IntegerType struct {
	Type
}

// NewIntegerType returns the signless integer type of the given width.
func NewIntegerType(ctx Context, bitwidth int) IntegerType {
	return IntegerType{Type{raw: core.IntegerTypeGet(ctx.Raw(), bitwidth)}}
}

// NewSignedIntegerType returns the signed integer type of the given
// width.
func NewSignedIntegerType(ctx Context, bitwidth int) IntegerType {
	return IntegerType{Type{raw: core.IntegerTypeSignedGet(ctx.Raw(), bitwidth)}}
}

// NewUnsignedIntegerType returns the unsigned integer type of the given
// width.
func NewUnsignedIntegerType(ctx Context, bitwidth int) IntegerType {
	return IntegerType{Type{raw: core.IntegerTypeUnsignedGet(ctx.Raw(), bitwidth)}}
}

// IntegerTypeFromType downcasts. Failure is absence, never an error.
func IntegerTypeFromType(t Type) (IntegerType, bool) {
	if !core.TypeIsAInteger(t.raw) {
		return IntegerType{}, false
	}
	return IntegerType{t}, true
}

// Width returns the type's bitwidth.
func (t IntegerType) Width() int { return core.IntegerTypeGetWidth(t.raw) }

// IsSignless reports whether the type carries no signedness.
func (t IntegerType) IsSignless() bool { return core.IntegerTypeIsSignless(t.raw) }

// IsSigned reports whether the type is signed.
func (t IntegerType) IsSigned() bool { return core.IntegerTypeIsSigned(t.raw) }

// IsUnsigned reports whether the type is unsigned.
func (t IntegerType) IsUnsigned() bool { return core.IntegerTypeIsUnsigned(t.raw) }

// FloatType is an IEEE float type.
type FloatType struct {
	Type
}

// NewF32Type returns the f32 type.
func NewF32Type(ctx Context) FloatType {
	return FloatType{Type{raw: core.F32TypeGet(ctx.Raw())}}
}

// NewF64Type returns the f64 type.
func NewF64Type(ctx Context) FloatType {
	return FloatType{Type{raw: core.F64TypeGet(ctx.Raw())}}
}

// FloatTypeFromType downcasts. Failure is absence, never an error.
func FloatTypeFromType(t Type) (FloatType, bool) {
	if !core.TypeIsAF32(t.raw) && !core.TypeIsAF64(t.raw) {
		return FloatType{}, false
	}
	return FloatType{t}, true
}

// NoneType is the unit type.
type NoneType struct {
	Type
}

// NewNoneType returns the none type.
func NewNoneType(ctx Context) NoneType {
	return NoneType{Type{raw: core.NoneTypeGet(ctx.Raw())}}
}

// NoneTypeFromType downcasts. Failure is absence, never an error.
func NoneTypeFromType(t Type) (NoneType, bool) {
	if !core.TypeIsANone(t.raw) {
		return NoneType{}, false
	}
	return NoneType{t}, true
}

// IndexType is the platform-width index type.
type IndexType struct {
	Type
}

// NewIndexType returns the index type.
func NewIndexType(ctx Context) IndexType {
	return IndexType{Type{raw: core.IndexTypeGet(ctx.Raw())}}
}

// IndexTypeFromType downcasts. Failure is absence, never an error.
func IndexTypeFromType(t Type) (IndexType, bool) {
	if !core.TypeIsAIndex(t.raw) {
		return IndexType{}, false
	}
	return IndexType{t}, true
}

// RankedTensorType is a shaped type with a static rank.
type RankedTensorType struct {
	Type
}

// NewRankedTensorType returns the tensor type with the given shape and
// element type.
func NewRankedTensorType(shape []int64, element Type) RankedTensorType {
	return RankedTensorType{Type{raw: core.RankedTensorTypeGet(shape, element.raw)}}
}

// RankedTensorTypeFromType downcasts. Failure is absence, never an
// error.
func RankedTensorTypeFromType(t Type) (RankedTensorType, bool) {
	if !core.TypeIsARankedTensor(t.raw) {
		return RankedTensorType{}, false
	}
	return RankedTensorType{t}, true
}

// DimSize returns the extent of one dimension. Out-of-range dimensions
// panic.
func (t RankedTensorType) DimSize(dim int) int64 {
	return core.ShapedTypeGetDimSize(t.raw, dim)
}

// ElementType returns the tensor's element type.
func (t RankedTensorType) ElementType() Type {
	return Type{raw: core.ShapedTypeGetElementType(t.raw)}
}
