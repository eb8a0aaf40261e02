package ir

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/bridge"
	"github.com/arbor-ir/arbor/internal/core"
)

// Attribute is a borrowed view of an interned attribute.
type Attribute struct {
	raw core.Attribute
}

// ParseAttribute parses an attribute from its textual form. Malformed
// text is absence, not an error.
func ParseAttribute(ctx Context, text string) (Attribute, bool) {
	a := core.AttributeParseGet(ctx.Raw(), core.StringRefFromString(text))
	if a.IsNull() {
		return Attribute{}, false
	}
	return Attribute{raw: a}, true
}

// AttributeFromRaw wraps a raw attribute handle the caller attests is
// valid.
func AttributeFromRaw(raw core.Attribute) Attribute { return Attribute{raw: raw} }

// AttributeTryFromRaw wraps a raw attribute handle, reporting absence
// for the null handle.
func AttributeTryFromRaw(raw core.Attribute) (Attribute, bool) {
	if raw.IsNull() {
		return Attribute{}, false
	}
	return Attribute{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (a Attribute) Raw() core.Attribute { return a.raw }

// Context returns the context the attribute is interned in.
func (a Attribute) Context() arbor.ContextRef {
	return arbor.ContextRefFromRaw(core.AttributeGetContext(a.raw))
}

// Type returns the type of the attribute's value; none for typeless
// attributes.
func (a Attribute) Type() Type {
	return Type{raw: core.AttributeGetType(a.raw)}
}

// Dialect returns the dialect the attribute belongs to.
func (a Attribute) Dialect() arbor.Dialect {
	return arbor.DialectFromRaw(core.AttributeGetDialect(a.raw))
}

// Equal reports attribute equality. Interned attributes make this exact
// structural equality.
func (a Attribute) Equal(other Attribute) bool {
	return core.AttributeEqual(a.raw, other.raw)
}

func (a Attribute) String() string {
	return bridge.String(func(cb core.StringCallback, ud uintptr) {
		core.AttributePrint(a.raw, cb, ud)
	})
}

// WithName pairs the attribute with a name for attachment to an
// operation.
func (a Attribute) WithName(ctx Context, name string) NamedAttribute {
	return NamedAttribute{
		Name:      NewIdentifier(ctx, name),
		Attribute: a,
	}
}

// NamedAttribute is a transient (name, attribute) pair.
type NamedAttribute struct {
	Name      Identifier
	Attribute Attribute
}

func (n NamedAttribute) raw() core.NamedAttribute {
	return core.NamedAttribute{Name: n.Name.raw, Attribute: n.Attribute.raw}
}

// UnitAttribute is the presence-only attribute.
type UnitAttribute struct {
	Attribute
}

// NewUnitAttribute returns the unit attribute.
func NewUnitAttribute(ctx Context) UnitAttribute {
	return UnitAttribute{Attribute{raw: core.UnitAttrGet(ctx.Raw())}}
}

// UnitAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func UnitAttributeFromAttribute(a Attribute) (UnitAttribute, bool) {
	if !core.AttributeIsAUnit(a.raw) {
		return UnitAttribute{}, false
	}
	return UnitAttribute{a}, true
}

// BoolAttribute holds a boolean.
type BoolAttribute struct {
	Attribute
}

// NewBoolAttribute returns the boolean attribute holding value.
func NewBoolAttribute(ctx Context, value bool) BoolAttribute {
	return BoolAttribute{Attribute{raw: core.BoolAttrGet(ctx.Raw(), value)}}
}

// BoolAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func BoolAttributeFromAttribute(a Attribute) (BoolAttribute, bool) {
	if !core.AttributeIsABool(a.raw) {
		return BoolAttribute{}, false
	}
	return BoolAttribute{a}, true
}

// Value returns the held boolean.
func (a BoolAttribute) Value() bool { return core.BoolAttrGetValue(a.raw) }

// IntegerAttribute holds an integer of a specific integer type.
type IntegerAttribute struct {
	Attribute
}

// NewIntegerAttribute returns the integer attribute of type t holding
// value.
func NewIntegerAttribute(t Type, value int64) IntegerAttribute {
	return IntegerAttribute{Attribute{raw: core.IntegerAttrGet(t.raw, value)}}
}

// IntegerAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func IntegerAttributeFromAttribute(a Attribute) (IntegerAttribute, bool) {
	if !core.AttributeIsAInteger(a.raw) {
		return IntegerAttribute{}, false
	}
	return IntegerAttribute{a}, true
}

// SignedValue returns the value read as signed.
func (a IntegerAttribute) SignedValue() int64 {
	return core.IntegerAttrGetValueSInt(a.raw)
}

// UnsignedValue returns the value read as unsigned.
func (a IntegerAttribute) UnsignedValue() uint64 {
	return core.IntegerAttrGetValueUInt(a.raw)
}

// FloatAttribute holds a float of a specific float type.
type FloatAttribute struct {
	Attribute
}

// NewFloatAttribute returns the float attribute of type t holding value.
func NewFloatAttribute(ctx Context, t Type, value float64) FloatAttribute {
	return FloatAttribute{Attribute{raw: core.FloatAttrDoubleGet(ctx.Raw(), t.raw, value)}}
}

// FloatAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func FloatAttributeFromAttribute(a Attribute) (FloatAttribute, bool) {
	if !core.AttributeIsAFloat(a.raw) {
		return FloatAttribute{}, false
	}
	return FloatAttribute{a}, true
}

// Value returns the held float.
func (a FloatAttribute) Value() float64 { return core.FloatAttrGetValueDouble(a.raw) }

// StringAttribute holds a string.
type StringAttribute struct {
	Attribute
}

// NewStringAttribute returns the string attribute holding value.
func NewStringAttribute(ctx Context, value string) StringAttribute {
	return StringAttribute{Attribute{raw: core.StringAttrGet(ctx.Raw(), core.StringRefFromString(value))}}
}

// StringAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func StringAttributeFromAttribute(a Attribute) (StringAttribute, bool) {
	if !core.AttributeIsAString(a.raw) {
		return StringAttribute{}, false
	}
	return StringAttribute{a}, true
}

// Value returns the held string.
func (a StringAttribute) Value() string {
	return core.StringAttrGetValue(a.raw).String()
}

// TypeAttribute wraps a type as an attribute.
type TypeAttribute struct {
	Attribute
}

// NewTypeAttribute returns the attribute wrapping t.
func NewTypeAttribute(t Type) TypeAttribute {
	return TypeAttribute{Attribute{raw: core.TypeAttrGet(t.raw)}}
}

// TypeAttributeFromAttribute downcasts. Failure is absence, never an
// error.
func TypeAttributeFromAttribute(a Attribute) (TypeAttribute, bool) {
	if !core.AttributeIsAType(a.raw) {
		return TypeAttribute{}, false
	}
	return TypeAttribute{a}, true
}

// Value returns the wrapped type.
func (a TypeAttribute) Value() Type {
	return Type{raw: core.TypeAttrGetValue(a.raw)}
}

// DenseBoolArrayAttribute is a flat array of booleans.
type DenseBoolArrayAttribute struct {
	Attribute
}

// NewDenseBoolArrayAttribute returns the dense boolean array attribute
// holding values.
func NewDenseBoolArrayAttribute(ctx Context, values []bool) DenseBoolArrayAttribute {
	return DenseBoolArrayAttribute{Attribute{raw: core.DenseBoolArrayGet(ctx.Raw(), values)}}
}

// DenseBoolArrayAttributeFromAttribute downcasts. Failure is absence,
// never an error.
func DenseBoolArrayAttributeFromAttribute(a Attribute) (DenseBoolArrayAttribute, bool) {
	if !core.AttributeIsADenseBoolArray(a.raw) {
		return DenseBoolArrayAttribute{}, false
	}
	return DenseBoolArrayAttribute{a}, true
}

// Len returns the element count.
func (a DenseBoolArrayAttribute) Len() int { return core.DenseArrayGetNumElements(a.raw) }

// Element returns the element at idx. Out-of-range indices panic.
func (a DenseBoolArrayAttribute) Element(idx int) bool {
	return core.DenseBoolArrayGetElement(a.raw, idx)
}

// DenseI32ArrayAttribute is a flat array of 32-bit integers.
type DenseI32ArrayAttribute struct {
	Attribute
}

// NewDenseI32ArrayAttribute returns the dense i32 array attribute
// holding values.
func NewDenseI32ArrayAttribute(ctx Context, values []int32) DenseI32ArrayAttribute {
	return DenseI32ArrayAttribute{Attribute{raw: core.DenseI32ArrayGet(ctx.Raw(), values)}}
}

// DenseI32ArrayAttributeFromAttribute downcasts. Failure is absence,
// never an error.
func DenseI32ArrayAttributeFromAttribute(a Attribute) (DenseI32ArrayAttribute, bool) {
	if !core.AttributeIsADenseI32Array(a.raw) {
		return DenseI32ArrayAttribute{}, false
	}
	return DenseI32ArrayAttribute{a}, true
}

// Len returns the element count.
func (a DenseI32ArrayAttribute) Len() int { return core.DenseArrayGetNumElements(a.raw) }

// Element returns the element at idx. Out-of-range indices panic.
func (a DenseI32ArrayAttribute) Element(idx int) int32 {
	return core.DenseI32ArrayGetElement(a.raw, idx)
}

// DenseI64ArrayAttribute is a flat array of 64-bit integers.
type DenseI64ArrayAttribute struct {
	Attribute
}

// NewDenseI64ArrayAttribute returns the dense i64 array attribute
// holding values.
func NewDenseI64ArrayAttribute(ctx Context, values []int64) DenseI64ArrayAttribute {
	return DenseI64ArrayAttribute{Attribute{raw: core.DenseI64ArrayGet(ctx.Raw(), values)}}
}

// DenseI64ArrayAttributeFromAttribute downcasts. Failure is absence,
// never an error.
func DenseI64ArrayAttributeFromAttribute(a Attribute) (DenseI64ArrayAttribute, bool) {
	if !core.AttributeIsADenseI64Array(a.raw) {
		return DenseI64ArrayAttribute{}, false
	}
	return DenseI64ArrayAttribute{a}, true
}

// Len returns the element count.
func (a DenseI64ArrayAttribute) Len() int { return core.DenseArrayGetNumElements(a.raw) }

// Element returns the element at idx. Out-of-range indices panic.
func (a DenseI64ArrayAttribute) Element(idx int) int64 {
	return core.DenseI64ArrayGetElement(a.raw, idx)
}

// DenseElementsAttribute is a shaped container of string elements.
type DenseElementsAttribute struct {
	Attribute
}

// NewDenseElementsAttribute returns the dense elements attribute over
// the shaped type holding values.
func NewDenseElementsAttribute(shaped RankedTensorType, values []string) DenseElementsAttribute {
	refs := make([]core.StringRef, len(values))
	for i, v := range values {
		refs[i] = core.StringRefFromString(v)
	}
	return DenseElementsAttribute{Attribute{raw: core.DenseElementsAttrStringGet(shaped.raw, refs)}}
}

// DenseElementsAttributeFromAttribute downcasts. Failure is absence,
// never an error.
func DenseElementsAttributeFromAttribute(a Attribute) (DenseElementsAttribute, bool) {
	if !core.AttributeIsADenseElements(a.raw) {
		return DenseElementsAttribute{}, false
	}
	return DenseElementsAttribute{a}, true
}

// Len returns the element count.
func (a DenseElementsAttribute) Len() int { return core.ElementsAttrGetNumElements(a.raw) }

// Element returns the element at idx. Out-of-range indices panic.
func (a DenseElementsAttribute) Element(idx int) string {
	return core.DenseElementsAttrGetStringValue(a.raw, idx).String()
}
