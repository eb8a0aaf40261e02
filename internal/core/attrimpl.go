package core

import (
	"fmt"
	"strconv"
	"strings"
)

type attrKind int

const (
	attrUnit attrKind = iota
	attrBool
	attrInteger
	attrFloat
	attrString
	attrType
	attrDenseBoolArray
	attrDenseI32Array
	attrDenseI64Array
	attrDenseElementsStrings
)

type attrImpl struct {
	ctx  *contextImpl
	kind attrKind

	intValue   int64
	floatValue float64
	boolValue  bool
	strValue   string
	typ        *typeImpl // integer/float: value type; type attr: payload; dense elements: tensor type

	boolElems []bool
	i32Elems  []int32
	i64Elems  []int64
	strElems  []string

	// canonical print form; doubles as the interning key
	spelling string
}

// attrType is the type reported by AttributeGetType: the value type for
// numeric attributes, the shaped type for dense elements, none for
// everything else.
func (a *attrImpl) attrType() *typeImpl {
	switch a.kind {
	case attrInteger, attrFloat, attrDenseElementsStrings:
		return a.typ
	case attrBool:
		return a.ctx.integerType(1, signless)
	default:
		return a.ctx.noneType()
	}
}

func (ctx *contextImpl) internAttr(a *attrImpl) *attrImpl {
	ctx.check()
	if existing, ok := ctx.attrs[a.spelling]; ok {
		return existing
	}
	ctx.attrs[a.spelling] = a
	return a
}

func (ctx *contextImpl) unitAttr() *attrImpl {
	return ctx.internAttr(&attrImpl{ctx: ctx, kind: attrUnit, spelling: "unit"})
}

func (ctx *contextImpl) boolAttr(v bool) *attrImpl {
	return ctx.internAttr(&attrImpl{ctx: ctx, kind: attrBool, boolValue: v, spelling: strconv.FormatBool(v)})
}

func (ctx *contextImpl) integerAttr(t *typeImpl, v int64) *attrImpl {
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrInteger, intValue: v, typ: t,
		spelling: fmt.Sprintf("%d : %s", v, t.spelling),
	})
}

func (ctx *contextImpl) floatAttr(t *typeImpl, v float64) *attrImpl {
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrFloat, floatValue: v, typ: t,
		spelling: fmt.Sprintf("%s : %s", formatFloatAttr(v), t.spelling),
	})
}

func formatFloatAttr(v float64) string {
	return strconv.FormatFloat(v, 'e', 6, 64)
}

func (ctx *contextImpl) stringAttr(v string) *attrImpl {
	return ctx.internAttr(&attrImpl{ctx: ctx, kind: attrString, strValue: v, spelling: strconv.Quote(v)})
}

func (ctx *contextImpl) typeAttr(t *typeImpl) *attrImpl {
	return ctx.internAttr(&attrImpl{ctx: ctx, kind: attrType, typ: t, spelling: t.spelling})
}

func (ctx *contextImpl) denseBoolArrayAttr(values []bool) *attrImpl {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatBool(v)
	}
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrDenseBoolArray, boolElems: append([]bool(nil), values...),
		spelling: denseArraySpelling("i1", parts),
	})
}

func (ctx *contextImpl) denseI32ArrayAttr(values []int32) *attrImpl {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrDenseI32Array, i32Elems: append([]int32(nil), values...),
		spelling: denseArraySpelling("i32", parts),
	})
}

func (ctx *contextImpl) denseI64ArrayAttr(values []int64) *attrImpl {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrDenseI64Array, i64Elems: append([]int64(nil), values...),
		spelling: denseArraySpelling("i64", parts),
	})
}

func denseArraySpelling(elem string, parts []string) string {
	if len(parts) == 0 {
		return "array<" + elem + ">"
	}
	return "array<" + elem + ": " + strings.Join(parts, ", ") + ">"
}

func (ctx *contextImpl) denseElementsStringsAttr(shaped *typeImpl, values []string) *attrImpl {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Quote(v)
	}
	return ctx.internAttr(&attrImpl{
		ctx: ctx, kind: attrDenseElementsStrings, typ: shaped,
		strElems: append([]string(nil), values...),
		spelling: "dense<[" + strings.Join(parts, ", ") + "]> : " + shaped.spelling,
	})
}

// AttributeParseGet parses an attribute from its textual form. Returns
// the null handle on malformed input.
func AttributeParseGet(c Context, src StringRef) Attribute {
	c.p.check()
	a, rest, ok := parseAttrText(c.p, strings.TrimSpace(src.String()))
	if !ok || strings.TrimSpace(rest) != "" {
		return Attribute{}
	}
	return Attribute{p: a}
}

// UnitAttrGet returns the unit attribute.
func UnitAttrGet(c Context) Attribute { return Attribute{p: c.p.unitAttr()} }

// BoolAttrGet returns the boolean attribute holding value.
func BoolAttrGet(c Context, value bool) Attribute { return Attribute{p: c.p.boolAttr(value)} }

// IntegerAttrGet returns the integer attribute of the given integer type
// holding value.
func IntegerAttrGet(t Type, value int64) Attribute {
	return Attribute{p: t.p.ctx.integerAttr(t.p, value)}
}

// FloatAttrDoubleGet returns the float attribute of the given float type
// holding value.
func FloatAttrDoubleGet(c Context, t Type, value float64) Attribute {
	return Attribute{p: c.p.floatAttr(t.p, value)}
}

// StringAttrGet returns the string attribute holding value.
func StringAttrGet(c Context, value StringRef) Attribute {
	return Attribute{p: c.p.stringAttr(value.String())}
}

// TypeAttrGet returns the attribute wrapping a type.
func TypeAttrGet(t Type) Attribute { return Attribute{p: t.p.ctx.typeAttr(t.p)} }

// DenseBoolArrayGet returns a dense array attribute of booleans.
func DenseBoolArrayGet(c Context, values []bool) Attribute {
	return Attribute{p: c.p.denseBoolArrayAttr(values)}
}

// DenseI32ArrayGet returns a dense array attribute of 32-bit integers.
func DenseI32ArrayGet(c Context, values []int32) Attribute {
	return Attribute{p: c.p.denseI32ArrayAttr(values)}
}

// DenseI64ArrayGet returns a dense array attribute of 64-bit integers.
func DenseI64ArrayGet(c Context, values []int64) Attribute {
	return Attribute{p: c.p.denseI64ArrayAttr(values)}
}

// DenseElementsAttrStringGet returns a dense elements attribute of
// strings over the provided shaped type.
func DenseElementsAttrStringGet(shaped Type, values []StringRef) Attribute {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = v.String()
	}
	return Attribute{p: shaped.p.ctx.denseElementsStringsAttr(shaped.p, strs)}
}

// AttributeGetContext returns the context that owns the attribute.
func AttributeGetContext(a Attribute) Context { return Context{p: a.p.ctx} }

// AttributeGetType returns the type of the attribute's value.
func AttributeGetType(a Attribute) Type { return Type{p: a.p.attrType()} }

// AttributeGetDialect returns the dialect the attribute belongs to.
func AttributeGetDialect(a Attribute) Dialect {
	return Dialect{p: a.p.ctx.loaded["builtin"]}
}

// AttributeEqual compares attributes. Interning makes identity comparison
// exact.
func AttributeEqual(a, b Attribute) bool { return a.p == b.p }

// AttributeIsABool reports whether the attribute is a boolean attribute.
func AttributeIsABool(a Attribute) bool { return a.p.kind == attrBool }

// AttributeIsAInteger reports whether the attribute is an integer
// attribute.
func AttributeIsAInteger(a Attribute) bool { return a.p.kind == attrInteger }

// AttributeIsAFloat reports whether the attribute is a float attribute.
func AttributeIsAFloat(a Attribute) bool { return a.p.kind == attrFloat }

// AttributeIsAString reports whether the attribute is a string attribute.
func AttributeIsAString(a Attribute) bool { return a.p.kind == attrString }

// AttributeIsAUnit reports whether the attribute is the unit attribute.
func AttributeIsAUnit(a Attribute) bool { return a.p.kind == attrUnit }

// AttributeIsAType reports whether the attribute wraps a type.
func AttributeIsAType(a Attribute) bool { return a.p.kind == attrType }

// AttributeIsADenseBoolArray reports whether the attribute is a dense
// boolean array.
func AttributeIsADenseBoolArray(a Attribute) bool { return a.p.kind == attrDenseBoolArray }

// AttributeIsADenseI32Array reports whether the attribute is a dense i32
// array.
func AttributeIsADenseI32Array(a Attribute) bool { return a.p.kind == attrDenseI32Array }

// AttributeIsADenseI64Array reports whether the attribute is a dense i64
// array.
func AttributeIsADenseI64Array(a Attribute) bool { return a.p.kind == attrDenseI64Array }

// AttributeIsADenseElements reports whether the attribute is a dense
// elements attribute.
func AttributeIsADenseElements(a Attribute) bool { return a.p.kind == attrDenseElementsStrings }

// BoolAttrGetValue returns the boolean held by a boolean attribute.
func BoolAttrGetValue(a Attribute) bool { return a.p.boolValue }

// IntegerAttrGetValueSInt returns the attribute's value as a signed
// 64-bit integer.
func IntegerAttrGetValueSInt(a Attribute) int64 { return a.p.intValue }

// IntegerAttrGetValueUInt returns the attribute's value as an unsigned
// 64-bit integer.
func IntegerAttrGetValueUInt(a Attribute) uint64 { return uint64(a.p.intValue) }

// FloatAttrGetValueDouble returns the attribute's value as a float64.
func FloatAttrGetValueDouble(a Attribute) float64 { return a.p.floatValue }

// StringAttrGetValue returns the string held by a string attribute.
func StringAttrGetValue(a Attribute) StringRef { return StringRefFromString(a.p.strValue) }

// TypeAttrGetValue returns the type wrapped by a type attribute.
func TypeAttrGetValue(a Attribute) Type { return Type{p: a.p.typ} }

// DenseArrayGetNumElements returns the element count of a dense array
// attribute.
func DenseArrayGetNumElements(a Attribute) int {
	switch a.p.kind {
	case attrDenseBoolArray:
		return len(a.p.boolElems)
	case attrDenseI32Array:
		return len(a.p.i32Elems)
	case attrDenseI64Array:
		return len(a.p.i64Elems)
	}
	return 0
}

// DenseBoolArrayGetElement returns one element of a dense boolean array.
func DenseBoolArrayGetElement(a Attribute, idx int) bool {
	checkElemBounds(idx, len(a.p.boolElems))
	return a.p.boolElems[idx]
}

// DenseI32ArrayGetElement returns one element of a dense i32 array.
func DenseI32ArrayGetElement(a Attribute, idx int) int32 {
	checkElemBounds(idx, len(a.p.i32Elems))
	return a.p.i32Elems[idx]
}

// DenseI64ArrayGetElement returns one element of a dense i64 array.
func DenseI64ArrayGetElement(a Attribute, idx int) int64 {
	checkElemBounds(idx, len(a.p.i64Elems))
	return a.p.i64Elems[idx]
}

// ElementsAttrGetNumElements returns the element count of a dense
// elements attribute.
func ElementsAttrGetNumElements(a Attribute) int { return len(a.p.strElems) }

// DenseElementsAttrGetStringValue returns one string element of a dense
// elements attribute.
func DenseElementsAttrGetStringValue(a Attribute, idx int) StringRef {
	checkElemBounds(idx, len(a.p.strElems))
	return StringRefFromString(a.p.strElems[idx])
}

func checkElemBounds(idx, n int) {
	if idx < 0 || idx >= n {
		panic(fmt.Sprintf("core: element index %d out of bounds (%d elements)", idx, n))
	}
}

// AttributePrint pushes the attribute's textual form through the
// callback.
func AttributePrint(a Attribute, callback StringCallback, userData uintptr) {
	emitString(a.p.spelling, callback, userData)
}
