package core

import (
	"fmt"
	"strings"
)

type typeKind int

const (
	typeInteger typeKind = iota
	typeFloat
	typeIndex
	typeNone
	typeRankedTensor
	typeOpaque
)

type signedness int

const (
	signless signedness = iota
	signed
	unsigned
)

type typeImpl struct {
	ctx  *contextImpl
	kind typeKind

	// integer
	width int
	sign  signedness

	// ranked tensor
	dims []int64
	elem *typeImpl

	// opaque: "!namespace.body"
	opaqueNS   string
	opaqueBody string

	// canonical print form; doubles as the interning key
	spelling string
}

// internType uniques a type by its canonical spelling inside its context.
func (ctx *contextImpl) internType(t *typeImpl) *typeImpl {
	ctx.check()
	if existing, ok := ctx.types[t.spelling]; ok {
		return existing
	}
	ctx.types[t.spelling] = t
	return t
}

func (ctx *contextImpl) integerType(width int, sign signedness) *typeImpl {
	prefix := "i"
	switch sign {
	case signed:
		prefix = "si"
	case unsigned:
		prefix = "ui"
	}
	return ctx.internType(&typeImpl{
		ctx:      ctx,
		kind:     typeInteger,
		width:    width,
		sign:     sign,
		spelling: fmt.Sprintf("%s%d", prefix, width),
	})
}

func (ctx *contextImpl) floatType(width int) *typeImpl {
	return ctx.internType(&typeImpl{
		ctx:      ctx,
		kind:     typeFloat,
		width:    width,
		spelling: fmt.Sprintf("f%d", width),
	})
}

func (ctx *contextImpl) indexType() *typeImpl {
	return ctx.internType(&typeImpl{ctx: ctx, kind: typeIndex, spelling: "index"})
}

func (ctx *contextImpl) noneType() *typeImpl {
	return ctx.internType(&typeImpl{ctx: ctx, kind: typeNone, spelling: "none"})
}

func (ctx *contextImpl) rankedTensorType(dims []int64, elem *typeImpl) *typeImpl {
	var sb strings.Builder
	sb.WriteString("tensor<")
	for _, d := range dims {
		fmt.Fprintf(&sb, "%dx", d)
	}
	sb.WriteString(elem.spelling)
	sb.WriteString(">")
	return ctx.internType(&typeImpl{
		ctx:      ctx,
		kind:     typeRankedTensor,
		dims:     append([]int64(nil), dims...),
		elem:     elem,
		spelling: sb.String(),
	})
}

func (ctx *contextImpl) opaqueType(ns, body string) *typeImpl {
	return ctx.internType(&typeImpl{
		ctx:        ctx,
		kind:       typeOpaque,
		opaqueNS:   ns,
		opaqueBody: body,
		spelling:   "!" + ns + "." + body,
	})
}

// TypeParseGet parses a type from its textual form. Returns the null
// handle on malformed input.
func TypeParseGet(c Context, src StringRef) Type {
	c.p.check()
	t, rest, ok := parseTypeText(c.p, strings.TrimSpace(src.String()))
	if !ok || rest != "" {
		return Type{}
	}
	return Type{p: t}
}

// IntegerTypeGet returns the signless integer type of the given width.
func IntegerTypeGet(c Context, bitwidth int) Type {
	return Type{p: c.p.integerType(bitwidth, signless)}
}

// IntegerTypeSignedGet returns the signed integer type of the given width.
func IntegerTypeSignedGet(c Context, bitwidth int) Type {
	return Type{p: c.p.integerType(bitwidth, signed)}
}

// IntegerTypeUnsignedGet returns the unsigned integer type of the given
// width.
func IntegerTypeUnsignedGet(c Context, bitwidth int) Type {
	return Type{p: c.p.integerType(bitwidth, unsigned)}
}

// F32TypeGet returns the f32 type.
func F32TypeGet(c Context) Type { return Type{p: c.p.floatType(32)} }

// F64TypeGet returns the f64 type.
func F64TypeGet(c Context) Type { return Type{p: c.p.floatType(64)} }

// IndexTypeGet returns the index type.
func IndexTypeGet(c Context) Type { return Type{p: c.p.indexType()} }

// NoneTypeGet returns the none type.
func NoneTypeGet(c Context) Type { return Type{p: c.p.noneType()} }

// RankedTensorTypeGet returns the tensor type with the given shape and
// element type.
func RankedTensorTypeGet(shape []int64, elem Type) Type {
	return Type{p: elem.p.ctx.rankedTensorType(shape, elem.p)}
}

// TypeGetContext returns the context that owns the type.
func TypeGetContext(t Type) Context { return Context{p: t.p.ctx} }

// TypeGetDialect returns the dialect the type belongs to.
func TypeGetDialect(t Type) Dialect {
	ctx := t.p.ctx
	ns := "builtin"
	if t.p.kind == typeOpaque {
		ns = t.p.opaqueNS
	}
	if d, ok := ctx.loaded[ns]; ok {
		return Dialect{p: d}
	}
	// Unregistered opaque types report the builtin dialect, mirroring the
	// erased fallback of the foreign library.
	return Dialect{p: ctx.loaded["builtin"]}
}

// TypeEqual compares types. Interning makes identity comparison exact.
func TypeEqual(a, b Type) bool { return a.p == b.p }

// TypeIsAInteger reports whether the type is an integer type.
func TypeIsAInteger(t Type) bool { return t.p.kind == typeInteger }

// TypeIsAF32 reports whether the type is f32.
func TypeIsAF32(t Type) bool { return t.p.kind == typeFloat && t.p.width == 32 }

// TypeIsAF64 reports whether the type is f64.
func TypeIsAF64(t Type) bool { return t.p.kind == typeFloat && t.p.width == 64 }

// TypeIsANone reports whether the type is the none type.
func TypeIsANone(t Type) bool { return t.p.kind == typeNone }

// TypeIsAIndex reports whether the type is the index type.
func TypeIsAIndex(t Type) bool { return t.p.kind == typeIndex }

// TypeIsARankedTensor reports whether the type is a ranked tensor.
func TypeIsARankedTensor(t Type) bool { return t.p.kind == typeRankedTensor }

// IntegerTypeGetWidth returns the bitwidth of an integer type.
func IntegerTypeGetWidth(t Type) int { return t.p.width }

// IntegerTypeIsSignless reports whether the integer type is signless.
func IntegerTypeIsSignless(t Type) bool { return t.p.sign == signless }

// IntegerTypeIsSigned reports whether the integer type is signed.
func IntegerTypeIsSigned(t Type) bool { return t.p.sign == signed }

// IntegerTypeIsUnsigned reports whether the integer type is unsigned.
func IntegerTypeIsUnsigned(t Type) bool { return t.p.sign == unsigned }

// ShapedTypeGetDimSize returns the extent of one dimension of a shaped
// type.
func ShapedTypeGetDimSize(t Type, dim int) int64 {
	if dim < 0 || dim >= len(t.p.dims) {
		panic(fmt.Sprintf("core: dimension index %d out of bounds", dim))
	}
	return t.p.dims[dim]
}

// ShapedTypeGetElementType returns the element type of a shaped type.
func ShapedTypeGetElementType(t Type) Type { return Type{p: t.p.elem} }

// TypePrint pushes the type's textual form through the callback.
func TypePrint(t Type, callback StringCallback, userData uintptr) {
	emitString(t.p.spelling, callback, userData)
}

func emitString(s string, callback StringCallback, userData uintptr) {
	if callback == nil {
		return
	}
	callback(StringRefFromString(s), userData)
}
