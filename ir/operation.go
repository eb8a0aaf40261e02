package ir

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/bridge"
	"github.com/arbor-ir/arbor/internal/core"
)

// OperationRef is a borrowed view of an operation. It is a copyable
// value; validity is bound to whatever owns the operation, be that a
// wrapper or a block in the tree.
type OperationRef struct {
	raw core.Operation
}

// OperationRefFromRaw wraps a raw operation handle the caller attests is
// valid.
func OperationRefFromRaw(raw core.Operation) OperationRef {
	return OperationRef{raw: raw}
}

// OperationRefTryFromRaw wraps a raw operation handle, reporting absence
// for the null handle.
func OperationRefTryFromRaw(raw core.Operation) (OperationRef, bool) {
	if raw.IsNull() {
		return OperationRef{}, false
	}
	return OperationRef{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (o OperationRef) Raw() core.Operation { return o.raw }

// Clone deep-copies the operation into a fresh detached operation the
// caller owns.
func (o OperationRef) Clone() *Operation {
	return &Operation{OperationRef: OperationRef{raw: core.OperationClone(o.raw)}}
}

// Context returns the operation's owning context.
func (o OperationRef) Context() arbor.ContextRef {
	return arbor.ContextRefFromRaw(core.OperationGetContext(o.raw))
}

// Verify checks the operation and everything nested inside it.
func (o OperationRef) Verify() arbor.LogicalResult {
	return arbor.LogicalResultFromRaw(core.OperationVerify(o.raw))
}

// Name returns the operation's fully-qualified name.
func (o OperationRef) Name() Identifier {
	return Identifier{raw: core.OperationGetName(o.raw)}
}

// Location returns the operation's source location.
func (o OperationRef) Location() Location {
	return Location{raw: core.OperationGetLocation(o.raw)}
}

// SetLocation replaces the operation's source location.
func (o OperationRef) SetLocation(loc Location) {
	core.OperationSetLocation(o.raw, loc.raw)
}

// Equal reports operation identity.
func (o OperationRef) Equal(other OperationRef) bool {
	return core.OperationEqual(o.raw, other.raw)
}

// ParentBlock returns the block the operation is attached to; absence
// means the operation is detached.
func (o OperationRef) ParentBlock() (BlockRef, bool) {
	b := core.OperationGetBlock(o.raw)
	if b.IsNull() {
		return BlockRef{}, false
	}
	return BlockRef{raw: b}, true
}

// ParentOperation returns the operation owning the region this operation
// lives in; absence at the root.
func (o OperationRef) ParentOperation() (OperationRef, bool) {
	p := core.OperationGetParentOperation(o.raw)
	if p.IsNull() {
		return OperationRef{}, false
	}
	return OperationRef{raw: p}, true
}

// RemoveFromParent detaches the operation from its block without
// destroying it and returns an owned wrapper the caller must destroy or
// re-insert. Calling this on a detached operation panics.
func (o OperationRef) RemoveFromParent() *Operation {
	core.OperationRemoveFromParent(o.raw)
	return &Operation{OperationRef: o}
}

// MoveBefore relocates the operation immediately before other, which
// must be attached. Ownership moves to other's block.
func (o OperationRef) MoveBefore(other OperationRef) {
	core.OperationMoveBefore(o.raw, other.raw)
}

// MoveAfter relocates the operation immediately after other, which must
// be attached. Ownership moves to other's block.
func (o OperationRef) MoveAfter(other OperationRef) {
	core.OperationMoveAfter(o.raw, other.raw)
}

// NextInParentBlock returns the operation following this one in its
// block; absence at the end.
func (o OperationRef) NextInParentBlock() (OperationRef, bool) {
	n := core.OperationGetNextInBlock(o.raw)
	if n.IsNull() {
		return OperationRef{}, false
	}
	return OperationRef{raw: n}, true
}

// NumOperands returns the operand count.
func (o OperationRef) NumOperands() int { return core.OperationGetNumOperands(o.raw) }

// Operand returns the operand value at idx. Out-of-range indices panic.
func (o OperationRef) Operand(idx int) Value {
	return Value{raw: core.OperationGetOperand(o.raw, idx)}
}

// SetOperand repoints the operand at idx. Out-of-range indices panic.
func (o OperationRef) SetOperand(idx int, v Value) {
	core.OperationSetOperand(o.raw, idx, v.raw)
}

// OpOperand returns the operand edge at idx. Out-of-range indices panic.
func (o OperationRef) OpOperand(idx int) OpOperand {
	return OpOperand{raw: core.OperationGetOpOperand(o.raw, idx)}
}

// NumRegions returns the region count.
func (o OperationRef) NumRegions() int { return core.OperationGetNumRegions(o.raw) }

// Region returns the region at idx. Out-of-range indices panic.
func (o OperationRef) Region(idx int) RegionRef {
	return RegionRef{raw: core.OperationGetRegion(o.raw, idx)}
}

// FirstRegion returns the operation's first region; absence when it has
// none.
func (o OperationRef) FirstRegion() (RegionRef, bool) {
	r := core.OperationGetFirstRegion(o.raw)
	if r.IsNull() {
		return RegionRef{}, false
	}
	return RegionRef{raw: r}, true
}

// NumResults returns the result count.
func (o OperationRef) NumResults() int { return core.OperationGetNumResults(o.raw) }

// Result returns the result value at idx. Out-of-range indices panic.
func (o OperationRef) Result(idx int) Value {
	return Value{raw: core.OperationGetResult(o.raw, idx)}
}

// Inherent attributes are the namespace declared by the operation's
// definition; discardable attributes are everything else. The two
// namespaces are independent: writing one never disturbs the other.

// HasInherentAttribute reports whether the named inherent attribute is
// set.
func (o OperationRef) HasInherentAttribute(name string) bool {
	return core.OperationHasInherentAttributeByName(o.raw, core.StringRefFromString(name))
}

// InherentAttribute returns the named inherent attribute; absence when
// unset.
func (o OperationRef) InherentAttribute(name string) (Attribute, bool) {
	a := core.OperationGetInherentAttributeByName(o.raw, core.StringRefFromString(name))
	if a.IsNull() {
		return Attribute{}, false
	}
	return Attribute{raw: a}, true
}

// SetInherentAttribute sets the named inherent attribute.
func (o OperationRef) SetInherentAttribute(name string, value Attribute) {
	core.OperationSetInherentAttributeByName(o.raw, core.StringRefFromString(name), value.raw)
}

// RemoveInherentAttribute removes the named inherent attribute,
// reporting whether it existed.
func (o OperationRef) RemoveInherentAttribute(name string) bool {
	return core.OperationRemoveInherentAttributeByName(o.raw, core.StringRefFromString(name))
}

// NumDiscardableAttributes returns the discardable attribute count.
func (o OperationRef) NumDiscardableAttributes() int {
	return core.OperationGetNumDiscardableAttributes(o.raw)
}

// DiscardableAttribute returns the discardable attribute at idx in name
// order. Out-of-range indices panic.
func (o OperationRef) DiscardableAttribute(idx int) NamedAttribute {
	return namedAttributeFromRaw(core.OperationGetDiscardableAttribute(o.raw, idx))
}

// DiscardableAttributeByName returns the named discardable attribute;
// absence when unset.
func (o OperationRef) DiscardableAttributeByName(name string) (Attribute, bool) {
	a := core.OperationGetDiscardableAttributeByName(o.raw, core.StringRefFromString(name))
	if a.IsNull() {
		return Attribute{}, false
	}
	return Attribute{raw: a}, true
}

// SetDiscardableAttribute sets the named discardable attribute.
func (o OperationRef) SetDiscardableAttribute(name string, value Attribute) {
	core.OperationSetDiscardableAttributeByName(o.raw, core.StringRefFromString(name), value.raw)
}

// RemoveDiscardableAttribute removes the named discardable attribute,
// reporting whether it existed.
func (o OperationRef) RemoveDiscardableAttribute(name string) bool {
	return core.OperationRemoveDiscardableAttributeByName(o.raw, core.StringRefFromString(name))
}

// NumAttributes returns the size of the combined dictionary. A name
// present in both namespaces counts once.
func (o OperationRef) NumAttributes() int {
	return core.OperationGetNumAttributes(o.raw)
}

// Attribute returns the attribute at idx in name order over the combined
// dictionary. Out-of-range indices panic.
func (o OperationRef) Attribute(idx int) NamedAttribute {
	return namedAttributeFromRaw(core.OperationGetAttribute(o.raw, idx))
}

// AttributeByName returns the named attribute from either namespace,
// inherent first; absence when unset in both.
func (o OperationRef) AttributeByName(name string) (Attribute, bool) {
	a := core.OperationGetAttributeByName(o.raw, core.StringRefFromString(name))
	if a.IsNull() {
		return Attribute{}, false
	}
	return Attribute{raw: a}, true
}

// SetAttribute sets the named attribute, routing to the inherent
// namespace when the operation's definition declares the name.
func (o OperationRef) SetAttribute(name string, value Attribute) {
	core.OperationSetAttributeByName(o.raw, core.StringRefFromString(name), value.raw)
}

// RemoveAttribute removes the named attribute from whichever namespace
// holds it, reporting whether it existed.
func (o OperationRef) RemoveAttribute(name string) bool {
	return core.OperationRemoveAttributeByName(o.raw, core.StringRefFromString(name))
}

func namedAttributeFromRaw(raw core.NamedAttribute) NamedAttribute {
	return NamedAttribute{
		Name:      Identifier{raw: raw.Name},
		Attribute: Attribute{raw: raw.Attribute},
	}
}

// WalkOrder selects the traversal order of Walk.
type WalkOrder = core.WalkOrder

const (
	// WalkPreOrder visits an operation before the operations it contains.
	WalkPreOrder = core.WalkPreOrder
	// WalkPostOrder visits an operation after the operations it contains.
	WalkPostOrder = core.WalkPostOrder
)

// Walk visits the operation and every operation nested inside it.
func (o OperationRef) Walk(fn func(OperationRef), order WalkOrder) {
	core.OperationWalk(o.raw, func(op core.Operation) {
		fn(OperationRef{raw: op})
	}, order)
}

func (o OperationRef) String() string {
	return bridge.String(func(cb core.StringCallback, ud uintptr) {
		core.OperationPrint(o.raw, cb, ud)
	})
}

// Operation owns a detached operation. Inserting it into a block
// transfers ownership and poisons Destroy.
type Operation struct {
	OperationRef
	transferred bool
	destroyed   bool
}

// ParseOperation parses one top-level operation from source. The engine
// insists on a NUL-terminated source buffer; the wrapper appends the
// terminator, so callers pass ordinary strings. Malformed input is
// absence, not an error.
func ParseOperation(ctx Context, source, sourceFilename string) (*Operation, bool) {
	op := core.OperationCreateParse(ctx.Raw(), terminatedRef(source),
		core.StringRefFromString(sourceFilename))
	if op.IsNull() {
		return nil, false
	}
	return &Operation{OperationRef: OperationRef{raw: op}}, true
}

// terminatedRef copies source into a buffer with a trailing NUL and
// returns a view excluding the terminator, satisfying the engine's
// parser contract.
func terminatedRef(source string) core.StringRef {
	buf := make([]byte, len(source)+1)
	copy(buf, source)
	return core.StringRefFromCString(buf)
}

// OperationFromRaw assumes ownership of a raw operation handle the
// caller attests is valid, detached, and unowned.
func OperationFromRaw(raw core.Operation) *Operation {
	return &Operation{OperationRef: OperationRef{raw: raw}}
}

// OperationTryFromRaw is OperationFromRaw with absence reporting for the
// null handle.
func OperationTryFromRaw(raw core.Operation) (*Operation, bool) {
	if raw.IsNull() {
		return nil, false
	}
	return OperationFromRaw(raw), true
}

// Ref returns the borrowed view of the operation. Borrowing from a
// destroyed or transferred owner panics.
func (o *Operation) Ref() OperationRef {
	if o.destroyed {
		panic("ir: operation used after destroy")
	}
	if o.transferred {
		panic("ir: operation used after ownership transfer")
	}
	return o.OperationRef
}

// Destroy releases the operation and everything it owns. Destroying
// twice, or after ownership was transferred into a block, panics.
func (o *Operation) Destroy() {
	o.release()
	core.OperationDestroy(o.raw)
}

// release marks the wrapper spent, for Destroy and for ownership
// transfer into containers.
func (o *Operation) release() {
	if o.destroyed {
		panic("ir: operation destroyed twice")
	}
	if o.transferred {
		panic("ir: operation used after ownership transfer")
	}
	o.destroyed = true
}

func (o *Operation) transfer() core.Operation {
	if o.destroyed {
		panic("ir: operation used after destroy")
	}
	if o.transferred {
		panic("ir: operation used after ownership transfer")
	}
	o.transferred = true
	return o.raw
}
