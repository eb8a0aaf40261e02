package core

import (
	"fmt"
	"sort"
)

type operationImpl struct {
	ctx  *contextImpl
	name *identImpl
	def  *opDefinition // nil for unregistered operations
	loc  *locImpl

	operands []*opOperandImpl
	results  []*valueImpl
	regions  []*regionImpl

	inherent    map[string]*attrImpl
	discardable map[string]*attrImpl

	block      *blockImpl
	prev, next *operationImpl

	destroyed bool
}

type regionImpl struct {
	owner                 *operationImpl
	firstBlock, lastBlock *blockImpl
	destroyed             bool
}

type blockImpl struct {
	region     *regionImpl
	prev, next *blockImpl

	args            []*valueImpl
	firstOp, lastOp *operationImpl

	destroyed bool
}

type valueImpl struct {
	typ *typeImpl

	// exactly one of defOp/defBlock is set
	defOp    *operationImpl
	defBlock *blockImpl
	index    int

	firstUse *opOperandImpl
}

type opOperandImpl struct {
	owner *operationImpl
	index int
	value *valueImpl

	// intrusive doubly linked use list, newest use first
	nextUse *opOperandImpl
	prevUse *opOperandImpl
}

func (op *operationImpl) check() {
	if op.destroyed {
		panic("core: use of destroyed operation")
	}
}

// use-list maintenance

func (u *opOperandImpl) link() {
	v := u.value
	u.prevUse = nil
	u.nextUse = v.firstUse
	if v.firstUse != nil {
		v.firstUse.prevUse = u
	}
	v.firstUse = u
}

func (u *opOperandImpl) unlink() {
	if u.prevUse != nil {
		u.prevUse.nextUse = u.nextUse
	} else {
		u.value.firstUse = u.nextUse
	}
	if u.nextUse != nil {
		u.nextUse.prevUse = u.prevUse
	}
	u.nextUse, u.prevUse = nil, nil
}

// operation construction

// OperationCreate performs the single construction call for a builder
// state. Returns the null handle when the operation name belongs to an
// unregistered dialect and the context does not tolerate those, or when
// requested result type inference fails. Regions added to the state have
// their ownership transferred to the new operation.
func OperationCreate(state *OperationState) Operation {
	ctx := state.ctx
	ctx.check()
	full := state.name
	def := ctx.lookupOpDefinition(full)
	if def == nil && !ctx.allowUnregistered {
		return Operation{}
	}

	resultTypes := make([]*typeImpl, 0, len(state.results))
	for _, t := range state.results {
		resultTypes = append(resultTypes, t.p)
	}
	if state.inferTypes {
		if def == nil || def.inferResults == nil {
			return Operation{}
		}
		inferred, ok := def.inferResults(state)
		if !ok {
			return Operation{}
		}
		resultTypes = inferred
	}

	op := &operationImpl{
		ctx:         ctx,
		name:        IdentifierGet(Context{p: ctx}, StringRefFromString(full)).p,
		def:         def,
		loc:         state.location.p,
		inherent:    map[string]*attrImpl{},
		discardable: map[string]*attrImpl{},
	}
	for i, operand := range state.operands {
		u := &opOperandImpl{owner: op, index: i, value: operand.p}
		u.link()
		op.operands = append(op.operands, u)
	}
	for i, t := range resultTypes {
		op.results = append(op.results, &valueImpl{typ: t, defOp: op, index: i})
	}
	for _, r := range state.regions {
		r.p.owner = op
		op.regions = append(op.regions, r.p)
	}
	for _, na := range state.attributes {
		op.setAttrRouted(na.Name.p.value, na.Attribute.p)
	}
	return Operation{p: op}
}

// setAttrRouted places an attribute in the inherent map when the
// operation's definition declares the name, and in the discardable map
// otherwise. Unregistered operations only have discardable attributes.
func (op *operationImpl) setAttrRouted(name string, a *attrImpl) {
	if op.def != nil && op.def.isInherent(name) {
		op.inherent[name] = a
		return
	}
	op.discardable[name] = a
}

// OperationClone deep-copies an operation, producing a fresh detached
// operation the caller owns. Operand links point at the original values.
func OperationClone(op Operation) Operation {
	op.p.check()
	return Operation{p: op.p.clone()}
}

func (op *operationImpl) clone() *operationImpl {
	dup := &operationImpl{
		ctx:         op.ctx,
		name:        op.name,
		def:         op.def,
		loc:         op.loc,
		inherent:    map[string]*attrImpl{},
		discardable: map[string]*attrImpl{},
	}
	for k, v := range op.inherent {
		dup.inherent[k] = v
	}
	for k, v := range op.discardable {
		dup.discardable[k] = v
	}
	for i, u := range op.operands {
		du := &opOperandImpl{owner: dup, index: i, value: u.value}
		du.link()
		dup.operands = append(dup.operands, du)
	}
	for i, r := range op.results {
		dup.results = append(dup.results, &valueImpl{typ: r.typ, defOp: dup, index: i})
	}
	for _, r := range op.regions {
		dr := &regionImpl{owner: dup}
		for b := r.firstBlock; b != nil; b = b.next {
			db := &blockImpl{}
			for _, arg := range b.args {
				db.args = append(db.args, &valueImpl{typ: arg.typ, defBlock: db, index: len(db.args)})
			}
			appendBlock(dr, db)
			for o := b.firstOp; o != nil; o = o.next {
				appendOperation(db, o.clone())
			}
		}
		dup.regions = append(dup.regions, dr)
	}
	return dup
}

// OperationDestroy releases a detached operation and, recursively,
// everything it owns. Destroying an operation still attached to a block
// is a programming error.
func OperationDestroy(op Operation) {
	if op.p.destroyed {
		panic("core: operation destroyed twice")
	}
	if op.p.block != nil {
		panic("core: destroying an operation that is still attached to a block")
	}
	op.p.destroy()
}

func (op *operationImpl) destroy() {
	for _, u := range op.operands {
		u.unlink()
	}
	for _, r := range op.regions {
		r.destroyBlocks()
		r.destroyed = true
	}
	op.destroyed = true
}

// OperationEqual compares operation identity.
func OperationEqual(a, b Operation) bool { return a.p == b.p }

// OperationGetContext returns the operation's owning context.
func OperationGetContext(op Operation) Context { return Context{p: op.p.ctx} }

// OperationGetName returns the operation's fully-qualified name.
func OperationGetName(op Operation) Identifier { return Identifier{p: op.p.name} }

// OperationGetLocation returns the operation's source location.
func OperationGetLocation(op Operation) Location { return Location{p: op.p.loc} }

// OperationSetLocation replaces the operation's source location.
func OperationSetLocation(op Operation, loc Location) { op.p.loc = loc.p }

// OperationGetBlock returns the block the operation is attached to, or
// the null handle for a detached operation.
func OperationGetBlock(op Operation) Block { return Block{p: op.p.block} }

// OperationGetParentOperation returns the operation owning the region the
// operation lives in, or the null handle at the root.
func OperationGetParentOperation(op Operation) Operation {
	if op.p.block == nil || op.p.block.region == nil {
		return Operation{}
	}
	return Operation{p: op.p.block.region.owner}
}

// OperationRemoveFromParent detaches the operation from its block without
// destroying it. The caller becomes responsible for the operation again.
func OperationRemoveFromParent(op Operation) {
	op.p.check()
	b := op.p.block
	if b == nil {
		panic("core: removing an operation that has no parent")
	}
	unlinkOperation(b, op.p)
}

// OperationMoveBefore relocates an operation immediately before other,
// which must be attached. Ownership moves to other's block.
func OperationMoveBefore(op, other Operation) {
	op.p.check()
	target := other.p.block
	if target == nil {
		panic("core: moving an operation before a detached operation")
	}
	if op.p.block != nil {
		unlinkOperation(op.p.block, op.p)
	}
	insertBefore(target, other.p, op.p)
}

// OperationMoveAfter relocates an operation immediately after other,
// which must be attached. Ownership moves to other's block.
func OperationMoveAfter(op, other Operation) {
	op.p.check()
	target := other.p.block
	if target == nil {
		panic("core: moving an operation after a detached operation")
	}
	if op.p.block != nil {
		unlinkOperation(op.p.block, op.p)
	}
	insertAfter(target, other.p, op.p)
}

// OperationGetNextInBlock returns the operation following this one in its
// block, or the null handle at the end.
func OperationGetNextInBlock(op Operation) Operation { return Operation{p: op.p.next} }

// OperationGetNumOperands returns the operand count.
func OperationGetNumOperands(op Operation) int { return len(op.p.operands) }

// OperationGetOperand returns the operand value at idx.
func OperationGetOperand(op Operation, idx int) Value {
	checkIndex("operand", idx, len(op.p.operands))
	return Value{p: op.p.operands[idx].value}
}

// OperationSetOperand repoints the operand at idx to a new value,
// maintaining both use lists.
func OperationSetOperand(op Operation, idx int, value Value) {
	checkIndex("operand", idx, len(op.p.operands))
	u := op.p.operands[idx]
	u.unlink()
	u.value = value.p
	u.link()
}

// OperationGetOpOperand returns the operand edge at idx.
func OperationGetOpOperand(op Operation, idx int) OpOperand {
	checkIndex("operand", idx, len(op.p.operands))
	return OpOperand{p: op.p.operands[idx]}
}

// OperationGetNumRegions returns the region count.
func OperationGetNumRegions(op Operation) int { return len(op.p.regions) }

// OperationGetRegion returns the region at idx.
func OperationGetRegion(op Operation, idx int) Region {
	checkIndex("region", idx, len(op.p.regions))
	return Region{p: op.p.regions[idx]}
}

// OperationGetFirstRegion returns the first region, or the null handle.
func OperationGetFirstRegion(op Operation) Region {
	if len(op.p.regions) == 0 {
		return Region{}
	}
	return Region{p: op.p.regions[0]}
}

// OperationGetNumResults returns the result count.
func OperationGetNumResults(op Operation) int { return len(op.p.results) }

// OperationGetResult returns the result value at idx.
func OperationGetResult(op Operation, idx int) Value {
	checkIndex("result", idx, len(op.p.results))
	return Value{p: op.p.results[idx]}
}

// inherent attribute namespace

// OperationHasInherentAttributeByName reports whether the inherent
// attribute exists.
func OperationHasInherentAttributeByName(op Operation, name StringRef) bool {
	_, ok := op.p.inherent[name.String()]
	return ok
}

// OperationGetInherentAttributeByName returns the inherent attribute, or
// the null handle.
func OperationGetInherentAttributeByName(op Operation, name StringRef) Attribute {
	return Attribute{p: op.p.inherent[name.String()]}
}

// OperationSetInherentAttributeByName sets an inherent attribute.
func OperationSetInherentAttributeByName(op Operation, name StringRef, value Attribute) {
	op.p.inherent[name.String()] = value.p
}

// OperationRemoveInherentAttributeByName removes an inherent attribute,
// reporting whether it existed.
func OperationRemoveInherentAttributeByName(op Operation, name StringRef) bool {
	s := name.String()
	_, ok := op.p.inherent[s]
	delete(op.p.inherent, s)
	return ok
}

// discardable attribute namespace

// OperationGetNumDiscardableAttributes returns the discardable attribute
// count.
func OperationGetNumDiscardableAttributes(op Operation) int { return len(op.p.discardable) }

// OperationGetDiscardableAttribute returns the discardable attribute at
// idx in name order.
func OperationGetDiscardableAttribute(op Operation, idx int) NamedAttribute {
	names := sortedKeys(op.p.discardable)
	checkIndex("discardable attribute", idx, len(names))
	return op.p.namedAttr(names[idx], op.p.discardable[names[idx]])
}

// OperationGetDiscardableAttributeByName returns the discardable
// attribute, or the null handle.
func OperationGetDiscardableAttributeByName(op Operation, name StringRef) Attribute {
	return Attribute{p: op.p.discardable[name.String()]}
}

// OperationSetDiscardableAttributeByName sets a discardable attribute.
func OperationSetDiscardableAttributeByName(op Operation, name StringRef, value Attribute) {
	op.p.discardable[name.String()] = value.p
}

// OperationRemoveDiscardableAttributeByName removes a discardable
// attribute, reporting whether it existed.
func OperationRemoveDiscardableAttributeByName(op Operation, name StringRef) bool {
	s := name.String()
	_, ok := op.p.discardable[s]
	delete(op.p.discardable, s)
	return ok
}

// combined attribute dictionary

// OperationGetNumAttributes returns the size of the combined dictionary.
// A name present in both namespaces counts once; the inherent entry is
// the one the combined view surfaces.
func OperationGetNumAttributes(op Operation) int {
	names, _ := op.p.combinedAttrs()
	return len(names)
}

// OperationGetAttribute returns the attribute at idx in name order over
// the combined dictionary.
func OperationGetAttribute(op Operation, idx int) NamedAttribute {
	names, lookup := op.p.combinedAttrs()
	checkIndex("attribute", idx, len(names))
	return op.p.namedAttr(names[idx], lookup[names[idx]])
}

// OperationGetAttributeByName returns the attribute from either
// namespace, inherent first, or the null handle.
func OperationGetAttributeByName(op Operation, name StringRef) Attribute {
	s := name.String()
	if a, ok := op.p.inherent[s]; ok {
		return Attribute{p: a}
	}
	return Attribute{p: op.p.discardable[s]}
}

// OperationSetAttributeByName routes the attribute to the inherent
// namespace when the operation's definition declares the name, and to
// the discardable namespace otherwise.
func OperationSetAttributeByName(op Operation, name StringRef, value Attribute) {
	op.p.setAttrRouted(name.String(), value.p)
}

// OperationRemoveAttributeByName removes the attribute from whichever
// namespace holds it, reporting whether it existed.
func OperationRemoveAttributeByName(op Operation, name StringRef) bool {
	s := name.String()
	if _, ok := op.p.inherent[s]; ok {
		delete(op.p.inherent, s)
		return true
	}
	if _, ok := op.p.discardable[s]; ok {
		delete(op.p.discardable, s)
		return true
	}
	return false
}

func (op *operationImpl) combinedAttrs() ([]string, map[string]*attrImpl) {
	lookup := make(map[string]*attrImpl, len(op.inherent)+len(op.discardable))
	for k, v := range op.inherent {
		lookup[k] = v
	}
	for k, v := range op.discardable {
		if _, ok := lookup[k]; !ok {
			lookup[k] = v
		}
	}
	return sortedKeys(lookup), lookup
}

func (op *operationImpl) namedAttr(name string, a *attrImpl) NamedAttribute {
	return NamedAttribute{
		Name:      IdentifierGet(Context{p: op.ctx}, StringRefFromString(name)),
		Attribute: Attribute{p: a},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WalkOrder selects the traversal order of OperationWalk.
type WalkOrder int

const (
	// WalkPreOrder visits an operation before the operations it contains.
	WalkPreOrder WalkOrder = iota
	// WalkPostOrder visits an operation after the operations it contains.
	WalkPostOrder
)

// OperationWalk visits the operation and every operation nested inside
// it in the given order.
func OperationWalk(op Operation, fn func(Operation), order WalkOrder) {
	op.p.walk(func(o *operationImpl) { fn(Operation{p: o}) }, order)
}

func (op *operationImpl) walk(fn func(*operationImpl), order WalkOrder) {
	if order == WalkPreOrder {
		fn(op)
	}
	for _, r := range op.regions {
		for b := r.firstBlock; b != nil; b = b.next {
			for o := b.firstOp; o != nil; {
				next := o.next // fn may detach or destroy o
				o.walk(fn, order)
				o = next
			}
		}
	}
	if order == WalkPostOrder {
		fn(op)
	}
}

// regions

// RegionCreate creates an empty detached region.
func RegionCreate() Region { return Region{p: &regionImpl{}} }

// RegionDestroy releases a detached region and the blocks it owns.
func RegionDestroy(r Region) {
	if r.p.destroyed {
		panic("core: region destroyed twice")
	}
	if r.p.owner != nil {
		panic("core: destroying a region owned by an operation")
	}
	r.p.destroyBlocks()
	r.p.destroyed = true
}

func (r *regionImpl) destroyBlocks() {
	for b := r.firstBlock; b != nil; b = b.next {
		for o := b.firstOp; o != nil; o = o.next {
			o.destroy()
		}
		b.destroyed = true
	}
	r.firstBlock, r.lastBlock = nil, nil
}

// RegionEqual reports whether two handles refer to the same region.
func RegionEqual(a, b Region) bool { return a.p == b.p }

// RegionGetFirstBlock returns the region's first block, or the null
// handle.
func RegionGetFirstBlock(r Region) Block { return Block{p: r.p.firstBlock} }

// RegionAppendOwnedBlock appends a detached block to the region, which
// takes ownership.
func RegionAppendOwnedBlock(r Region, b Block) {
	if b.p.region != nil {
		panic("core: appending a block that already has a parent region")
	}
	appendBlock(r.p, b.p)
}

func appendBlock(r *regionImpl, b *blockImpl) {
	b.region = r
	b.prev = r.lastBlock
	b.next = nil
	if r.lastBlock != nil {
		r.lastBlock.next = b
	} else {
		r.firstBlock = b
	}
	r.lastBlock = b
}

// blocks

// BlockCreate creates a detached block with the given typed arguments.
// args and locs must have equal length; locations are currently recorded
// per block argument only for parity with the construction convention.
func BlockCreate(args []Type, locs []Location) Block {
	if len(args) != len(locs) {
		panic("core: block argument types and locations differ in length")
	}
	b := &blockImpl{}
	for i, t := range args {
		b.args = append(b.args, &valueImpl{typ: t.p, defBlock: b, index: i})
	}
	return Block{p: b}
}

// BlockDestroy releases a detached block and the operations it owns.
func BlockDestroy(b Block) {
	if b.p.destroyed {
		panic("core: block destroyed twice")
	}
	if b.p.region != nil {
		panic("core: destroying a block owned by a region")
	}
	for o := b.p.firstOp; o != nil; o = o.next {
		o.destroy()
	}
	b.p.destroyed = true
}

// BlockEqual compares block identity.
func BlockEqual(a, b Block) bool { return a.p == b.p }

// BlockGetParentRegion returns the region owning the block, or the null
// handle for a detached block.
func BlockGetParentRegion(b Block) Region { return Region{p: b.p.region} }

// BlockGetParentOperation returns the operation owning the block's
// region, or the null handle.
func BlockGetParentOperation(b Block) Operation {
	if b.p.region == nil {
		return Operation{}
	}
	return Operation{p: b.p.region.owner}
}

// BlockGetNextInRegion returns the block following this one, or the null
// handle.
func BlockGetNextInRegion(b Block) Block { return Block{p: b.p.next} }

// BlockGetNumArguments returns the block's argument count.
func BlockGetNumArguments(b Block) int { return len(b.p.args) }

// BlockGetArgument returns the block argument at idx.
func BlockGetArgument(b Block, idx int) Value {
	checkIndex("block argument", idx, len(b.p.args))
	return Value{p: b.p.args[idx]}
}

// BlockGetFirstOperation returns the block's first operation, or the
// null handle.
func BlockGetFirstOperation(b Block) Operation { return Operation{p: b.p.firstOp} }

// BlockGetTerminator returns the block's last operation, or the null
// handle for an empty block.
func BlockGetTerminator(b Block) Operation { return Operation{p: b.p.lastOp} }

// BlockAppendOwnedOperation appends a detached operation to the block,
// which takes ownership.
func BlockAppendOwnedOperation(b Block, op Operation) {
	op.p.check()
	if op.p.block != nil {
		panic("core: appending an operation that already has a parent block")
	}
	appendOperation(b.p, op.p)
}

// BlockInsertOwnedOperationBefore inserts a detached operation before ref
// in the block, which takes ownership.
func BlockInsertOwnedOperationBefore(b Block, ref, op Operation) {
	op.p.check()
	if op.p.block != nil {
		panic("core: inserting an operation that already has a parent block")
	}
	if ref.p.block != b.p {
		panic("core: insertion reference is not in the target block")
	}
	insertBefore(b.p, ref.p, op.p)
}

func appendOperation(b *blockImpl, op *operationImpl) {
	op.block = b
	op.prev = b.lastOp
	op.next = nil
	if b.lastOp != nil {
		b.lastOp.next = op
	} else {
		b.firstOp = op
	}
	b.lastOp = op
}

func insertBefore(b *blockImpl, ref, op *operationImpl) {
	op.block = b
	op.next = ref
	op.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = op
	} else {
		b.firstOp = op
	}
	ref.prev = op
}

func insertAfter(b *blockImpl, ref, op *operationImpl) {
	op.block = b
	op.prev = ref
	op.next = ref.next
	if ref.next != nil {
		ref.next.prev = op
	} else {
		b.lastOp = op
	}
	ref.next = op
}

func unlinkOperation(b *blockImpl, op *operationImpl) {
	if op.prev != nil {
		op.prev.next = op.next
	} else {
		b.firstOp = op.next
	}
	if op.next != nil {
		op.next.prev = op.prev
	} else {
		b.lastOp = op.prev
	}
	op.prev, op.next = nil, nil
	op.block = nil
}

// values

// ValueGetType returns the value's type.
func ValueGetType(v Value) Type { return Type{p: v.p.typ} }

// ValueSetType replaces the value's type.
func ValueSetType(v Value, t Type) { v.p.typ = t.p }

// ValueIsABlockArgument reports whether the value is a block argument.
func ValueIsABlockArgument(v Value) bool { return v.p.defBlock != nil }

// ValueIsAOpResult reports whether the value is an operation result.
func ValueIsAOpResult(v Value) bool { return v.p.defOp != nil }

// ValueEqual compares value identity.
func ValueEqual(a, b Value) bool { return a.p == b.p }

// ValueGetFirstUse returns the head of the value's use list, which is
// the most recently added use, or the null handle when the value is
// unused.
func ValueGetFirstUse(v Value) OpOperand { return OpOperand{p: v.p.firstUse} }

// op operands

// OpOperandGetValue returns the value the operand points at.
func OpOperandGetValue(o OpOperand) Value { return Value{p: o.p.value} }

// OpOperandGetOwner returns the operation holding the operand position.
func OpOperandGetOwner(o OpOperand) Operation { return Operation{p: o.p.owner} }

// OpOperandGetOperandNumber returns the operand's position on its owner.
func OpOperandGetOperandNumber(o OpOperand) int { return o.p.index }

// OpOperandGetNextUse returns the next use in the value's use list, or
// the null handle at the end of the chain.
func OpOperandGetNextUse(o OpOperand) OpOperand { return OpOperand{p: o.p.nextUse} }

func checkIndex(what string, idx, n int) {
	if idx < 0 || idx >= n {
		panic(fmt.Sprintf("core: %s index %d out of bounds (%d present)", what, idx, n))
	}
}
