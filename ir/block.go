package ir

import "github.com/arbor-ir/arbor/internal/core"

// BlockRef is a borrowed view of a block.
type BlockRef struct {
	raw core.Block
}

// BlockRefFromRaw wraps a raw block handle the caller attests is valid.
func BlockRefFromRaw(raw core.Block) BlockRef { return BlockRef{raw: raw} }

// BlockRefTryFromRaw wraps a raw block handle, reporting absence for the
// null handle.
func BlockRefTryFromRaw(raw core.Block) (BlockRef, bool) {
	if raw.IsNull() {
		return BlockRef{}, false
	}
	return BlockRef{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (b BlockRef) Raw() core.Block { return b.raw }

// Equal reports block identity.
func (b BlockRef) Equal(other BlockRef) bool {
	return core.BlockEqual(b.raw, other.raw)
}

// ParentRegion returns the region owning the block; absence for a
// detached block.
func (b BlockRef) ParentRegion() (RegionRef, bool) {
	r := core.BlockGetParentRegion(b.raw)
	if r.IsNull() {
		return RegionRef{}, false
	}
	return RegionRef{raw: r}, true
}

// ParentOperation returns the operation owning the block's region;
// absence for a detached block.
func (b BlockRef) ParentOperation() (OperationRef, bool) {
	op := core.BlockGetParentOperation(b.raw)
	if op.IsNull() {
		return OperationRef{}, false
	}
	return OperationRef{raw: op}, true
}

// NextInRegion returns the block following this one; absence at the end.
func (b BlockRef) NextInRegion() (BlockRef, bool) {
	n := core.BlockGetNextInRegion(b.raw)
	if n.IsNull() {
		return BlockRef{}, false
	}
	return BlockRef{raw: n}, true
}

// NumArguments returns the block's argument count.
func (b BlockRef) NumArguments() int { return core.BlockGetNumArguments(b.raw) }

// Argument returns the block argument at idx. Out-of-range indices
// panic.
func (b BlockRef) Argument(idx int) Value {
	return Value{raw: core.BlockGetArgument(b.raw, idx)}
}

// FirstOperation returns the block's first operation; absence when the
// block is empty.
func (b BlockRef) FirstOperation() (OperationRef, bool) {
	op := core.BlockGetFirstOperation(b.raw)
	if op.IsNull() {
		return OperationRef{}, false
	}
	return OperationRef{raw: op}, true
}

// AppendOperation appends the owned operation to the block, which takes
// ownership. The operation wrapper is spent afterwards; the returned
// borrowed view stays valid while the block holds the operation.
func (b BlockRef) AppendOperation(op *Operation) OperationRef {
	raw := op.transfer()
	core.BlockAppendOwnedOperation(b.raw, raw)
	return OperationRef{raw: raw}
}

// InsertOperationBefore inserts the owned operation before ref, which
// must be in this block. Ownership transfers to the block.
func (b BlockRef) InsertOperationBefore(ref OperationRef, op *Operation) OperationRef {
	raw := op.transfer()
	core.BlockInsertOwnedOperationBefore(b.raw, ref.raw, raw)
	return OperationRef{raw: raw}
}

// Block owns a detached block. Appending it to a region transfers
// ownership and poisons Destroy.
type Block struct {
	BlockRef
	transferred bool
	destroyed   bool
}

// NewBlock creates a detached block whose arguments have the given types
// and locations. The two slices must have equal length.
func NewBlock(argTypes []Type, argLocs []Location) *Block {
	rawTypes := make([]core.Type, len(argTypes))
	for i, t := range argTypes {
		rawTypes[i] = t.raw
	}
	rawLocs := make([]core.Location, len(argLocs))
	for i, l := range argLocs {
		rawLocs[i] = l.raw
	}
	return &Block{BlockRef: BlockRef{raw: core.BlockCreate(rawTypes, rawLocs)}}
}

// BlockFromRaw assumes ownership of a raw block handle the caller
// attests is valid, detached, and unowned.
func BlockFromRaw(raw core.Block) *Block {
	return &Block{BlockRef: BlockRef{raw: raw}}
}

// BlockTryFromRaw is BlockFromRaw with absence reporting for the null
// handle.
func BlockTryFromRaw(raw core.Block) (*Block, bool) {
	if raw.IsNull() {
		return nil, false
	}
	return BlockFromRaw(raw), true
}

// Ref returns the borrowed view of the block. Borrowing from a
// destroyed or transferred owner panics.
func (b *Block) Ref() BlockRef {
	if b.destroyed {
		panic("ir: block used after destroy")
	}
	if b.transferred {
		panic("ir: block used after ownership transfer")
	}
	return b.BlockRef
}

// Destroy releases the block and the operations it owns. Destroying
// twice, or after ownership was transferred, panics.
func (b *Block) Destroy() {
	if b.destroyed {
		panic("ir: block destroyed twice")
	}
	if b.transferred {
		panic("ir: block used after ownership transfer")
	}
	b.destroyed = true
	core.BlockDestroy(b.raw)
}

func (b *Block) transfer() core.Block {
	if b.destroyed {
		panic("ir: block used after destroy")
	}
	if b.transferred {
		panic("ir: block used after ownership transfer")
	}
	b.transferred = true
	return b.raw
}
