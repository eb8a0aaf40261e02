package ir

import "github.com/arbor-ir/arbor/internal/core"

// RegionRef is a borrowed view of a region.
type RegionRef struct {
	raw core.Region
}

// RegionRefFromRaw wraps a raw region handle the caller attests is
// valid.
func RegionRefFromRaw(raw core.Region) RegionRef { return RegionRef{raw: raw} }

// RegionRefTryFromRaw wraps a raw region handle, reporting absence for
// the null handle.
func RegionRefTryFromRaw(raw core.Region) (RegionRef, bool) {
	if raw.IsNull() {
		return RegionRef{}, false
	}
	return RegionRef{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (r RegionRef) Raw() core.Region { return r.raw }

// FirstBlock returns the region's first block; absence when the region
// is empty.
func (r RegionRef) FirstBlock() (BlockRef, bool) {
	b := core.RegionGetFirstBlock(r.raw)
	if b.IsNull() {
		return BlockRef{}, false
	}
	return BlockRef{raw: b}, true
}

// AppendBlock appends the owned block to the region, which takes
// ownership. The block wrapper is spent afterwards.
func (r RegionRef) AppendBlock(b *Block) BlockRef {
	raw := b.transfer()
	core.RegionAppendOwnedBlock(r.raw, raw)
	return BlockRef{raw: raw}
}

// Region owns a detached region. Handing it to an operation builder
// transfers ownership and poisons Destroy.
type Region struct {
	RegionRef
	transferred bool
	destroyed   bool
}

// NewRegion creates an empty detached region.
func NewRegion() *Region {
	return &Region{RegionRef: RegionRef{raw: core.RegionCreate()}}
}

// RegionFromRaw assumes ownership of a raw region handle the caller
// attests is valid, detached, and unowned.
func RegionFromRaw(raw core.Region) *Region {
	return &Region{RegionRef: RegionRef{raw: raw}}
}

// RegionTryFromRaw is RegionFromRaw with absence reporting for the null
// handle.
func RegionTryFromRaw(raw core.Region) (*Region, bool) {
	if raw.IsNull() {
		return nil, false
	}
	return RegionFromRaw(raw), true
}

// Ref returns the borrowed view of the region. Borrowing from a
// destroyed or transferred owner panics.
func (r *Region) Ref() RegionRef {
	if r.destroyed {
		panic("ir: region used after destroy")
	}
	if r.transferred {
		panic("ir: region used after ownership transfer")
	}
	return r.RegionRef
}

// Destroy releases the region and the blocks it owns. Destroying twice,
// or after ownership was transferred, panics.
func (r *Region) Destroy() {
	if r.destroyed {
		panic("ir: region destroyed twice")
	}
	if r.transferred {
		panic("ir: region used after ownership transfer")
	}
	r.destroyed = true
	core.RegionDestroy(r.raw)
}

func (r *Region) transfer() core.Region {
	if r.destroyed {
		panic("ir: region used after destroy")
	}
	if r.transferred {
		panic("ir: region used after ownership transfer")
	}
	r.transferred = true
	return r.raw
}
