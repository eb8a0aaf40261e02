package ir

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/bridge"
	"github.com/arbor-ir/arbor/internal/core"
)

// Location is a borrowed view of an interned source location.
type Location struct {
	raw core.Location
}

// NewUnknownLocation returns the unknown location.
func NewUnknownLocation(ctx Context) Location {
	return Location{raw: core.LocationUnknownGet(ctx.Raw())}
}

// NewFileLineColLocation returns a file/line/column location.
func NewFileLineColLocation(ctx Context, filename string, line, col int) Location {
	return Location{raw: core.LocationFileLineColGet(ctx.Raw(), core.StringRefFromString(filename), line, col)}
}

// NewCallSiteLocation returns a location naming callee as invoked from
// caller.
func NewCallSiteLocation(callee, caller Location) Location {
	return Location{raw: core.LocationCallSiteGet(callee.raw, caller.raw)}
}

// NewFusedLocation returns a location fusing a set of locations under an
// optional metadata attribute.
func NewFusedLocation(ctx Context, locations []Location, metadata Attribute) Location {
	raws := make([]core.Location, len(locations))
	for i, l := range locations {
		raws[i] = l.raw
	}
	return Location{raw: core.LocationFusedGet(ctx.Raw(), raws, metadata.raw)}
}

// NewNamedLocation returns a location labeling a child location with a
// name. Pass the zero Location for a nameless child.
func NewNamedLocation(ctx Context, name string, child Location) Location {
	return Location{raw: core.LocationNameGet(ctx.Raw(), core.StringRefFromString(name), child.raw)}
}

// LocationFromRaw wraps a raw location handle the caller attests is
// valid.
func LocationFromRaw(raw core.Location) Location { return Location{raw: raw} }

// LocationTryFromRaw wraps a raw location handle, reporting absence for
// the null handle.
func LocationTryFromRaw(raw core.Location) (Location, bool) {
	if raw.IsNull() {
		return Location{}, false
	}
	return Location{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (l Location) Raw() core.Location { return l.raw }

// Context returns the context the location is interned in.
func (l Location) Context() arbor.ContextRef {
	return arbor.ContextRefFromRaw(core.LocationGetContext(l.raw))
}

// Equal reports location equality. Interning makes identity comparison
// exact structural equality.
func (l Location) Equal(other Location) bool {
	return core.LocationEqual(l.raw, other.raw)
}

func (l Location) String() string {
	return bridge.String(func(cb core.StringCallback, ud uintptr) {
		core.LocationPrint(l.raw, cb, ud)
	})
}
