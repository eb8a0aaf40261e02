package core

import (
	"fmt"
	"strconv"
	"strings"
)

type locKind int

const (
	locUnknown locKind = iota
	locFileLineCol
	locCallSite
	locFused
	locName
)

type locImpl struct {
	ctx  *contextImpl
	kind locKind

	file      string
	line, col int

	callee, caller *locImpl

	fused    []*locImpl
	metadata *attrImpl

	name  string
	child *locImpl

	// canonical print form (without the outer loc(...) wrapper); doubles
	// as the interning key
	spelling string
}

func (ctx *contextImpl) internLoc(l *locImpl) *locImpl {
	ctx.check()
	if existing, ok := ctx.locs[l.spelling]; ok {
		return existing
	}
	ctx.locs[l.spelling] = l
	return l
}

func (ctx *contextImpl) unknownLoc() *locImpl {
	return ctx.internLoc(&locImpl{ctx: ctx, kind: locUnknown, spelling: "unknown"})
}

func (ctx *contextImpl) fileLineColLoc(file string, line, col int) *locImpl {
	return ctx.internLoc(&locImpl{
		ctx: ctx, kind: locFileLineCol, file: file, line: line, col: col,
		spelling: fmt.Sprintf("%s:%d:%d", strconv.Quote(file), line, col),
	})
}

func (ctx *contextImpl) callSiteLoc(callee, caller *locImpl) *locImpl {
	return ctx.internLoc(&locImpl{
		ctx: ctx, kind: locCallSite, callee: callee, caller: caller,
		spelling: fmt.Sprintf("callsite(%s at %s)", callee.spelling, caller.spelling),
	})
}

func (ctx *contextImpl) fusedLoc(locations []*locImpl, metadata *attrImpl) *locImpl {
	parts := make([]string, len(locations))
	for i, l := range locations {
		parts[i] = l.spelling
	}
	spelling := "fused"
	if metadata != nil {
		spelling += "<" + metadata.spelling + ">"
	}
	spelling += "[" + strings.Join(parts, ", ") + "]"
	return ctx.internLoc(&locImpl{
		ctx: ctx, kind: locFused,
		fused: append([]*locImpl(nil), locations...), metadata: metadata,
		spelling: spelling,
	})
}

func (ctx *contextImpl) nameLoc(name string, child *locImpl) *locImpl {
	spelling := strconv.Quote(name)
	if child != nil {
		spelling += "(" + child.spelling + ")"
	}
	return ctx.internLoc(&locImpl{
		ctx: ctx, kind: locName, name: name, child: child, spelling: spelling,
	})
}

// LocationUnknownGet returns the unknown location.
func LocationUnknownGet(c Context) Location {
	return Location{p: c.p.unknownLoc()}
}

// LocationFileLineColGet returns the location naming a file position.
func LocationFileLineColGet(c Context, filename StringRef, line, col int) Location {
	return Location{p: c.p.fileLineColLoc(filename.String(), line, col)}
}

// LocationCallSiteGet returns the location of a call site.
func LocationCallSiteGet(callee, caller Location) Location {
	return Location{p: callee.p.ctx.callSiteLoc(callee.p, caller.p)}
}

// LocationFusedGet returns a fused location over the given set with the
// given metadata attribute.
func LocationFusedGet(c Context, locations []Location, metadata Attribute) Location {
	impls := make([]*locImpl, len(locations))
	for i, l := range locations {
		impls[i] = l.p
	}
	return Location{p: c.p.fusedLoc(impls, metadata.p)}
}

// LocationNameGet returns a named location with an optional child; pass
// the null handle for no child.
func LocationNameGet(c Context, name StringRef, child Location) Location {
	return Location{p: c.p.nameLoc(name.String(), child.p)}
}

// LocationGetContext returns the context that owns the location.
func LocationGetContext(l Location) Context { return Context{p: l.p.ctx} }

// LocationEqual compares locations. Interning makes identity comparison
// structural.
func LocationEqual(a, b Location) bool { return a.p == b.p }

// LocationPrint pushes the location's textual form, wrapped in loc(...),
// through the callback.
func LocationPrint(l Location, callback StringCallback, userData uintptr) {
	emitString("loc("+l.p.spelling+")", callback, userData)
}
