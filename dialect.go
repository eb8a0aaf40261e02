package arbor

import "github.com/arbor-ir/arbor/internal/core"

// DialectRegistry owns a set of dialect registrations that can be
// appended to contexts. Destroying the registry does not affect contexts
// seeded from it.
type DialectRegistry struct {
	h         core.DialectRegistry
	destroyed bool
}

// NewDialectRegistry creates an empty registry.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{h: core.DialectRegistryCreate()}
}

// DialectRegistryFromRaw assumes ownership of a raw registry handle.
func DialectRegistryFromRaw(raw core.DialectRegistry) *DialectRegistry {
	return &DialectRegistry{h: raw}
}

// DialectRegistryTryFromRaw is DialectRegistryFromRaw with absence
// reporting for the null handle.
func DialectRegistryTryFromRaw(raw core.DialectRegistry) (*DialectRegistry, bool) {
	if raw.IsNull() {
		return nil, false
	}
	return DialectRegistryFromRaw(raw), true
}

// Raw returns the underlying handle without transferring ownership.
func (r *DialectRegistry) Raw() core.DialectRegistry { return r.h }

// RegisterAllDialects inserts every dialect this library ships into the
// registry.
func (r *DialectRegistry) RegisterAllDialects() {
	core.RegisterAllDialects(r.h)
}

// Destroy releases the registry. Destroying twice panics.
func (r *DialectRegistry) Destroy() {
	if r.destroyed {
		panic("arbor: dialect registry destroyed twice")
	}
	r.destroyed = true
	core.DialectRegistryDestroy(r.h)
}

// Dialect is a borrowed view of a dialect loaded into a context.
type Dialect struct {
	raw core.Dialect
}

// DialectFromRaw wraps a raw dialect handle the caller attests is valid.
func DialectFromRaw(raw core.Dialect) Dialect { return Dialect{raw: raw} }

// DialectTryFromRaw wraps a raw dialect handle, reporting absence for
// the null handle.
func DialectTryFromRaw(raw core.Dialect) (Dialect, bool) {
	if raw.IsNull() {
		return Dialect{}, false
	}
	return Dialect{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (d Dialect) Raw() core.Dialect { return d.raw }

// Context returns the context the dialect is loaded into.
func (d Dialect) Context() ContextRef {
	return ContextRef{raw: core.DialectGetContext(d.raw)}
}

// Namespace returns the dialect's namespace string.
func (d Dialect) Namespace() string {
	return core.DialectGetNamespace(d.raw).String()
}

// Equal reports whether two handles name the same namespace entry of the
// same context.
func (d Dialect) Equal(other Dialect) bool {
	return core.DialectEqual(d.raw, other.raw)
}

// DialectHandle is a process-wide, data-only descriptor of a dialect. It
// has no lifecycle: the same handle can register its dialect with any
// number of registries and contexts.
type DialectHandle struct {
	raw core.DialectHandle
}

// FuncDialectHandle returns the descriptor for the bundled func dialect.
func FuncDialectHandle() DialectHandle {
	return DialectHandle{raw: core.GetDialectHandleFunc()}
}

// ArithDialectHandle returns the descriptor for the bundled arith
// dialect.
func ArithDialectHandle() DialectHandle {
	return DialectHandle{raw: core.GetDialectHandleArith()}
}

// DialectHandleFromRaw wraps a raw descriptor.
func DialectHandleFromRaw(raw core.DialectHandle) DialectHandle {
	return DialectHandle{raw: raw}
}

// Raw returns the underlying descriptor.
func (h DialectHandle) Raw() core.DialectHandle { return h.raw }

// Namespace returns the namespace the handle describes.
func (h DialectHandle) Namespace() string {
	return core.DialectHandleGetNamespace(h.raw).String()
}

// InsertIntoRegistry registers the handle's dialect in a registry.
func (h DialectHandle) InsertIntoRegistry(registry *DialectRegistry) {
	core.DialectHandleInsertDialect(h.raw, registry.h)
}

// RegisterWithContext registers the handle's dialect with a context
// without loading it.
func (h DialectHandle) RegisterWithContext(ctx ContextRef) {
	core.DialectHandleRegisterDialect(h.raw, ctx.raw)
}

// LoadIntoContext loads the handle's dialect into a context and returns
// it. The context's registered set is not changed.
func (h DialectHandle) LoadIntoContext(ctx ContextRef) Dialect {
	return Dialect{raw: core.DialectHandleLoadDialect(h.raw, ctx.raw)}
}
