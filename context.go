package arbor

import "github.com/arbor-ir/arbor/internal/core"

// ContextRef is a borrowed view of a context. It is a copyable value;
// validity is bound to the lifetime of the owning Context.
type ContextRef struct {
	raw core.Context
}

// ContextRefFromRaw wraps a raw context handle the caller attests is
// valid.
func ContextRefFromRaw(raw core.Context) ContextRef {
	return ContextRef{raw: raw}
}

// ContextRefTryFromRaw wraps a raw context handle, reporting absence for
// the null handle.
func ContextRefTryFromRaw(raw core.Context) (ContextRef, bool) {
	if raw.IsNull() {
		return ContextRef{}, false
	}
	return ContextRef{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (c ContextRef) Raw() core.Context { return c.raw }

// Equal reports whether two references name the same context.
func (c ContextRef) Equal(other ContextRef) bool {
	return core.ContextEqual(c.raw, other.raw)
}

// AllowsUnregisteredDialects reports whether operations from unregistered
// dialects may be created in this context.
func (c ContextRef) AllowsUnregisteredDialects() bool {
	return core.ContextGetAllowUnregisteredDialects(c.raw)
}

// SetAllowUnregisteredDialects toggles tolerance for operations from
// unregistered dialects.
func (c ContextRef) SetAllowUnregisteredDialects(allow bool) {
	core.ContextSetAllowUnregisteredDialects(c.raw, allow)
}

// NumRegisteredDialects counts the dialects registered with the context,
// loaded or not.
func (c ContextRef) NumRegisteredDialects() int {
	return core.ContextGetNumRegisteredDialects(c.raw)
}

// NumLoadedDialects counts the dialects loaded into the context.
func (c ContextRef) NumLoadedDialects() int {
	return core.ContextGetNumLoadedDialects(c.raw)
}

// AppendDialectRegistry registers every dialect held by the registry with
// the context. Nothing is loaded.
func (c ContextRef) AppendDialectRegistry(registry *DialectRegistry) {
	core.ContextAppendDialectRegistry(c.raw, registry.h)
}

// GetOrLoadDialect returns the dialect with the given namespace, loading
// it first if needed. Absence of the namespace is not an error.
func (c ContextRef) GetOrLoadDialect(namespace string) (Dialect, bool) {
	d := core.ContextGetOrLoadDialect(c.raw, core.StringRefFromString(namespace))
	if d.IsNull() {
		return Dialect{}, false
	}
	return Dialect{raw: d}, true
}

// SetThreadingEnabled toggles the engine's internal threading mode.
func (c ContextRef) SetThreadingEnabled(enabled bool) {
	core.ContextEnableMultithreading(c.raw, enabled)
}

// ThreadingEnabled reports the engine's internal threading mode.
func (c ContextRef) ThreadingEnabled() bool {
	return core.ContextIsMultithreadingEnabled(c.raw)
}

// LoadAllAvailableDialects loads every dialect registered with the
// context.
func (c ContextRef) LoadAllAvailableDialects() {
	core.ContextLoadAllAvailableDialects(c.raw)
}

// IsOperationRegistered reports whether the fully-qualified operation
// name is known to a loaded dialect.
func (c ContextRef) IsOperationRegistered(name string) bool {
	return core.ContextIsRegisteredOperation(c.raw, core.StringRefFromString(name))
}

// Context owns an engine context. Everything interned against it
// (types, attributes, identifiers, locations) is reclaimed when the
// context is destroyed, and every borrowed value derived from it becomes
// invalid at that moment.
type Context struct {
	ContextRef
	destroyed bool
}

// NewContext creates a context. A non-nil registry seeds the context's
// registered dialects; the builtin dialect is always present and loaded.
func NewContext(registry *DialectRegistry, threadingEnabled bool) *Context {
	var raw core.Context
	if registry != nil {
		raw = core.ContextCreateWithRegistry(registry.h, threadingEnabled)
	} else {
		raw = core.ContextCreateWithThreading(threadingEnabled)
	}
	return &Context{ContextRef: ContextRef{raw: raw}}
}

// ContextFromRaw assumes ownership of a raw context handle the caller
// attests is valid and unowned.
func ContextFromRaw(raw core.Context) *Context {
	return &Context{ContextRef: ContextRef{raw: raw}}
}

// ContextTryFromRaw is ContextFromRaw with absence reporting for the
// null handle.
func ContextTryFromRaw(raw core.Context) (*Context, bool) {
	if raw.IsNull() {
		return nil, false
	}
	return ContextFromRaw(raw), true
}

// Ref returns the borrowed view of the context.
func (c *Context) Ref() ContextRef { return c.ContextRef }

// Destroy releases the context. Destroying twice panics.
func (c *Context) Destroy() {
	if c.destroyed {
		panic("arbor: context destroyed twice")
	}
	c.destroyed = true
	core.ContextDestroy(c.raw)
}
