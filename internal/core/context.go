package core

type contextImpl struct {
	registered map[string]*dialectDescriptor
	loaded     map[string]*dialectImpl

	allowUnregistered bool
	threading         bool

	types  map[string]*typeImpl
	attrs  map[string]*attrImpl
	idents map[string]*identImpl
	locs   map[string]*locImpl

	destroyed bool
}

func newContextImpl(threading bool) *contextImpl {
	ctx := &contextImpl{
		registered: map[string]*dialectDescriptor{},
		loaded:     map[string]*dialectImpl{},
		threading:  threading,
		types:      map[string]*typeImpl{},
		attrs:      map[string]*attrImpl{},
		idents:     map[string]*identImpl{},
		locs:       map[string]*locImpl{},
	}
	// The builtin dialect is registered and loaded in every context.
	ctx.registered[builtinDescriptor.namespace] = builtinDescriptor
	ctx.load(builtinDescriptor)
	return ctx
}

func (ctx *contextImpl) check() {
	if ctx.destroyed {
		panic("core: use of destroyed context")
	}
}

func (ctx *contextImpl) load(desc *dialectDescriptor) *dialectImpl {
	if d, ok := ctx.loaded[desc.namespace]; ok {
		return d
	}
	d := &dialectImpl{ctx: ctx, desc: desc}
	ctx.loaded[desc.namespace] = d
	return d
}

// ContextCreateWithThreading creates a context containing only the builtin
// dialect.
func ContextCreateWithThreading(threadingEnabled bool) Context {
	return Context{p: newContextImpl(threadingEnabled)}
}

// ContextCreateWithRegistry creates a context pre-registered with the
// contents of the provided registry.
func ContextCreateWithRegistry(registry DialectRegistry, threadingEnabled bool) Context {
	ctx := newContextImpl(threadingEnabled)
	for _, desc := range registry.p.ordered {
		if _, ok := ctx.registered[desc.namespace]; !ok {
			ctx.registered[desc.namespace] = desc
		}
	}
	return Context{p: ctx}
}

// ContextDestroy releases the context and everything interned into it.
// Every handle derived from the context is dangling afterwards.
func ContextDestroy(c Context) {
	if c.p.destroyed {
		panic("core: context destroyed twice")
	}
	c.p.destroyed = true
}

// ContextEqual compares context identity.
func ContextEqual(a, b Context) bool { return a.p == b.p }

// ContextGetAllowUnregisteredDialects reports whether operations from
// unregistered dialects may be created in the context.
func ContextGetAllowUnregisteredDialects(c Context) bool {
	c.p.check()
	return c.p.allowUnregistered
}

// ContextSetAllowUnregisteredDialects toggles tolerance for operations
// from unregistered dialects.
func ContextSetAllowUnregisteredDialects(c Context, allow bool) {
	c.p.check()
	c.p.allowUnregistered = allow
}

// ContextGetNumRegisteredDialects counts dialects registered with the
// context, loaded or not.
func ContextGetNumRegisteredDialects(c Context) int {
	c.p.check()
	return len(c.p.registered)
}

// ContextGetNumLoadedDialects counts dialects loaded by the context.
func ContextGetNumLoadedDialects(c Context) int {
	c.p.check()
	return len(c.p.loaded)
}

// ContextAppendDialectRegistry appends the registry's contents to the
// context's registered dialect table.
func ContextAppendDialectRegistry(c Context, registry DialectRegistry) {
	c.p.check()
	for _, desc := range registry.p.ordered {
		if _, ok := c.p.registered[desc.namespace]; !ok {
			c.p.registered[desc.namespace] = desc
		}
	}
}

// ContextGetOrLoadDialect returns the dialect with the given namespace,
// loading it first if needed. Returns the null handle when no such
// dialect is registered; absence is not a failure.
func ContextGetOrLoadDialect(c Context, namespace StringRef) Dialect {
	c.p.check()
	desc, ok := c.p.registered[namespace.String()]
	if !ok {
		return Dialect{}
	}
	return Dialect{p: c.p.load(desc)}
}

// ContextEnableMultithreading toggles the engine's internal threading
// mode. The flag is configuration only; this engine never schedules work
// of its own.
func ContextEnableMultithreading(c Context, enable bool) {
	c.p.check()
	c.p.threading = enable
}

// ContextIsMultithreadingEnabled reports the current threading mode.
func ContextIsMultithreadingEnabled(c Context) bool {
	c.p.check()
	return c.p.threading
}

// ContextLoadAllAvailableDialects eagerly loads every registered dialect.
func ContextLoadAllAvailableDialects(c Context) {
	c.p.check()
	for _, desc := range c.p.registered {
		c.p.load(desc)
	}
}

// ContextIsRegisteredOperation reports whether the fully-qualified
// operation name is known to a dialect that is both registered and
// loaded.
func ContextIsRegisteredOperation(c Context, name StringRef) bool {
	c.p.check()
	full := name.String()
	ns, _, ok := splitOperationName(full)
	if !ok {
		return false
	}
	d, ok := c.p.loaded[ns]
	if !ok {
		return false
	}
	_, ok = d.desc.ops[full]
	return ok
}

// lookupOpDefinition resolves a fully-qualified operation name against
// the loaded dialects. Returns nil for unregistered names.
func (ctx *contextImpl) lookupOpDefinition(full string) *opDefinition {
	ns, _, ok := splitOperationName(full)
	if !ok {
		return nil
	}
	d, ok := ctx.loaded[ns]
	if !ok {
		return nil
	}
	return d.desc.ops[full]
}

func splitOperationName(full string) (namespace, op string, ok bool) {
	for i := 0; i < len(full); i++ {
		if full[i] == '.' {
			if i == 0 || i == len(full)-1 {
				return "", "", false
			}
			return full[:i], full[i+1:], true
		}
	}
	return "", "", false
}
