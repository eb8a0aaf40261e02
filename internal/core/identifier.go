package core

type identImpl struct {
	ctx   *contextImpl
	value string
}

// IdentifierGet returns the interned identifier for the given string.
func IdentifierGet(c Context, value StringRef) Identifier {
	c.p.check()
	s := value.String()
	if existing, ok := c.p.idents[s]; ok {
		return Identifier{p: existing}
	}
	id := &identImpl{ctx: c.p, value: s}
	c.p.idents[s] = id
	return Identifier{p: id}
}

// IdentifierGetContext returns the context that owns the identifier.
func IdentifierGetContext(i Identifier) Context { return Context{p: i.p.ctx} }

// IdentifierStr returns the identifier's string value.
func IdentifierStr(i Identifier) StringRef { return StringRefFromString(i.p.value) }

// IdentifierEqual compares identifiers. Interning makes identity
// comparison exact.
func IdentifierEqual(a, b Identifier) bool { return a.p == b.p }
