package ir

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/core"
)

// Identifier is a borrowed view of an interned string.
type Identifier struct {
	raw core.Identifier
}

// NewIdentifier interns value in the context.
func NewIdentifier(ctx Context, value string) Identifier {
	return Identifier{raw: core.IdentifierGet(ctx.Raw(), core.StringRefFromString(value))}
}

// IdentifierFromRaw wraps a raw identifier handle the caller attests is
// valid.
func IdentifierFromRaw(raw core.Identifier) Identifier { return Identifier{raw: raw} }

// IdentifierTryFromRaw wraps a raw identifier handle, reporting absence
// for the null handle.
func IdentifierTryFromRaw(raw core.Identifier) (Identifier, bool) {
	if raw.IsNull() {
		return Identifier{}, false
	}
	return Identifier{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (i Identifier) Raw() core.Identifier { return i.raw }

// Context returns the context the identifier is interned in.
func (i Identifier) Context() arbor.ContextRef {
	return arbor.ContextRefFromRaw(core.IdentifierGetContext(i.raw))
}

// Value returns the identifier's string.
func (i Identifier) Value() string { return core.IdentifierStr(i.raw).String() }

// Equal reports identifier equality. Interning makes identity comparison
// exact.
func (i Identifier) Equal(other Identifier) bool {
	return core.IdentifierEqual(i.raw, other.raw)
}
