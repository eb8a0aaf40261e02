// Package ir holds the IR entity wrappers: interned values (types,
// attributes, identifiers, locations) and the operation tree (operations,
// regions, blocks, values).
//
// Interned values are borrowed: they are created against a context,
// copyable, and reclaimed only when the context is destroyed. Tree
// entities come in owned/borrowed pairs (Operation/OperationRef and so
// on); inserting an owned entity into a container transfers ownership
// and poisons the original wrapper's Destroy.
package ir

import (
	"github.com/arbor-ir/arbor/internal/core"
)

// Context is the subset of a context the IR constructors need. It is
// satisfied by both *arbor.Context and arbor.ContextRef.
type Context interface {
	Raw() core.Context
}
