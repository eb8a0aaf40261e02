package core

// Opaque handle types. Each wraps a single pointer into engine-owned
// memory, so an owned handle and a borrowed handle to the same entity are
// bit-identical; the distinction lives entirely in the caller's
// discipline. The zero value of every handle type is the null sentinel.

// Context is a handle to the root arena that owns dialects and all
// interned values.
type Context struct{ p *contextImpl }

// IsNull reports whether the handle is the null sentinel.
func (c Context) IsNull() bool { return c.p == nil }

// DialectRegistry is a handle to a namespace-to-constructor table.
type DialectRegistry struct{ p *dialectRegistryImpl }

func (r DialectRegistry) IsNull() bool { return r.p == nil }

// Dialect is a handle to a dialect loaded into a context.
type Dialect struct{ p *dialectImpl }

func (d Dialect) IsNull() bool { return d.p == nil }

// DialectHandle is a process-wide descriptor for a dialect that has not
// necessarily been registered or loaded anywhere. It has no lifecycle.
type DialectHandle struct{ desc *dialectDescriptor }

func (h DialectHandle) IsNull() bool { return h.desc == nil }

// Type is a handle to a context-interned type.
type Type struct{ p *typeImpl }

func (t Type) IsNull() bool { return t.p == nil }

// Attribute is a handle to a context-interned attribute.
type Attribute struct{ p *attrImpl }

func (a Attribute) IsNull() bool { return a.p == nil }

// Identifier is a handle to a context-interned name string.
type Identifier struct{ p *identImpl }

func (i Identifier) IsNull() bool { return i.p == nil }

// Location is a handle to a context-interned source position.
type Location struct{ p *locImpl }

func (l Location) IsNull() bool { return l.p == nil }

// NamedAttribute pairs an attribute with its name. It is a transient
// value, not an interned entity.
type NamedAttribute struct {
	Name      Identifier
	Attribute Attribute
}

// Operation is a handle to one node of the IR tree.
type Operation struct{ p *operationImpl }

func (o Operation) IsNull() bool { return o.p == nil }

// Region is a handle to an ordered sequence of blocks.
type Region struct{ p *regionImpl }

func (r Region) IsNull() bool { return r.p == nil }

// Block is a handle to an ordered sequence of operations plus a fixed
// argument vector.
type Block struct{ p *blockImpl }

func (b Block) IsNull() bool { return b.p == nil }

// Value is a handle to an operation result or block argument.
type Value struct{ p *valueImpl }

func (v Value) IsNull() bool { return v.p == nil }

// OpOperand is a handle to one (operation, operand position) edge of the
// use-def graph.
type OpOperand struct{ p *opOperandImpl }

// OpOperandIsNull reports whether the operand handle is the chain
// terminator. Use-list traversal checks this predicate explicitly; the
// engine never returns an optional.
func OpOperandIsNull(o OpOperand) bool { return o.p == nil }

// Pass is a handle to an opaque transformation object.
type Pass struct{ p *passImpl }

func (p Pass) IsNull() bool { return p.p == nil }

// PassManager is a handle to an ordered pass pipeline.
type PassManager struct{ p *passManagerImpl }

func (m PassManager) IsNull() bool { return m.p == nil }

// LogicalResult is the raw two-valued outcome convention: nonzero is
// success, zero is failure. The safe layer converts it to an enum.
type LogicalResult struct{ Value int8 }

// LogicalResultSuccess is the raw success encoding.
func LogicalResultSuccess() LogicalResult { return LogicalResult{Value: 1} }

// LogicalResultFailure is the raw failure encoding.
func LogicalResultFailure() LogicalResult { return LogicalResult{Value: 0} }
