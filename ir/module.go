package ir

import "github.com/arbor-ir/arbor"

const moduleOpName = "builtin.module"

// Module owns a builtin module operation: the customary root of an IR
// tree, with a single region holding a single block.
type Module struct {
	op *Operation
}

// NewModule creates an empty module at the given location.
func NewModule(loc Location) *Module {
	region := NewRegion()
	region.Ref().AppendBlock(NewBlock(nil, nil))
	op, ok := NewOperationBuilder(moduleOpName, loc).
		AddRegions(region).
		Build()
	if !ok {
		// builtin is always registered; construction cannot fail
		panic("ir: building an empty module failed")
	}
	return &Module{op: op}
}

// ParseModule parses source as a module. Malformed input, or a top-level
// operation that is not a module, is absence.
func ParseModule(ctx Context, source, sourceFilename string) (*Module, bool) {
	op, ok := ParseOperation(ctx, source, sourceFilename)
	if !ok {
		return nil, false
	}
	m, ok := ModuleFromOperation(op)
	if !ok {
		op.Destroy()
		return nil, false
	}
	return m, true
}

// ModuleFromOperation takes ownership of op if it is a module operation;
// absence otherwise leaves op with the caller.
func ModuleFromOperation(op *Operation) (*Module, bool) {
	if op.Name().Value() != moduleOpName {
		return nil, false
	}
	raw := op.transfer()
	return &Module{op: &Operation{OperationRef: OperationRef{raw: raw}}}, true
}

// AsOperation returns the borrowed view of the module's operation.
// Panics after Destroy.
func (m *Module) AsOperation() OperationRef { return m.op.Ref() }

// Context returns the module's owning context.
func (m *Module) Context() arbor.ContextRef {
	return m.op.Ref().Context()
}

// Body returns the module's body block.
func (m *Module) Body() BlockRef {
	region, ok := m.op.Ref().FirstRegion()
	if !ok {
		panic("ir: module operation has no region")
	}
	block, ok := region.FirstBlock()
	if !ok {
		panic("ir: module region has no block")
	}
	return block
}

// Destroy releases the module. Destroying twice panics.
func (m *Module) Destroy() { m.op.Destroy() }

func (m *Module) String() string { return m.op.Ref().String() }
