package ir

import "github.com/arbor-ir/arbor/internal/core"

// OperationBuilder accumulates the pieces of an operation and constructs
// it with exactly one engine call. The builder is single-use: Build
// spends it.
type OperationBuilder struct {
	state   *core.OperationState
	regions []*Region
	built   bool
}

// NewOperationBuilder starts a builder for the named operation at the
// given location.
func NewOperationBuilder(name string, loc Location) *OperationBuilder {
	return &OperationBuilder{
		state: core.OperationStateGet(core.StringRefFromString(name), loc.raw),
	}
}

// AddResults appends result types.
func (b *OperationBuilder) AddResults(types ...Type) *OperationBuilder {
	for _, t := range types {
		core.OperationStateAddResults(b.state, t.raw)
	}
	return b
}

// AddOperands appends operand values.
func (b *OperationBuilder) AddOperands(values ...Value) *OperationBuilder {
	for _, v := range values {
		core.OperationStateAddOperands(b.state, v.raw)
	}
	return b
}

// AddRegions appends owned regions. Their ownership transfers to the new
// operation when Build succeeds; on failure they are released.
func (b *OperationBuilder) AddRegions(regions ...*Region) *OperationBuilder {
	b.regions = append(b.regions, regions...)
	return b
}

// AddAttributes appends named attributes.
func (b *OperationBuilder) AddAttributes(attrs ...NamedAttribute) *OperationBuilder {
	for _, a := range attrs {
		core.OperationStateAddAttributes(b.state, a.raw())
	}
	return b
}

// EnableResultTypeInference derives result types from the operation's
// registered definition instead of AddResults.
func (b *OperationBuilder) EnableResultTypeInference() *OperationBuilder {
	core.OperationStateEnableResultTypeInference(b.state)
	return b
}

// Build constructs the operation. Absence means the name belongs to an
// unregistered dialect the context does not tolerate, or result type
// inference failed. Building twice panics.
func (b *OperationBuilder) Build() (*Operation, bool) {
	if b.built {
		panic("ir: operation builder used twice")
	}
	b.built = true
	rawRegions := make([]core.Region, len(b.regions))
	for i, r := range b.regions {
		rawRegions[i] = r.transfer()
	}
	core.OperationStateAddOwnedRegions(b.state, rawRegions...)
	op := core.OperationCreate(b.state)
	if op.IsNull() {
		// construction never took the regions; release them here so the
		// failure path leaks nothing
		for _, raw := range rawRegions {
			core.RegionDestroy(raw)
		}
		return nil, false
	}
	return &Operation{OperationRef: OperationRef{raw: op}}, true
}
