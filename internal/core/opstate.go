package core

// OperationState accumulates everything needed to construct an operation
// in one call. Populate it with the Add functions, then pass it to
// OperationCreate exactly once.
type OperationState struct {
	ctx      *contextImpl
	name     string
	location Location

	results    []Type
	operands   []Value
	regions    []Region
	attributes []NamedAttribute

	inferTypes bool
}

// OperationStateGet starts a builder state for the named operation at
// the given location. The context is taken from the location.
func OperationStateGet(name StringRef, loc Location) *OperationState {
	return &OperationState{
		ctx:      loc.p.ctx,
		name:     name.String(),
		location: loc,
	}
}

// OperationStateAddResults appends result types.
func OperationStateAddResults(state *OperationState, types ...Type) {
	state.results = append(state.results, types...)
}

// OperationStateAddOperands appends operand values.
func OperationStateAddOperands(state *OperationState, values ...Value) {
	state.operands = append(state.operands, values...)
}

// OperationStateAddOwnedRegions appends regions whose ownership will
// transfer to the constructed operation.
func OperationStateAddOwnedRegions(state *OperationState, regions ...Region) {
	state.regions = append(state.regions, regions...)
}

// OperationStateAddAttributes appends named attributes.
func OperationStateAddAttributes(state *OperationState, attrs ...NamedAttribute) {
	state.attributes = append(state.attributes, attrs...)
}

// OperationStateEnableResultTypeInference asks OperationCreate to derive
// result types from the operation's registered definition instead of the
// explicitly added results. Construction fails when the definition
// cannot infer.
func OperationStateEnableResultTypeInference(state *OperationState) {
	state.inferTypes = true
}
