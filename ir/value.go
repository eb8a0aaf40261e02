package ir

import (
	"github.com/arbor-ir/arbor/internal/bridge"
	"github.com/arbor-ir/arbor/internal/core"
)

// Value is a borrowed view of an SSA value: either an operation result
// or a block argument. Its validity is bound to the operation or block
// that defines it.
type Value struct {
	raw core.Value
}

// ValueFromRaw wraps a raw value handle the caller attests is valid.
func ValueFromRaw(raw core.Value) Value { return Value{raw: raw} }

// ValueTryFromRaw wraps a raw value handle, reporting absence for the
// null handle.
func ValueTryFromRaw(raw core.Value) (Value, bool) {
	if raw.IsNull() {
		return Value{}, false
	}
	return Value{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (v Value) Raw() core.Value { return v.raw }

// Type returns the value's type.
func (v Value) Type() Type { return Type{raw: core.ValueGetType(v.raw)} }

// SetType replaces the value's type.
func (v Value) SetType(t Type) { core.ValueSetType(v.raw, t.raw) }

// IsBlockArgument reports whether the value is a block argument.
func (v Value) IsBlockArgument() bool { return core.ValueIsABlockArgument(v.raw) }

// IsOpResult reports whether the value is an operation result.
func (v Value) IsOpResult() bool { return core.ValueIsAOpResult(v.raw) }

// Equal reports value identity.
func (v Value) Equal(other Value) bool { return core.ValueEqual(v.raw, other.raw) }

// FirstUse returns the most recent use of the value; absence means the
// value is unused. Later uses sit earlier in the chain: the use list
// behaves as a stack.
func (v Value) FirstUse() (OpOperand, bool) {
	u := core.ValueGetFirstUse(v.raw)
	if core.OpOperandIsNull(u) {
		return OpOperand{}, false
	}
	return OpOperand{raw: u}, true
}

func (v Value) String() string {
	return bridge.String(func(cb core.StringCallback, ud uintptr) {
		core.ValuePrint(v.raw, cb, ud)
	})
}

// OpOperand is a borrowed view of one operand position of an operation:
// an edge in the use-def graph.
type OpOperand struct {
	raw core.OpOperand
}

// OpOperandFromRaw wraps a raw operand handle the caller attests is
// valid.
func OpOperandFromRaw(raw core.OpOperand) OpOperand { return OpOperand{raw: raw} }

// OpOperandTryFromRaw wraps a raw operand handle, reporting absence for
// the null sentinel.
func OpOperandTryFromRaw(raw core.OpOperand) (OpOperand, bool) {
	if core.OpOperandIsNull(raw) {
		return OpOperand{}, false
	}
	return OpOperand{raw: raw}, true
}

// Raw returns the underlying handle without giving up the borrow.
func (o OpOperand) Raw() core.OpOperand { return o.raw }

// Value returns the value this operand points at.
func (o OpOperand) Value() Value { return Value{raw: core.OpOperandGetValue(o.raw)} }

// Owner returns the operation holding the operand position.
func (o OpOperand) Owner() OperationRef {
	return OperationRef{raw: core.OpOperandGetOwner(o.raw)}
}

// OperandNumber returns the operand's position on its owner.
func (o OpOperand) OperandNumber() int { return core.OpOperandGetOperandNumber(o.raw) }

// NextUse returns the next, older use of the same value; absence ends
// the chain.
func (o OpOperand) NextUse() (OpOperand, bool) {
	n := core.OpOperandGetNextUse(o.raw)
	if core.OpOperandIsNull(n) {
		return OpOperand{}, false
	}
	return OpOperand{raw: n}, true
}
