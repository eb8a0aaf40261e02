package arbor

import "github.com/arbor-ir/arbor/internal/core"

// LogicalResult is the engine's pass/fail outcome, lifted to a proper
// two-variant type. The raw encoding never leaks past this boundary.
type LogicalResult int

const (
	// Success reports that the operation succeeded.
	Success LogicalResult = iota
	// Failure reports that the operation failed.
	Failure
)

// LogicalResultFromRaw lifts the engine encoding.
func LogicalResultFromRaw(raw core.LogicalResult) LogicalResult {
	if raw.Value != 0 {
		return Success
	}
	return Failure
}

// Raw returns the engine encoding.
func (r LogicalResult) Raw() core.LogicalResult {
	if r == Success {
		return core.LogicalResultSuccess()
	}
	return core.LogicalResultFailure()
}

// Succeeded reports success.
func (r LogicalResult) Succeeded() bool { return r == Success }

// Failed reports failure.
func (r LogicalResult) Failed() bool { return r == Failure }

func (r LogicalResult) String() string {
	if r == Success {
		return "success"
	}
	return "failure"
}
