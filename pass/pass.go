// Package pass wraps the engine's transformation pipeline. Passes are
// opaque: they come from the constructor functions here and are handed
// to a PassManager, which owns them.
package pass

import (
	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/internal/core"
	"github.com/arbor-ir/arbor/ir"
)

// Pass is an opaque transformation. A pass is single-use: adding it to a
// pass manager transfers ownership.
type Pass struct {
	raw core.Pass
}

// Canonicalizer returns a pass that erases pure operations whose results
// are all unused.
func Canonicalizer() *Pass {
	return &Pass{raw: core.CreateCanonicalizerPass()}
}

// CSE returns a pass that merges duplicate pure operations within each
// block.
func CSE() *Pass {
	return &Pass{raw: core.CreateCSEPass()}
}

// StripDebugInfo returns a pass that resets every location in the tree
// to the unknown location.
func StripDebugInfo() *Pass {
	return &Pass{raw: core.CreateStripDebugInfoPass()}
}

// Name returns the pass's registered name.
func (p *Pass) Name() string { return core.PassGetName(p.raw).String() }

// PassManager owns an ordered pass pipeline.
type PassManager struct {
	raw       core.PassManager
	destroyed bool
}

// NewPassManager creates an empty pipeline in the context, with the
// verifier enabled.
func NewPassManager(ctx ir.Context) *PassManager {
	return &PassManager{raw: core.PassManagerCreate(ctx.Raw())}
}

// Destroy releases the pipeline and the passes it owns. Destroying twice
// panics.
func (m *PassManager) Destroy() {
	if m.destroyed {
		panic("pass: pass manager destroyed twice")
	}
	m.destroyed = true
	core.PassManagerDestroy(m.raw)
}

// EnableVerifier toggles verification of the operation tree after each
// pass.
func (m *PassManager) EnableVerifier(enable bool) {
	core.PassManagerEnableVerifier(m.raw, enable)
}

// AddPass appends a pass to the pipeline, which takes ownership. Adding
// the same pass twice panics.
func (m *PassManager) AddPass(p *Pass) {
	core.PassManagerAddOwnedPass(m.raw, p.raw)
}

// Run applies every pass, in insertion order, to the operation tree.
// There are no partial-application semantics: a failed pass fails the
// run.
func (m *PassManager) Run(op ir.OperationRef) arbor.LogicalResult {
	return arbor.LogicalResultFromRaw(core.PassManagerRunOnOp(m.raw, op.Raw()))
}
