package core

import (
	"fmt"
	"strings"
)

// passImpl is one transformation over an operation tree. run mutates the
// tree in place and reports success.
type passImpl struct {
	name string
	run  func(op *operationImpl) bool

	attached bool
}

type passManagerImpl struct {
	ctx       *contextImpl
	passes    []*passImpl
	verify    bool
	destroyed bool
}

// PassManagerCreate creates an empty pass pipeline with the verifier
// enabled.
func PassManagerCreate(c Context) PassManager {
	c.p.check()
	return PassManager{p: &passManagerImpl{ctx: c.p, verify: true}}
}

// PassManagerDestroy releases the pipeline and the passes it owns.
func PassManagerDestroy(m PassManager) {
	if m.p.destroyed {
		panic("core: pass manager destroyed twice")
	}
	m.p.destroyed = true
}

// PassManagerGetContext returns the context the pipeline was created in.
func PassManagerGetContext(m PassManager) Context { return Context{p: m.p.ctx} }

// PassManagerEnableVerifier toggles verification of the operation tree
// after each pass.
func PassManagerEnableVerifier(m PassManager, enable bool) {
	m.p.verify = enable
}

// PassManagerAddOwnedPass appends a pass to the pipeline, which takes
// ownership. Adding the same pass object twice is a programming error.
func PassManagerAddOwnedPass(m PassManager, p Pass) {
	if m.p.destroyed {
		panic("core: use of destroyed pass manager")
	}
	if p.p.attached {
		panic("core: pass already owned by a pass manager")
	}
	p.p.attached = true
	m.p.passes = append(m.p.passes, p.p)
}

// PassManagerRunOnOp runs the pipeline over an operation tree. Returns
// failure when a pass fails or, with the verifier enabled, when the tree
// fails verification after a pass.
func PassManagerRunOnOp(m PassManager, op Operation) LogicalResult {
	if m.p.destroyed {
		panic("core: use of destroyed pass manager")
	}
	op.p.check()
	for _, p := range m.p.passes {
		if !p.run(op.p) {
			return LogicalResultFailure()
		}
		if m.p.verify && !op.p.verify() {
			return LogicalResultFailure()
		}
	}
	return LogicalResultSuccess()
}

// PassGetName returns the pass's registered name.
func PassGetName(p Pass) StringRef { return StringRefFromString(p.p.name) }

// CreateCanonicalizerPass returns a pass that erases pure operations
// whose results are all unused, repeating until nothing changes.
func CreateCanonicalizerPass() Pass {
	return Pass{p: &passImpl{name: "canonicalize", run: canonicalize}}
}

func canonicalize(root *operationImpl) bool {
	for {
		changed := false
		root.walk(func(op *operationImpl) {
			if op == root || op.block == nil {
				return
			}
			if op.def == nil || !op.def.pure {
				return
			}
			for _, r := range op.results {
				if r.firstUse != nil {
					return
				}
			}
			unlinkOperation(op.block, op)
			op.destroy()
			changed = true
		}, WalkPostOrder)
		if !changed {
			return true
		}
	}
}

// CreateCSEPass returns a pass that merges duplicate pure operations
// within each block: later duplicates are erased and their uses repointed
// at the first occurrence.
func CreateCSEPass() Pass {
	return Pass{p: &passImpl{name: "cse", run: eliminateCommonSubexpressions}}
}

func eliminateCommonSubexpressions(root *operationImpl) bool {
	root.walk(func(op *operationImpl) {
		for _, r := range op.regions {
			for b := r.firstBlock; b != nil; b = b.next {
				cseBlock(b)
			}
		}
	}, WalkPreOrder)
	return true
}

func cseBlock(b *blockImpl) {
	seen := map[string]*operationImpl{}
	for op := b.firstOp; op != nil; {
		next := op.next
		if op.def != nil && op.def.pure && len(op.regions) == 0 {
			key := op.cseKey()
			if first, ok := seen[key]; ok {
				replaceAllUses(op, first)
				unlinkOperation(b, op)
				op.destroy()
			} else {
				seen[key] = op
			}
		}
		op = next
	}
}

// cseKey captures everything that makes two pure operations
// interchangeable: name, operand identity, attributes, and result types.
// Operand identity is the value pointer; interned spellings are not
// enough because distinct values can share a type.
func (op *operationImpl) cseKey() string {
	var sb strings.Builder
	sb.WriteString(op.name.value)
	for _, u := range op.operands {
		fmt.Fprintf(&sb, "|%p", u.value)
	}
	sb.WriteString("#")
	sb.WriteString(op.attrDictText())
	for _, r := range op.results {
		sb.WriteString(";")
		sb.WriteString(r.typ.spelling)
	}
	return sb.String()
}

func replaceAllUses(from, to *operationImpl) {
	for i, r := range from.results {
		if i >= len(to.results) {
			break
		}
		for u := r.firstUse; u != nil; {
			next := u.nextUse
			u.unlink()
			u.value = to.results[i]
			u.link()
			u = next
		}
	}
}

// CreateStripDebugInfoPass returns a pass that resets every location in
// the tree to the unknown location.
func CreateStripDebugInfoPass() Pass {
	return Pass{p: &passImpl{name: "strip-debuginfo", run: stripDebugInfo}}
}

func stripDebugInfo(root *operationImpl) bool {
	unknown := root.ctx.unknownLoc()
	root.walk(func(op *operationImpl) { op.loc = unknown }, WalkPreOrder)
	return true
}
