package core

// OperationVerify checks the operation and everything nested inside it
// against the registered operation definitions. Unregistered operations
// only get structural checks.
func OperationVerify(op Operation) LogicalResult {
	op.p.check()
	if op.p.verify() {
		return LogicalResultSuccess()
	}
	return LogicalResultFailure()
}

func (op *operationImpl) verify() bool {
	if _, _, ok := splitOperationName(op.name.value); !ok {
		return false
	}
	if def := op.def; def != nil {
		if def.numOperands >= 0 && len(op.operands) != def.numOperands {
			return false
		}
		if def.numResults >= 0 && len(op.results) != def.numResults {
			return false
		}
		for _, name := range def.requiredAttrs {
			if _, ok := op.inherent[name]; !ok {
				return false
			}
		}
	}
	for _, u := range op.operands {
		if u.value == nil {
			return false
		}
	}
	for _, r := range op.regions {
		for b := r.firstBlock; b != nil; b = b.next {
			for o := b.firstOp; o != nil; o = o.next {
				if !o.verify() {
					return false
				}
			}
		}
	}
	return true
}
