package core

// opDefinition describes one registered operation: its declared inherent
// attribute names and the structural facts the verifier and the
// transform passes rely on.
type opDefinition struct {
	name          string
	inherentAttrs []string

	// requiredAttrs is the subset of inherentAttrs the verifier insists
	// on.
	requiredAttrs []string

	// numOperands and numResults are -1 for variadic.
	numOperands int
	numResults  int

	// pure operations have no side effects and may be erased or merged
	// when their results are unused or duplicated.
	pure bool

	// inferResults derives result types from the operation's operands and
	// attributes. Nil when the operation does not support inference.
	inferResults func(state *OperationState) ([]*typeImpl, bool)
}

func (d *opDefinition) isInherent(name string) bool {
	for _, n := range d.inherentAttrs {
		if n == name {
			return true
		}
	}
	return false
}

// dialectDescriptor is the process-wide, data-only description of a
// dialect: its namespace and operation table. Descriptors have no
// lifecycle and are shared by every context that loads them.
type dialectDescriptor struct {
	namespace string
	ops       map[string]*opDefinition
}

// dialectImpl is a dialect loaded into one context.
type dialectImpl struct {
	ctx  *contextImpl
	desc *dialectDescriptor
}

type dialectRegistryImpl struct {
	ordered   []*dialectDescriptor
	destroyed bool
}

func defineOps(defs ...*opDefinition) map[string]*opDefinition {
	m := make(map[string]*opDefinition, len(defs))
	for _, d := range defs {
		m[d.name] = d
	}
	return m
}

var builtinDescriptor = &dialectDescriptor{
	namespace: "builtin",
	ops: defineOps(
		&opDefinition{
			name:          "builtin.module",
			inherentAttrs: []string{"sym_name"},
			numOperands:   0,
			numResults:    0,
		},
		&opDefinition{
			name:        "builtin.unrealized_conversion_cast",
			numOperands: -1,
			numResults:  -1,
			pure:        true,
		},
	),
}

var funcDescriptor = &dialectDescriptor{
	namespace: "func",
	ops: defineOps(
		&opDefinition{
			name:          "func.func",
			inherentAttrs: []string{"sym_name", "function_type", "sym_visibility"},
			numOperands:   0,
			numResults:    0,
		},
		&opDefinition{
			name:        "func.return",
			numOperands: -1,
			numResults:  0,
		},
		&opDefinition{
			name:          "func.call",
			inherentAttrs: []string{"callee"},
			requiredAttrs: []string{"callee"},
			numOperands:   -1,
			numResults:    -1,
		},
	),
}

var arithDescriptor = &dialectDescriptor{
	namespace: "arith",
	ops: defineOps(
		&opDefinition{
			name:          "arith.constant",
			inherentAttrs: []string{"value"},
			requiredAttrs: []string{"value"},
			numOperands:   0,
			numResults:    1,
			pure:          true,
			inferResults: func(state *OperationState) ([]*typeImpl, bool) {
				for _, attr := range state.attributes {
					if attr.Name.p.value == "value" {
						return []*typeImpl{attr.Attribute.p.attrType()}, true
					}
				}
				return nil, false
			},
		},
		&opDefinition{
			name:          "arith.addi",
			numOperands:   2,
			numResults:    1,
			pure:          true,
			inferResults:  inferFromFirstOperand,
			inherentAttrs: []string{"overflowFlags"},
		},
		&opDefinition{
			name:          "arith.muli",
			numOperands:   2,
			numResults:    1,
			pure:          true,
			inferResults:  inferFromFirstOperand,
			inherentAttrs: []string{"overflowFlags"},
		},
		&opDefinition{
			name:          "arith.cmpi",
			inherentAttrs: []string{"predicate"},
			requiredAttrs: []string{"predicate"},
			numOperands:   2,
			numResults:    1,
			pure:          true,
		},
	),
}

func inferFromFirstOperand(state *OperationState) ([]*typeImpl, bool) {
	if len(state.operands) == 0 {
		return nil, false
	}
	return []*typeImpl{state.operands[0].p.typ}, true
}

// allDialectDescriptors lists every dialect this engine ships beyond
// builtin, in registration order.
var allDialectDescriptors = []*dialectDescriptor{funcDescriptor, arithDescriptor}

// DialectRegistryCreate creates an empty registry.
func DialectRegistryCreate() DialectRegistry {
	return DialectRegistry{p: &dialectRegistryImpl{}}
}

// DialectRegistryDestroy releases the registry. Contexts seeded from it
// are unaffected.
func DialectRegistryDestroy(r DialectRegistry) {
	if r.p.destroyed {
		panic("core: dialect registry destroyed twice")
	}
	r.p.destroyed = true
}

func (r *dialectRegistryImpl) insert(desc *dialectDescriptor) {
	if r.destroyed {
		panic("core: use of destroyed dialect registry")
	}
	for _, d := range r.ordered {
		if d == desc {
			return
		}
	}
	r.ordered = append(r.ordered, desc)
}

// RegisterAllDialects inserts every dialect the engine ships into the
// registry.
func RegisterAllDialects(r DialectRegistry) {
	for _, desc := range allDialectDescriptors {
		r.p.insert(desc)
	}
}

// DialectGetContext returns the context that loaded the dialect.
func DialectGetContext(d Dialect) Context { return Context{p: d.p.ctx} }

// DialectGetNamespace returns the dialect's namespace string.
func DialectGetNamespace(d Dialect) StringRef {
	return StringRefFromString(d.p.desc.namespace)
}

// DialectEqual compares dialect identity: two handles are equal only when
// they name the same namespace entry of the same context.
func DialectEqual(a, b Dialect) bool { return a.p == b.p }

// GetDialectHandleFunc returns the process-wide descriptor for the
// bundled func dialect.
func GetDialectHandleFunc() DialectHandle { return DialectHandle{desc: funcDescriptor} }

// GetDialectHandleArith returns the process-wide descriptor for the
// bundled arith dialect.
func GetDialectHandleArith() DialectHandle { return DialectHandle{desc: arithDescriptor} }

// DialectHandleGetNamespace returns the namespace the handle describes.
func DialectHandleGetNamespace(h DialectHandle) StringRef {
	return StringRefFromString(h.desc.namespace)
}

// DialectHandleInsertDialect registers the handle's constructor in a
// registry.
func DialectHandleInsertDialect(h DialectHandle, r DialectRegistry) {
	r.p.insert(h.desc)
}

// DialectHandleRegisterDialect registers the handle's constructor with a
// context without loading the dialect.
func DialectHandleRegisterDialect(h DialectHandle, c Context) {
	c.p.check()
	if _, ok := c.p.registered[h.desc.namespace]; !ok {
		c.p.registered[h.desc.namespace] = h.desc
	}
}

// DialectHandleLoadDialect loads the handle's dialect into a context and
// returns it. Loading does not add the dialect to the context's
// registered table; the two sets are independent.
func DialectHandleLoadDialect(h DialectHandle, c Context) Dialect {
	c.p.check()
	return Dialect{p: c.p.load(h.desc)}
}
