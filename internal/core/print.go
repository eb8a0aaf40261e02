package core

import (
	"fmt"
	"strconv"
	"strings"
)

// printer renders the generic textual form. Values are numbered in a
// pre-pass over the whole tree so forward references never appear.
type printer struct {
	sb    strings.Builder
	names map[*valueImpl]string
	next  int
}

// OperationPrint pushes the operation's textual form through the
// callback, one line per chunk. The output always ends with a newline.
func OperationPrint(op Operation, callback StringCallback, userData uintptr) {
	op.p.check()
	text := printOperation(op.p)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			emitString(text, callback, userData)
			break
		}
		emitString(text[:i+1], callback, userData)
		text = text[i+1:]
	}
}

func printOperation(op *operationImpl) string {
	p := &printer{names: map[*valueImpl]string{}}
	p.number(op)
	p.printOp(op, 0)
	return p.sb.String()
}

// number assigns %N names to every result and block argument in program
// order. Results of one operation share a name, disambiguated by #idx.
func (p *printer) number(op *operationImpl) {
	if len(op.results) > 0 {
		name := strconv.Itoa(p.next)
		p.next++
		for _, r := range op.results {
			p.names[r] = name
		}
	}
	for _, r := range op.regions {
		for b := r.firstBlock; b != nil; b = b.next {
			for _, arg := range b.args {
				p.names[arg] = strconv.Itoa(p.next)
				p.next++
			}
			for o := b.firstOp; o != nil; o = o.next {
				p.number(o)
			}
		}
	}
}

func (p *printer) valueRef(v *valueImpl) string {
	name, ok := p.names[v]
	if !ok {
		return "%<<unknown>>"
	}
	if v.defOp != nil && len(v.defOp.results) > 1 {
		return fmt.Sprintf("%%%s#%d", name, v.index)
	}
	return "%" + name
}

func (p *printer) printOp(op *operationImpl, depth int) {
	indent := strings.Repeat("  ", depth)
	p.sb.WriteString(indent)

	if len(op.results) > 0 {
		name := p.names[op.results[0]]
		if len(op.results) > 1 {
			fmt.Fprintf(&p.sb, "%%%s:%d = ", name, len(op.results))
		} else {
			fmt.Fprintf(&p.sb, "%%%s = ", name)
		}
	}

	if op.name.value == "builtin.module" && len(op.operands) == 0 && len(op.results) == 0 {
		p.printModule(op, depth, indent)
		return
	}

	fmt.Fprintf(&p.sb, "%q(", op.name.value)
	for i, u := range op.operands {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(p.valueRef(u.value))
	}
	p.sb.WriteString(")")

	if dict := op.attrDictText(); dict != "" {
		p.sb.WriteString(" ")
		p.sb.WriteString(dict)
	}

	if len(op.regions) > 0 {
		p.sb.WriteString(" (")
		for i, r := range op.regions {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printRegion(r, depth, indent)
		}
		p.sb.WriteString(")")
	}

	p.sb.WriteString(" : (")
	for i, u := range op.operands {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(u.value.typ.spelling)
	}
	p.sb.WriteString(") -> ")
	switch len(op.results) {
	case 0:
		p.sb.WriteString("()")
	case 1:
		p.sb.WriteString(op.results[0].typ.spelling)
	default:
		p.sb.WriteString("(")
		for i, r := range op.results {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(r.typ.spelling)
		}
		p.sb.WriteString(")")
	}
	p.sb.WriteString("\n")
}

// printModule renders the builtin module shorthand.
func (p *printer) printModule(op *operationImpl, depth int, indent string) {
	p.sb.WriteString("module")
	if dict := op.attrDictText(); dict != "" {
		p.sb.WriteString(" attributes ")
		p.sb.WriteString(dict)
	}
	p.sb.WriteString(" {\n")
	if len(op.regions) > 0 {
		r := op.regions[0]
		for b := r.firstBlock; b != nil; b = b.next {
			for o := b.firstOp; o != nil; o = o.next {
				p.printOp(o, depth+1)
			}
		}
	}
	p.sb.WriteString(indent)
	p.sb.WriteString("}\n")
}

func (p *printer) printRegion(r *regionImpl, depth int, indent string) {
	p.sb.WriteString("{\n")
	for b := r.firstBlock; b != nil; b = b.next {
		if len(b.args) > 0 {
			p.sb.WriteString(indent)
			p.sb.WriteString("^bb0(")
			for i, arg := range b.args {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				fmt.Fprintf(&p.sb, "%s: %s", p.valueRef(arg), arg.typ.spelling)
			}
			p.sb.WriteString("):\n")
		}
		for o := b.firstOp; o != nil; o = o.next {
			p.printOp(o, depth+1)
		}
	}
	p.sb.WriteString(indent)
	p.sb.WriteString("}")
}

// attrDictText renders the combined attribute dictionary in name order,
// or an empty string when there are no attributes. Names that are not
// bare identifiers are quoted.
func (op *operationImpl) attrDictText() string {
	names, lookup := op.combinedAttrs()
	if len(names) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		if isBareIdentifier(name) {
			sb.WriteString(name)
		} else {
			sb.WriteString(strconv.Quote(name))
		}
		sb.WriteString(" = ")
		sb.WriteString(lookup[name].spelling)
	}
	sb.WriteString("}")
	return sb.String()
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c >= '0' && c <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// ValuePrint pushes a description of the value through the callback.
// Operation results print their defining operation; block arguments
// print a placeholder naming their type and position.
func ValuePrint(v Value, callback StringCallback, userData uintptr) {
	if v.p.defOp != nil {
		emitString(printOperation(v.p.defOp), callback, userData)
		return
	}
	emitString(fmt.Sprintf("<block argument> of type '%s' at index: %d\n",
		v.p.typ.spelling, v.p.index), callback, userData)
}
