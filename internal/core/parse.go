package core

import (
	"strconv"
	"strings"
)

// parser consumes the generic textual form with a position cursor that
// tracks line and column for source locations.
type parser struct {
	ctx      *contextImpl
	src      string
	pos      int
	line     int
	col      int
	filename string

	// %name -> the result values (or block argument) bound to the name
	values map[string][]*valueImpl

	failed bool
}

func newParser(ctx *contextImpl, src, filename string) *parser {
	return &parser{
		ctx:      ctx,
		src:      src,
		line:     1,
		col:      1,
		filename: filename,
		values:   map[string][]*valueImpl{},
	}
}

// OperationCreateParse parses one top-level operation from source. The
// source buffer must carry a NUL terminator one byte past its length;
// sourceName labels the buffer in the locations attached to parsed
// operations. Returns the null handle on malformed input.
func OperationCreateParse(c Context, source, sourceName StringRef) Operation {
	c.p.check()
	if !source.nulTerminated() {
		panic("core: parse source buffer is not NUL terminated")
	}
	p := newParser(c.p, source.String(), sourceName.String())
	p.skipSpace()
	op := p.parseOperation()
	if op == nil {
		return Operation{}
	}
	p.skipSpace()
	if p.failed || p.pos != len(p.src) {
		op.destroy()
		return Operation{}
	}
	return Operation{p: op}
}

// parseTypeText parses a type from the front of s, returning the
// remainder. Standalone entry point used by TypeParseGet.
func parseTypeText(ctx *contextImpl, s string) (*typeImpl, string, bool) {
	p := newParser(ctx, s, "-")
	t := p.parseType()
	if t == nil || p.failed {
		return nil, "", false
	}
	return t, p.src[p.pos:], true
}

// parseAttrText parses an attribute from the front of s, returning the
// remainder. Standalone entry point used by AttributeParseGet.
func parseAttrText(ctx *contextImpl, s string) (*attrImpl, string, bool) {
	p := newParser(ctx, s, "-")
	a := p.parseAttribute()
	if a == nil || p.failed {
		return nil, "", false
	}
	return a, p.src[p.pos:], true
}

// cursor

func (p *parser) fail() {
	p.failed = true
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.advance()
		case '/':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
				for !p.eof() && p.peek() != '\n' {
					p.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if p.eof() || p.peek() != c {
		return false
	}
	p.advance()
	return true
}

func (p *parser) expect(c byte) bool {
	if !p.consume(c) {
		p.fail()
		return false
	}
	return true
}

func (p *parser) consumeWord(w string) bool {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], w) {
		return false
	}
	if end := p.pos + len(w); end < len(p.src) && isIdentChar(p.src[end]) {
		return false
	}
	for range w {
		p.advance()
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) bareIdent() string {
	p.skipSpace()
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.advance()
	}
	return p.src[start:p.pos]
}

func (p *parser) stringLiteral() (string, bool) {
	p.skipSpace()
	if p.peek() != '"' {
		return "", false
	}
	start := p.pos
	p.advance()
	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.advance()
			if !p.eof() {
				p.advance()
			}
		case '"':
			p.advance()
			s, err := strconv.Unquote(p.src[start:p.pos])
			if err != nil {
				p.fail()
				return "", false
			}
			return s, true
		default:
			p.advance()
		}
	}
	p.fail()
	return "", false
}

func (p *parser) integer() (int64, bool) {
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.advance()
	}
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start || p.src[start:p.pos] == "-" {
		return 0, false
	}
	v, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		p.fail()
		return 0, false
	}
	return v, true
}

// operations

// parseOperation parses either the module shorthand or a generic
// operation, returning a detached operation owned by the caller.
func (p *parser) parseOperation() *operationImpl {
	p.skipSpace()
	line, col := p.line, p.col

	if p.consumeWord("module") {
		return p.parseModuleTail(line, col)
	}

	var resultName string
	resultCount := 1
	p.skipSpace()
	if p.peek() == '%' {
		p.advance()
		resultName = p.bareIdent()
		if resultName == "" {
			p.fail()
			return nil
		}
		if p.consume(':') {
			n, ok := p.integer()
			if !ok || n < 0 {
				p.fail()
				return nil
			}
			resultCount = int(n)
		}
		if !p.expect('=') {
			return nil
		}
		p.skipSpace()
		line, col = p.line, p.col
	}

	name, ok := p.stringLiteral()
	if !ok {
		p.fail()
		return nil
	}
	loc := p.ctx.fileLineColLoc(p.filename, line, col)

	if !p.expect('(') {
		return nil
	}
	var operands []*valueImpl
	if !p.consume(')') {
		for {
			v := p.parseOperandRef()
			if v == nil {
				return nil
			}
			operands = append(operands, v)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect(')') {
			return nil
		}
	}

	attrs, ok := p.parseAttrDict()
	if !ok {
		return nil
	}

	var regions []*regionImpl
	p.skipSpace()
	if p.peek() == '(' {
		// lookahead: region list opens with "({"
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == '{' {
			p.advance()
			for {
				r := p.parseRegion()
				if r == nil {
					return nil
				}
				regions = append(regions, r)
				if p.consume(',') {
					continue
				}
				break
			}
			if !p.expect(')') {
				return nil
			}
		}
	}

	if !p.expect(':') {
		return nil
	}
	operandTypes, resultTypes, ok := p.parseFunctionType()
	if !ok {
		return nil
	}
	if len(operandTypes) != len(operands) {
		p.fail()
		return nil
	}
	for i, v := range operands {
		if v.typ != operandTypes[i] {
			p.fail()
			return nil
		}
	}
	if resultName != "" && len(resultTypes) != resultCount {
		p.fail()
		return nil
	}

	op := p.buildOperation(name, loc, operands, resultTypes, regions, attrs)
	if op == nil {
		return nil
	}
	if resultName != "" {
		p.values[resultName] = op.results
	}
	return op
}

func (p *parser) parseModuleTail(line, col int) *operationImpl {
	var attrs []NamedAttribute
	if p.consumeWord("attributes") {
		var ok bool
		attrs, ok = p.parseAttrDict()
		if !ok {
			return nil
		}
	}
	r := p.parseRegion()
	if r == nil {
		return nil
	}
	loc := p.ctx.fileLineColLoc(p.filename, line, col)
	return p.buildOperation("builtin.module", loc, nil, nil, []*regionImpl{r}, attrs)
}

// buildOperation funnels parsed pieces through the same construction
// path the builder uses, so parsing honors the unregistered-dialect
// policy.
func (p *parser) buildOperation(name string, loc *locImpl, operands []*valueImpl,
	resultTypes []*typeImpl, regions []*regionImpl, attrs []NamedAttribute) *operationImpl {

	// parsing loads registered dialects on demand
	if ns, _, ok := splitOperationName(name); ok {
		if desc, registered := p.ctx.registered[ns]; registered {
			p.ctx.load(desc)
		}
	}

	state := &OperationState{ctx: p.ctx, name: name, location: Location{p: loc}}
	for _, v := range operands {
		state.operands = append(state.operands, Value{p: v})
	}
	for _, t := range resultTypes {
		state.results = append(state.results, Type{p: t})
	}
	for _, r := range regions {
		state.regions = append(state.regions, Region{p: r})
	}
	state.attributes = attrs
	op := OperationCreate(state)
	if op.IsNull() {
		p.fail()
		return nil
	}
	return op.p
}

func (p *parser) parseOperandRef() *valueImpl {
	p.skipSpace()
	if p.peek() != '%' {
		p.fail()
		return nil
	}
	p.advance()
	name := p.bareIdent()
	if name == "" {
		p.fail()
		return nil
	}
	idx := 0
	if p.consume('#') {
		n, ok := p.integer()
		if !ok {
			p.fail()
			return nil
		}
		idx = int(n)
	}
	bound, ok := p.values[name]
	if !ok || idx < 0 || idx >= len(bound) {
		p.fail()
		return nil
	}
	return bound[idx]
}

// parseRegion parses `{ block }` with an optional entry block header
// `^name(%arg: type, ...):` followed by operations.
func (p *parser) parseRegion() *regionImpl {
	if !p.expect('{') {
		return nil
	}
	block := &blockImpl{}
	p.skipSpace()
	if p.peek() == '^' {
		p.advance()
		if p.bareIdent() == "" {
			p.fail()
			return nil
		}
		if p.consume('(') && !p.consume(')') {
			for {
				p.skipSpace()
				if p.peek() != '%' {
					p.fail()
					return nil
				}
				p.advance()
				argName := p.bareIdent()
				if argName == "" || !p.expect(':') {
					p.fail()
					return nil
				}
				t := p.parseType()
				if t == nil {
					return nil
				}
				arg := &valueImpl{typ: t, defBlock: block, index: len(block.args)}
				block.args = append(block.args, arg)
				p.values[argName] = []*valueImpl{arg}
				if p.consume(',') {
					continue
				}
				break
			}
			if !p.expect(')') {
				return nil
			}
		}
		if !p.expect(':') {
			return nil
		}
	}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.advance()
			break
		}
		if p.eof() {
			p.fail()
			return nil
		}
		op := p.parseOperation()
		if op == nil {
			return nil
		}
		appendOperation(block, op)
	}
	r := &regionImpl{}
	appendBlock(r, block)
	return r
}

func (p *parser) parseAttrDict() ([]NamedAttribute, bool) {
	p.skipSpace()
	if p.peek() != '{' {
		return nil, true
	}
	p.advance()
	if p.consume('}') {
		return nil, true
	}
	var attrs []NamedAttribute
	for {
		p.skipSpace()
		var name string
		if p.peek() == '"' {
			s, ok := p.stringLiteral()
			if !ok {
				return nil, false
			}
			name = s
		} else {
			name = p.bareIdent()
			if name == "" {
				p.fail()
				return nil, false
			}
		}
		var a *attrImpl
		if p.consume('=') {
			a = p.parseAttribute()
			if a == nil {
				p.fail()
				return nil, false
			}
		} else {
			// bare name means the unit attribute
			a = p.ctx.unitAttr()
		}
		attrs = append(attrs, NamedAttribute{
			Name:      IdentifierGet(Context{p: p.ctx}, StringRefFromString(name)),
			Attribute: Attribute{p: a},
		})
		if p.consume(',') {
			continue
		}
		break
	}
	if !p.expect('}') {
		return nil, false
	}
	return attrs, true
}

func (p *parser) parseFunctionType() (operands, results []*typeImpl, ok bool) {
	if !p.expect('(') {
		return nil, nil, false
	}
	if !p.consume(')') {
		for {
			t := p.parseType()
			if t == nil {
				return nil, nil, false
			}
			operands = append(operands, t)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect(')') {
			return nil, nil, false
		}
	}
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], "->") {
		p.fail()
		return nil, nil, false
	}
	p.advance()
	p.advance()
	p.skipSpace()
	if p.peek() == '(' {
		p.advance()
		if p.consume(')') {
			return operands, nil, true
		}
		for {
			t := p.parseType()
			if t == nil {
				return nil, nil, false
			}
			results = append(results, t)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect(')') {
			return nil, nil, false
		}
		return operands, results, true
	}
	t := p.parseType()
	if t == nil {
		return nil, nil, false
	}
	return operands, []*typeImpl{t}, true
}

// types

func (p *parser) parseType() *typeImpl {
	p.skipSpace()
	switch {
	case p.peek() == '!':
		p.advance()
		ns := p.bareIdentNoDot()
		if ns == "" || !p.consume('.') {
			p.fail()
			return nil
		}
		body := p.bareIdent()
		if body == "" {
			p.fail()
			return nil
		}
		return p.ctx.opaqueType(ns, body)
	case p.consumeWord("index"):
		return p.ctx.indexType()
	case p.consumeWord("none"):
		return p.ctx.noneType()
	case strings.HasPrefix(p.src[p.pos:], "tensor<"):
		return p.parseTensorType()
	}
	word := p.bareIdentNoDot()
	if word == "" {
		p.fail()
		return nil
	}
	if t := p.namedType(word); t != nil {
		return t
	}
	p.fail()
	return nil
}

func (p *parser) namedType(word string) *typeImpl {
	parseWidth := func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	switch {
	case strings.HasPrefix(word, "si"):
		if w, ok := parseWidth(word[2:]); ok {
			return p.ctx.integerType(w, signed)
		}
	case strings.HasPrefix(word, "ui"):
		if w, ok := parseWidth(word[2:]); ok {
			return p.ctx.integerType(w, unsigned)
		}
	case strings.HasPrefix(word, "i"):
		if w, ok := parseWidth(word[1:]); ok {
			return p.ctx.integerType(w, signless)
		}
	case strings.HasPrefix(word, "f"):
		if w, ok := parseWidth(word[1:]); ok {
			return p.ctx.floatType(w)
		}
	}
	return nil
}

func (p *parser) parseTensorType() *typeImpl {
	for range "tensor<" {
		p.advance()
	}
	var dims []int64
	for {
		p.skipSpace()
		c := p.peek()
		if c >= '0' && c <= '9' {
			n, ok := p.integer()
			if !ok {
				return nil
			}
			p.skipSpace()
			if p.peek() != 'x' {
				p.fail()
				return nil
			}
			p.advance()
			dims = append(dims, n)
			continue
		}
		break
	}
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expect('>') {
		return nil
	}
	return p.ctx.rankedTensorType(dims, elem)
}

// bareIdentNoDot is bareIdent restricted to not cross a '.', so the
// namespace of "!emitc.opaque" stops at the separator.
func (p *parser) bareIdentNoDot() string {
	p.skipSpace()
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) && p.peek() != '.' {
		p.advance()
	}
	return p.src[start:p.pos]
}

// attributes

func (p *parser) parseAttribute() *attrImpl {
	p.skipSpace()
	switch {
	case p.consumeWord("unit"):
		return p.ctx.unitAttr()
	case p.consumeWord("true"):
		return p.ctx.boolAttr(true)
	case p.consumeWord("false"):
		return p.ctx.boolAttr(false)
	case p.peek() == '"':
		s, ok := p.stringLiteral()
		if !ok {
			return nil
		}
		return p.ctx.stringAttr(s)
	case strings.HasPrefix(p.src[p.pos:], "array<"):
		return p.parseDenseArrayAttr()
	case strings.HasPrefix(p.src[p.pos:], "dense<"):
		return p.parseDenseElementsAttr()
	case p.peek() == '-' || (p.peek() >= '0' && p.peek() <= '9'):
		return p.parseNumberAttr()
	}
	// anything else is a type spelled as an attribute
	t := p.parseType()
	if t == nil {
		return nil
	}
	return p.ctx.typeAttr(t)
}

func (p *parser) parseNumberAttr() *attrImpl {
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.advance()
	}
	isFloat := false
	for !p.eof() {
		c := p.peek()
		if c >= '0' && c <= '9' {
			p.advance()
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.advance()
			if (c == 'e' || c == 'E') && !p.eof() && (p.peek() == '+' || p.peek() == '-') {
				p.advance()
			}
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	var typ *typeImpl
	if p.consume(':') {
		typ = p.parseType()
		if typ == nil {
			return nil
		}
	}
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.fail()
			return nil
		}
		if typ == nil {
			typ = p.ctx.floatType(64)
		}
		return p.ctx.floatAttr(typ, v)
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.fail()
		return nil
	}
	if typ == nil {
		typ = p.ctx.integerType(64, signless)
	}
	if typ.kind == typeFloat {
		return p.ctx.floatAttr(typ, float64(v))
	}
	return p.ctx.integerAttr(typ, v)
}

func (p *parser) parseDenseArrayAttr() *attrImpl {
	for range "array<" {
		p.advance()
	}
	elem := p.bareIdentNoDot()
	if p.consume('>') {
		switch elem {
		case "i1":
			return p.ctx.denseBoolArrayAttr(nil)
		case "i32":
			return p.ctx.denseI32ArrayAttr(nil)
		case "i64":
			return p.ctx.denseI64ArrayAttr(nil)
		}
		p.fail()
		return nil
	}
	if !p.expect(':') {
		return nil
	}
	switch elem {
	case "i1":
		var vals []bool
		for {
			switch {
			case p.consumeWord("true"):
				vals = append(vals, true)
			case p.consumeWord("false"):
				vals = append(vals, false)
			default:
				p.fail()
				return nil
			}
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect('>') {
			return nil
		}
		return p.ctx.denseBoolArrayAttr(vals)
	case "i32", "i64":
		var vals []int64
		for {
			n, ok := p.integer()
			if !ok {
				p.fail()
				return nil
			}
			vals = append(vals, n)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect('>') {
			return nil
		}
		if elem == "i32" {
			out := make([]int32, len(vals))
			for i, v := range vals {
				out[i] = int32(v)
			}
			return p.ctx.denseI32ArrayAttr(out)
		}
		return p.ctx.denseI64ArrayAttr(vals)
	}
	p.fail()
	return nil
}

func (p *parser) parseDenseElementsAttr() *attrImpl {
	for range "dense<" {
		p.advance()
	}
	if !p.expect('[') {
		return nil
	}
	var vals []string
	if !p.consume(']') {
		for {
			s, ok := p.stringLiteral()
			if !ok {
				return nil
			}
			vals = append(vals, s)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.expect(']') {
			return nil
		}
	}
	if !p.expect('>') || !p.expect(':') {
		return nil
	}
	shaped := p.parseType()
	if shaped == nil || shaped.kind != typeRankedTensor {
		p.fail()
		return nil
	}
	return p.ctx.denseElementsStringsAttr(shaped, vals)
}
