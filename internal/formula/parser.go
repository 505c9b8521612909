// Grammar
//
// formula:        "="? comparison                                                     ;
// comparison:     concat ( ("=" | "==" | "<>" | "!=" | ">" | ">=" | "<" | "<=") concat )* ;
// concat:         additive ( "&" additive )*                                          ;
// additive:       multiplicative ( ("+" | "-") multiplicative )*                      ;
// multiplicative: power ( ("*" | "/") power )*                                        ;
// power:          percent ( "^" percent )*                                            ;
// percent:        unary "%"*                                                          ;
// unary:          ("-" | "+") unary | qualified                                       ;
// qualified:      primary ( ("!" | ".") primary )?                                    ;
// primary:        STRING | IDENTIFIER | NUMBER | CELL | RANGE | BOOLEAN | UNION
//                 | function | "(" comparison ")"                                     ;
// function:       (IDENTIFIER | CELL | BOOLEAN) "(" arguments? ")"                    ;
// arguments:      comparison? ( SEPARATOR comparison? )*                              ;
//
// criterion:      ( "=" | "==" | "<>" | "!=" | ">" | ">=" | "<" | "<=" )? concat       ;

package formula

import (
	"fmt"
	"strings"
)

type parser struct {
	locale Locale
	s      *scanner
	tok    Token // current token
}

// parse parses a formula. The leading '=' of a cell formula is optional.
func parse(t *Tokenizer, text string) (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			// Convert to SyntaxError or re-panic
			syntaxErr, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			err = syntaxErr
		}
	}()

	p := newParser(t, text)
	if p.tok.Is("=") {
		p.next()
	}

	if p.s.eof {
		panic(p.errorf("empty formula"))
	}

	node = p.comparison()
	p.expectEnd()

	return node, nil
}

func newParser(t *Tokenizer, text string) *parser {
	p := &parser{locale: t.locale, s: newScanner(t, text, 0)}
	p.tok = p.s.tok
	return p
}

// Parse comparisons
//
// comparison: concat ( ("=" | "==" | "<>" | "!=" | ">" | ">=" | "<" | "<=") concat )*
//
func (p *parser) comparison() Node {
	expr := p.concat()

	for {
		op, ok := p.comparisonOperator()
		if !ok {
			return expr
		}
		p.next()
		expr = p.binary(op, expr, p.concat())
	}
}

func (p *parser) concat() Node {
	expr := p.additive()

	for p.tok.Is("&") {
		p.next()
		expr = p.binary(Concat, expr, p.additive())
	}

	return expr
}

func (p *parser) additive() Node {
	expr := p.multiplicative()

	for p.tok.Is("+") || p.tok.Is("-") {
		op := Add
		if p.tok.Is("-") {
			op = Sub
		}
		p.next()
		expr = p.binary(op, expr, p.multiplicative())
	}

	return expr
}

func (p *parser) multiplicative() Node {
	expr := p.power()

	for p.tok.Is("*") || p.tok.Is("/") {
		op := Mul
		if p.tok.Is("/") {
			op = Div
		}
		p.next()
		expr = p.binary(op, expr, p.power())
	}

	return expr
}

// Parse exponentiation. The operator is left associative: 2^3^2 is (2^3)^2.
func (p *parser) power() Node {
	expr := p.percent()

	for p.tok.Is("^") {
		p.next()
		expr = p.binary(Pow, expr, p.percent())
	}

	return expr
}

func (p *parser) percent() Node {
	expr := p.unary()

	for p.tok.Is("%") {
		span := Span{Start: expr.Position().Start, Length: p.tok.End() - expr.Position().Start}
		p.next()
		expr = &UnaryOp{Span: span, Op: Percent, Operand: expr}
	}

	return expr
}

func (p *parser) unary() Node {
	if p.tok.Is("+") {
		p.next()
		return p.unary()
	}

	if p.tok.Is("-") {
		start := p.tok.Start
		p.next()
		operand := p.unary()
		return &UnaryOp{Span: spanFrom(start, operand), Op: Negate, Operand: operand}
	}

	return p.qualified()
}

// Parse a sheet or scope qualified reference
//
// qualified: primary ( ("!" | ".") primary )?
//
func (p *parser) qualified() Node {
	expr := p.primary()

	if !p.tok.Is("!") && !p.tok.Is(".") {
		return expr
	}

	sheet, ok := qualifierName(expr)
	if !ok {
		panic(p.errorf("unexpected %s after %s", p.tok, expr))
	}

	start := expr.Position().Start
	p.next()
	target := p.primary()

	switch e := target.(type) {
	case *CellRef:
		if e.Sheet == "" {
			e.Sheet = sheet
			e.Span = spanFrom(start, e)
			return e
		}
	case *RangeRef:
		if e.Sheet == "" {
			e.Sheet = sheet
			e.Span = spanFrom(start, e)
			return e
		}
	case *Identifier:
		if e.Sheet == "" {
			e.Sheet = sheet
			e.Span = spanFrom(start, e)
			return e
		}
	}

	panic(&SyntaxError{Position: target.Position().Start, Message: fmt.Sprintf("expected a reference after '%s'", sheet)})
}

// qualifierName returns the sheet name carried by a node used before '!' or '.'.
func qualifierName(n Node) (string, bool) {
	switch e := n.(type) {
	case *Identifier:
		return e.Name, e.Sheet == ""
	case *CellRef:
		if e.Sheet != "" || e.RowAbsolute || e.ColAbsolute {
			return "", false
		}
		return ColumnName(e.Col) + fmt.Sprint(e.Row+1), true
	}
	return "", false
}

func (p *parser) primary() Node {
	tok := p.tok

	if p.s.eof {
		panic(p.errorf("unexpected end of formula"))
	}

	switch tok.Kind {
	case STRING:
		p.next()
		return &StringLiteral{Span: tokenSpan(tok), Value: unquote(tok.Raw)}
	case IDENTIFIER:
		if p.s.peekIs("(") {
			return p.function()
		}
		p.next()
		return &Identifier{Span: tokenSpan(tok), Name: tok.Raw}
	case NUMBER:
		n, err := p.locale.parseNumber(tok.Raw)
		if err != nil {
			panic(p.errorf("invalid number '%s'", tok.Raw))
		}
		p.next()
		return &NumberLiteral{Span: tokenSpan(tok), Value: n}
	case CELL:
		if p.s.peekIs("(") && !strings.Contains(tok.Raw, "$") {
			return p.function()
		}
		anchor := p.anchor(tok.Raw)
		p.next()
		return &CellRef{Span: tokenSpan(tok), Anchor: anchor}
	case RANGE:
		ref := p.rangeRef(tok.Raw, tokenSpan(tok))
		p.next()
		return ref
	case BOOLEAN:
		if p.s.peekIs("(") {
			return p.function()
		}
		p.next()
		return &BooleanLiteral{Span: tokenSpan(tok), Value: strings.EqualFold(tok.Raw, "TRUE")}
	case UNION:
		union := &Union{Span: tokenSpan(tok)}
		offset := 0
		for _, member := range strings.Fields(tok.Raw) {
			offset += strings.Index(tok.Raw[offset:], member)
			union.Ranges = append(union.Ranges, p.rangeRef(member, Span{Start: tok.Start + offset, Length: len(member)}))
			offset += len(member)
		}
		p.next()
		return union
	}

	if tok.Is("(") {
		p.next()
		inner := p.comparison()
		end := p.consume(")", "expected ')' after expression")
		return &Group{Span: Span{Start: tok.Start, Length: end - tok.Start}, Inner: inner}
	}

	panic(p.errorf("unexpected %s", tok))
}

// Parse a function call. The current token is the function name.
func (p *parser) function() Node {
	name := p.tok
	p.next()
	p.consume("(", "expected '(' after function name")

	args := []Node{}
	if p.tok.Is(")") {
		end := p.consume(")", "expected ')'")
		return &FunctionCall{Span: Span{Start: name.Start, Length: end - name.Start}, Name: name.Raw, Args: args}
	}

	for {
		if p.isSeparator() || p.tok.Is(")") {
			args = append(args, &Literal{Span: Span{Start: p.tok.Start}})
		} else {
			args = append(args, p.comparison())
		}

		if !p.isSeparator() {
			break
		}
		p.next()
	}

	end := p.consume(")", fmt.Sprintf("expected '%c' or ')' in arguments of %s", p.locale.ParameterSeparator, name.Raw))

	for len(args) > 0 && isEmptyArgument(args[len(args)-1]) {
		args = args[:len(args)-1]
	}

	return &FunctionCall{Span: Span{Start: name.Start, Length: end - name.Start}, Name: name.Raw, Args: args}
}

func isEmptyArgument(n Node) bool {
	l, ok := n.(*Literal)
	return ok && l.Value.IsNil()
}

func (p *parser) isSeparator() bool {
	return p.tok.Is(string(p.locale.ParameterSeparator))
}

func (p *parser) anchor(raw string) Anchor {
	a, ok := parseAnchor(raw)
	if !ok {
		panic(p.errorf("invalid cell reference '%s'", raw))
	}
	return a
}

func (p *parser) rangeRef(raw string, span Span) *RangeRef {
	start, end, _ := strings.Cut(raw, ":")
	return &RangeRef{Span: span, Start: p.anchor(start), End: p.anchor(end)}
}

func (p *parser) comparisonOperator() (BinaryKind, bool) {
	if p.tok.Kind != OPERATOR {
		return 0, false
	}
	op, ok := comparisonKinds[p.tok.Raw]
	return op, ok
}

func (p *parser) binary(op BinaryKind, left, right Node) Node {
	return &BinaryOp{Span: spanFrom(left.Position().Start, right), Op: op, Left: left, Right: right}
}

// Load the next token into p.tok.
func (p *parser) next() {
	p.s.next()
	p.tok = p.s.tok
}

// consume checks that the current token is op, moves past it and returns the
// offset following it.
func (p *parser) consume(op string, msg string) int {
	if !p.tok.Is(op) {
		panic(p.errorf("%s", msg))
	}
	end := p.tok.End()
	p.next()
	return end
}

// expectEnd fails when input is left after a complete expression.
func (p *parser) expectEnd() {
	if rest := p.s.rest(); rest != "" {
		panic(p.errorf("unexpected '%s'", rest))
	}
}

// Format given string and args with Sprintf and return an error
// with that message and the current position.
func (p *parser) errorf(format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	return &SyntaxError{Position: p.tok.Start, Message: message}
}

// maxRow is the largest row number a reference may carry.
const maxRow = 1 << 30

// parseAnchor reads a cell name like $A$1 into a zero based anchor.
func parseAnchor(raw string) (Anchor, bool) {
	a := Anchor{}
	i := 0

	if i < len(raw) && raw[i] == '$' {
		a.ColAbsolute = true
		i++
	}
	start := i
	for i < len(raw) && isLetter(raw[i]) {
		i++
	}
	if i == start {
		return a, false
	}
	a.Col = ColumnIndex(raw[start:i])

	if i < len(raw) && raw[i] == '$' {
		a.RowAbsolute = true
		i++
	}
	start = i
	row := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		row = row*10 + int(raw[i]-'0')
		if row > maxRow {
			return a, false
		}
		i++
	}
	if i == start || i != len(raw) || row == 0 {
		return a, false
	}
	a.Row = row - 1

	return a, true
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func tokenSpan(t Token) Span {
	return Span{Start: t.Start, Length: t.Length}
}

func spanFrom(start int, last Node) Span {
	end := last.Position().Start + last.Position().Length
	return Span{Start: start, Length: end - start}
}
