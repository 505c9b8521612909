package formula

import "strings"

// Criterion is a comparison with an implicit left operand, as used by SUMIF,
// COUNTIF and AVERAGEIF.
type Criterion struct {
	Op      BinaryKind
	Operand Node
}

func parseCriterion(t *Tokenizer, text string) *Criterion {
	tok, ok := t.Next(text, 0)
	if !ok || tok.Kind != OPERATOR {
		return &Criterion{Op: Eq, Operand: criterionLiteral(t.locale, strings.TrimSpace(text))}
	}

	op, ok := comparisonKinds[tok.Raw]
	if !ok {
		return &Criterion{Op: Eq, Operand: criterionLiteral(t.locale, strings.TrimSpace(text))}
	}

	rest := strings.TrimSpace(text[tok.End():])
	if rest == "" {
		return &Criterion{Op: op, Operand: &StringLiteral{}}
	}

	node, err := parse(t, rest)
	if _, isName := node.(*Identifier); err != nil || isName {
		node = criterionLiteral(t.locale, rest)
	}

	return &Criterion{Op: op, Operand: node}
}

// criterionLiteral reads a criterion operand as a number or a boolean when it
// looks like one, as text otherwise.
func criterionLiteral(loc Locale, text string) Node {
	span := Span{Length: len(text)}
	if n, err := loc.parseNumber(text); err == nil {
		return &NumberLiteral{Span: span, Value: n}
	}
	if strings.EqualFold(text, "TRUE") || strings.EqualFold(text, "FALSE") {
		return &BooleanLiteral{Span: span, Value: strings.EqualFold(text, "TRUE")}
	}
	return &StringLiteral{Span: span, Value: text}
}

// newValueCriterion builds the equality test used when the criterion is not text.
func newValueCriterion(v Value) *Criterion {
	return &Criterion{Op: Eq, Operand: &Literal{Value: v}}
}

// matchesBlank reports whether empty cells are candidates for the criterion.
func (c *Criterion) matchesBlank() bool {
	s, ok := c.Operand.(*StringLiteral)
	return ok && s.Value == ""
}

// Match evaluates the criterion with v substituted as the left operand.
func (c *Criterion) Match(e *Engine, ctx *Context, v Value) (bool, error) {
	if v.IsNil() && !c.matchesBlank() {
		return false, nil
	}

	result, err := e.Evaluate(ctx, &BinaryOp{Op: c.Op, Left: &Literal{Value: v}, Right: c.Operand})
	if err != nil {
		return false, err
	}

	b, _ := result.Bool()
	return b, nil
}

func (c *Criterion) String() string {
	return c.Op.String() + c.Operand.String()
}
