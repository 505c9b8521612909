package formula

import "fmt"

type TokenKind int

const (
	ILLEGAL TokenKind = iota

	STRING
	UNION
	RANGE
	CELL
	NUMBER
	BOOLEAN
	IDENTIFIER
	OPERATOR
)

var tokenNames = map[TokenKind]string{
	ILLEGAL:    "illegal",
	STRING:     "string",
	UNION:      "union",
	RANGE:      "range",
	CELL:       "cell",
	NUMBER:     "number",
	BOOLEAN:    "boolean",
	IDENTIFIER: "identifier",
	OPERATOR:   "operator",
}

// groupKinds maps the named groups of the token pattern to their kind.
var groupKinds = map[string]TokenKind{
	"string":     STRING,
	"union":      UNION,
	"range":      RANGE,
	"cell":       CELL,
	"number":     NUMBER,
	"boolean":    BOOLEAN,
	"identifier": IDENTIFIER,
	"operator":   OPERATOR,
}

func (t TokenKind) String() string {
	return tokenNames[t]
}

// Token is a lexeme together with its absolute position in the formula text.
type Token struct {
	Kind   TokenKind
	Start  int
	Length int
	Raw    string
}

// End returns the offset of the first byte after the token.
func (t Token) End() int {
	return t.Start + t.Length
}

// Is reports whether t is the operator op.
func (t Token) Is(op string) bool {
	return t.Kind == OPERATOR && t.Raw == op
}

func (t Token) String() string {
	if t.Kind == OPERATOR {
		return fmt.Sprintf("'%s'", t.Raw)
	}
	return fmt.Sprintf("%s '%s'", t.Kind, t.Raw)
}
