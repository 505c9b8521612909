package formula

// Span locates a node in the formula text it was parsed from.
type Span struct {
	Start  int
	Length int
}

// Node is a parsed formula expression. The set of implementations is closed:
// every switch over a Node handles the types declared in this file.
type Node interface {
	Position() Span
	String() string
	node()
}

func (s Span) Position() Span { return s }

// Literal embeds an already evaluated value. The parser only produces it for
// empty function arguments; aggregate functions use it to build criteria.
type Literal struct {
	Span
	Value Value
}

type NumberLiteral struct {
	Span
	Value float64
}

type StringLiteral struct {
	Span
	Value string
}

type BooleanLiteral struct {
	Span
	Value bool
}

// Anchor is one corner of a reference. Row and Col are zero based.
type Anchor struct {
	Row         int
	Col         int
	RowAbsolute bool
	ColAbsolute bool
}

// CellRef is a reference like A1, $B$2 or Sheet2!C3.
type CellRef struct {
	Span
	Sheet string
	Anchor
}

// RangeRef is a reference like A1:B10.
type RangeRef struct {
	Span
	Sheet string
	Start Anchor
	End   Anchor
}

// Union is a space separated list of ranges like A1:A3 C1:C3.
type Union struct {
	Span
	Ranges []*RangeRef
}

// Identifier is a name resolved at evaluation time, usually a named range.
type Identifier struct {
	Span
	Sheet string
	Name  string
}

type UnaryKind int

const (
	Negate UnaryKind = iota
	Percent
)

type UnaryOp struct {
	Span
	Op      UnaryKind
	Operand Node
}

type BinaryKind int

const (
	Add BinaryKind = iota
	Sub
	Mul
	Div
	Pow
	Concat
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
)

var binarySymbols = map[BinaryKind]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Pow:    "^",
	Concat: "&",
	Eq:     "=",
	Ne:     "<>",
	Gt:     ">",
	Ge:     ">=",
	Lt:     "<",
	Le:     "<=",
}

// comparisonKinds maps every comparison operator spelling to its kind.
var comparisonKinds = map[string]BinaryKind{
	"=":  Eq,
	"==": Eq,
	"<>": Ne,
	"!=": Ne,
	">":  Gt,
	">=": Ge,
	"<":  Lt,
	"<=": Le,
}

func (k BinaryKind) String() string {
	return binarySymbols[k]
}

type BinaryOp struct {
	Span
	Op    BinaryKind
	Left  Node
	Right Node
}

type FunctionCall struct {
	Span
	Name string
	Args []Node
}

// Group is a parenthesized expression. It is kept so that the regenerated
// text matches what the user wrote.
type Group struct {
	Span
	Inner Node
}

func (*Literal) node()        {}
func (*NumberLiteral) node()  {}
func (*StringLiteral) node()  {}
func (*BooleanLiteral) node() {}
func (*CellRef) node()        {}
func (*RangeRef) node()       {}
func (*Union) node()          {}
func (*Identifier) node()     {}
func (*UnaryOp) node()        {}
func (*BinaryOp) node()       {}
func (*FunctionCall) node()   {}
func (*Group) node()          {}

func (n *Literal) String() string        { return Format(n, DefaultLocale) }
func (n *NumberLiteral) String() string  { return Format(n, DefaultLocale) }
func (n *StringLiteral) String() string  { return Format(n, DefaultLocale) }
func (n *BooleanLiteral) String() string { return Format(n, DefaultLocale) }
func (n *CellRef) String() string        { return Format(n, DefaultLocale) }
func (n *RangeRef) String() string       { return Format(n, DefaultLocale) }
func (n *Union) String() string          { return Format(n, DefaultLocale) }
func (n *Identifier) String() string     { return Format(n, DefaultLocale) }
func (n *UnaryOp) String() string        { return Format(n, DefaultLocale) }
func (n *BinaryOp) String() string       { return Format(n, DefaultLocale) }
func (n *FunctionCall) String() string   { return Format(n, DefaultLocale) }
func (n *Group) String() string          { return Format(n, DefaultLocale) }

// Cell resolves the anchor against the sheet the reference lives on.
func (a Anchor) Cell(sheet string) CellPosition {
	return CellPosition{Sheet: sheet, Row: a.Row, Col: a.Col}
}

// Range returns the normalised range covered by r on sheet.
func (r *RangeRef) Range(sheet string) RangePosition {
	return NewRange(sheet, r.Start.Row, r.Start.Col, r.End.Row, r.End.Col)
}
