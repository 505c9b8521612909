package formula

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindDateTime
	KindCell
	KindRange
)

var kindNames = map[Kind]string{
	KindNil:      "nil",
	KindBoolean:  "boolean",
	KindNumber:   "number",
	KindString:   "string",
	KindDateTime: "datetime",
	KindCell:     "cell",
	KindRange:    "range",
}

func (k Kind) String() string {
	return kindNames[k]
}

// CellPosition addresses one cell. Row and Col are zero based.
type CellPosition struct {
	Sheet string
	Row   int
	Col   int
}

func (p CellPosition) String() string {
	if p.Sheet == "" {
		return CellName(p.Row, p.Col)
	}
	return p.Sheet + "!" + CellName(p.Row, p.Col)
}

// RangePosition is a rectangular block of cells. Start is always the top left corner.
type RangePosition struct {
	Sheet    string
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// NewRange returns the normalised range spanned by the two corners.
func NewRange(sheet string, r1, c1, r2, c2 int) RangePosition {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return RangePosition{Sheet: sheet, StartRow: r1, StartCol: c1, EndRow: r2, EndCol: c2}
}

func (r RangePosition) Rows() int {
	return r.EndRow - r.StartRow + 1
}

func (r RangePosition) Cols() int {
	return r.EndCol - r.StartCol + 1
}

func (r RangePosition) Size() int {
	return r.Rows() * r.Cols()
}

// Contains reports whether p lies inside r. The sheet must match.
func (r RangePosition) Contains(p CellPosition) bool {
	return p.Sheet == r.Sheet &&
		p.Row >= r.StartRow && p.Row <= r.EndRow &&
		p.Col >= r.StartCol && p.Col <= r.EndCol
}

// Cell returns the position at the zero based offset (i, j) from the top left corner.
func (r RangePosition) Cell(i, j int) CellPosition {
	return CellPosition{Sheet: r.Sheet, Row: r.StartRow + i, Col: r.StartCol + j}
}

// TopLeft returns the first cell of the range.
func (r RangePosition) TopLeft() CellPosition {
	return r.Cell(0, 0)
}

// Each calls f for every cell of r in row major order until f returns false.
func (r RangePosition) Each(f func(p CellPosition) bool) {
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			if !f(CellPosition{Sheet: r.Sheet, Row: row, Col: col}) {
				return
			}
		}
	}
}

func (r RangePosition) String() string {
	s := CellName(r.StartRow, r.StartCol) + ":" + CellName(r.EndRow, r.EndCol)
	if r.Sheet == "" {
		return s
	}
	return r.Sheet + "!" + s
}

// Value is the result of evaluating a formula. The zero Value is Nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	cell CellPosition
	rng  RangePosition
}

func Nil() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t}
}

func Cell(p CellPosition) Value {
	return Value{kind: KindCell, cell: p}
}

func Range(r RangePosition) Value {
	return Value{kind: KindRange, rng: r}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNil() bool {
	return v.kind == KindNil
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

func (v Value) Number() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindDateTime
}

func (v Value) CellPosition() (CellPosition, bool) {
	return v.cell, v.kind == KindCell
}

func (v Value) RangePosition() (RangePosition, bool) {
	return v.rng, v.kind == KindRange
}

// Primitive unwraps v into the Go value custom functions receive.
func (v Value) Primitive() interface{} {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindDateTime:
		return v.t
	case KindCell:
		return v.cell
	case KindRange:
		return v.rng
	default:
		return nil
	}
}

// FromPrimitive wraps a Go value. Unsupported types are formatted as strings.
func FromPrimitive(p interface{}) Value {
	switch pp := p.(type) {
	case nil:
		return Nil()
	case Value:
		return pp
	case bool:
		return Bool(pp)
	case float64:
		return Number(pp)
	case float32:
		return Number(float64(pp))
	case int:
		return Number(float64(pp))
	case int64:
		return Number(float64(pp))
	case string:
		return String(pp)
	case time.Time:
		return DateTime(pp)
	case CellPosition:
		return Cell(pp)
	case RangePosition:
		return Range(pp)
	default:
		return String(fmt.Sprintf("%v", pp))
	}
}

// String returns the canonical text of v, used by concatenation and text functions.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return formatBool(v.b)
	case KindNumber:
		return formatFloat(v.n)
	case KindString:
		return v.s
	case KindDateTime:
		return strfmt.DateTime(v.t).String()
	case KindCell:
		return v.cell.String()
	case KindRange:
		return v.rng.String()
	default:
		return ""
	}
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindCell:
		return v.cell == o.cell
	case KindRange:
		return v.rng == o.rng
	default:
		return true
	}
}

// GoString makes test failures readable.
func (v Value) GoString() string {
	if v.kind == KindNil {
		return "nil"
	}
	return fmt.Sprintf("%s(%s)", v.kind, v.String())
}
