package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// refError is written in place of a reference shifted outside the grid.
const refError = "#REF!"

// Format regenerates the text of n, mirroring the grammar.
func Format(n Node, loc Locale) string {
	var b strings.Builder
	writeNode(&b, n, loc)
	return b.String()
}

// FormatFormula regenerates the text of n as a cell formula, i.e. with the leading '='.
func FormatFormula(n Node, loc Locale) string {
	return "=" + Format(n, loc)
}

func writeNode(b *strings.Builder, n Node, loc Locale) {
	switch e := n.(type) {
	case *Literal:
		writeLiteral(b, e.Value, loc)
	case *NumberLiteral:
		b.WriteString(loc.formatNumber(e.Value))
	case *StringLiteral:
		b.WriteString(quote(e.Value))
	case *BooleanLiteral:
		b.WriteString(formatBool(e.Value))
	case *CellRef:
		writeSheet(b, e.Sheet)
		b.WriteString(formatAnchor(e.Anchor))
	case *RangeRef:
		writeSheet(b, e.Sheet)
		b.WriteString(formatAnchor(e.Start))
		b.WriteByte(':')
		b.WriteString(formatAnchor(e.End))
	case *Union:
		for i, r := range e.Ranges {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, r, loc)
		}
	case *Identifier:
		writeSheet(b, e.Sheet)
		b.WriteString(e.Name)
	case *UnaryOp:
		if e.Op == Negate {
			b.WriteByte('-')
			writeNode(b, e.Operand, loc)
			return
		}
		writeNode(b, e.Operand, loc)
		b.WriteByte('%')
	case *BinaryOp:
		writeNode(b, e.Left, loc)
		b.WriteString(e.Op.String())
		writeNode(b, e.Right, loc)
	case *FunctionCall:
		b.WriteString(e.Name)
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteRune(loc.ParameterSeparator)
			}
			writeNode(b, arg, loc)
		}
		b.WriteByte(')')
	case *Group:
		b.WriteByte('(')
		writeNode(b, e.Inner, loc)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("formula: unknown node type %T", n))
	}
}

func writeLiteral(b *strings.Builder, v Value, loc Locale) {
	switch v.Kind() {
	case KindNil:
	case KindNumber:
		b.WriteString(loc.formatNumber(v.n))
	case KindString:
		b.WriteString(quote(v.s))
	default:
		b.WriteString(v.String())
	}
}

func writeSheet(b *strings.Builder, sheet string) {
	if sheet == "" {
		return
	}
	b.WriteString(sheet)
	b.WriteByte('!')
}

func formatAnchor(a Anchor) string {
	if a.Row < 0 || a.Col < 0 {
		return refError
	}

	var b strings.Builder
	if a.ColAbsolute {
		b.WriteByte('$')
	}
	b.WriteString(ColumnName(a.Col))
	if a.RowAbsolute {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(a.Row + 1))
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func unquote(raw string) string {
	return strings.ReplaceAll(raw[1:len(raw)-1], `""`, `"`)
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func formatFloat(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// ColumnName converts a zero based column index to its letters (0 -> A, 26 -> AA).
func ColumnName(col int) string {
	name := []byte{}
	for col >= 0 {
		name = append([]byte{byte('A' + col%26)}, name...)
		col = col/26 - 1
	}
	return string(name)
}

// ColumnIndex converts column letters to a zero based index (A -> 0, AA -> 26).
func ColumnIndex(name string) int {
	col := 0
	for _, r := range strings.ToUpper(name) {
		col = col*26 + int(r-'A'+1)
	}
	return col - 1
}

// CellName returns the A1 style name of a zero based position.
func CellName(row, col int) string {
	return formatAnchor(Anchor{Row: row, Col: col})
}
