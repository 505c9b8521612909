package formula

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

func lookupFunctions() []*function {
	return []*function{
		{name: "VLOOKUP", min: 3, max: 4, eval: fnVLookup},
		{name: "ADDRESS", min: 2, max: 5, eval: fnAddress},
		{name: "INDIRECT", min: 1, max: 2, eval: fnIndirect},
		{name: "ROW", min: 0, max: 1, raw: fnRow},
		{name: "COLUMN", min: 0, max: 1, raw: fnColumn},
		{name: "ROWS", min: 1, max: 1, eval: fnRows},
		{name: "COLUMNS", min: 1, max: 1, eval: fnColumns},
	}
}

// fnVLookup searches the first column of a range and returns the cell of the
// matching row in the requested column. A failed search returns Nil.
func fnVLookup(e *Engine, ctx *Context, args []Value) (Value, error) {
	key := args[0]
	if key.Kind() == KindRange {
		return Nil(), newFault(StatusInvalidValue, "VLOOKUP key must be a single value")
	}

	table, err := toRange("VLOOKUP", args[1])
	if err != nil {
		return Nil(), err
	}

	col, err := toInt(args[2])
	if err != nil {
		return Nil(), err
	}
	if col < 1 || col > table.Cols() {
		return Nil(), nil
	}

	approximate, err := toBool(optional(args, 3, Bool(true)))
	if err != nil {
		return Nil(), err
	}

	keys := make([]Value, 0, table.Rows())
	keyColumn := NewRange(table.Sheet, table.StartRow, table.StartCol, table.EndRow, table.StartCol)
	err = e.eachCell(ctx, keyColumn, func(_ CellPosition, v Value) error {
		keys = append(keys, v)
		return nil
	})
	if err != nil {
		return Nil(), err
	}

	row := -1
	if approximate {
		row = approximateMatch(keys, key)
	} else {
		for i, k := range keys {
			if lookupEqual(k, key) {
				row = i
				break
			}
		}
	}

	if row < 0 {
		return Nil(), nil
	}
	return e.cellValue(ctx, table.Cell(row, col-1))
}

// approximateMatch binary searches keys, sorted ascending, for the last key
// less than or equal to target.
func approximateMatch(keys []Value, target Value) int {
	found := -1
	lo, hi := 0, len(keys)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		c, ok := lookupCompare(keys[mid], target)
		if ok && c <= 0 {
			found = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return found
}

// lookupCompare orders two lookup keys of the same kind. Text compares case
// insensitively.
func lookupCompare(a, b Value) (int, bool) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		switch {
		case a.n < b.n:
			return -1, true
		case a.n > b.n:
			return 1, true
		}
		return 0, true
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(strings.ToLower(a.s), strings.ToLower(b.s)), true
	case a.kind == KindBoolean && b.kind == KindBoolean:
		return int(boolToFloat(a.b) - boolToFloat(b.b)), true
	}
	return 0, false
}

func lookupEqual(a, b Value) bool {
	c, ok := lookupCompare(a, b)
	return ok && c == 0
}

// fnAddress builds a reference text from one based coordinates. The third
// argument selects the absolute axes: 1 both, 2 row, 3 column, 4 none.
func fnAddress(e *Engine, ctx *Context, args []Value) (Value, error) {
	row, err := toInt(args[0])
	if err != nil {
		return Nil(), err
	}
	col, err := toInt(args[1])
	if err != nil {
		return Nil(), err
	}
	mode, err := toInt(optional(args, 2, Number(1)))
	if err != nil {
		return Nil(), err
	}
	a1, err := toBool(optional(args, 3, Bool(true)))
	if err != nil {
		return Nil(), err
	}

	if row < 1 {
		return Nil(), newFault(StatusInvalidValue, "ADDRESS row %d must be positive", row)
	}
	if mode < 1 || mode > 4 {
		return Nil(), newFault(StatusInvalidValue, "ADDRESS reference type %d must be between 1 and 4", mode)
	}
	rowAbsolute := mode == 1 || mode == 2
	colAbsolute := mode == 1 || mode == 3

	var address string
	if a1 {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return Nil(), newFault(StatusInvalidValue, "ADDRESS column %d: %s", col, err)
		}
		address = dollar(colAbsolute) + name + dollar(rowAbsolute) + fmt.Sprint(row)
	} else {
		address = r1c1("R", row, rowAbsolute) + r1c1("C", col, colAbsolute)
	}

	if len(args) > 4 {
		sheet, err := toText(args[4])
		if err != nil {
			return Nil(), err
		}
		address = sheet + "!" + address
	}

	return String(address), nil
}

func dollar(absolute bool) string {
	if absolute {
		return "$"
	}
	return ""
}

func r1c1(axis string, n int, absolute bool) string {
	if absolute {
		return fmt.Sprintf("%s%d", axis, n)
	}
	return fmt.Sprintf("%s[%d]", axis, n)
}

// fnIndirect evaluates a reference given as text, e.g. INDIRECT("Sheet2!B3").
func fnIndirect(e *Engine, ctx *Context, args []Value) (Value, error) {
	text, err := toText(args[0])
	if err != nil {
		return Nil(), err
	}

	ref, err := e.Parse(text)
	if err != nil {
		return Nil(), newFault(StatusInvalidReference, "INDIRECT: '%s' is not a reference", text)
	}

	switch ref.(type) {
	case *CellRef, *RangeRef, *Identifier:
		return e.Evaluate(ctx, ref)
	default:
		return Nil(), newFault(StatusInvalidReference, "INDIRECT: '%s' is not a reference", text)
	}
}

func fnRow(e *Engine, ctx *Context, args []Node) (Value, error) {
	if len(args) == 0 {
		return Number(float64(ctx.Cell.Row + 1)), nil
	}

	r, err := e.referencedRange(ctx, "ROW", args[0])
	if err != nil {
		return Nil(), err
	}
	return Number(float64(r.StartRow + 1)), nil
}

func fnColumn(e *Engine, ctx *Context, args []Node) (Value, error) {
	if len(args) == 0 {
		return Number(float64(ctx.Cell.Col + 1)), nil
	}

	r, err := e.referencedRange(ctx, "COLUMN", args[0])
	if err != nil {
		return Nil(), err
	}
	return Number(float64(r.StartCol + 1)), nil
}

// referencedRange returns the cells a reference argument points at without
// reading them.
func (e *Engine) referencedRange(ctx *Context, name string, n Node) (RangePosition, error) {
	switch ref := n.(type) {
	case *CellRef:
		p, err := e.resolveCell(ctx, ref)
		if err != nil {
			return RangePosition{}, err
		}
		return NewRange(p.Sheet, p.Row, p.Col, p.Row, p.Col), nil
	case *RangeRef:
		return e.resolveRange(ctx, ref)
	case *Identifier:
		sheet, err := ctx.sheet(ref.Sheet)
		if err != nil {
			return RangePosition{}, err
		}
		if r, ok := ctx.Grid.NamedRange(sheet, ref.Name); ok {
			return r, nil
		}
		return RangePosition{}, e.nameNotFound(ctx, sheet, ref.Name)
	}

	v, err := e.Evaluate(ctx, n)
	if err != nil {
		return RangePosition{}, err
	}
	if r, ok := v.RangePosition(); ok {
		return r, nil
	}
	if p, ok := v.CellPosition(); ok {
		return NewRange(p.Sheet, p.Row, p.Col, p.Row, p.Col), nil
	}
	return RangePosition{}, newFault(StatusMismatchedParameter, "%s expects a reference, got '%s'", name, n)
}

func fnRows(e *Engine, ctx *Context, args []Value) (Value, error) {
	r, err := toRange("ROWS", args[0])
	if err != nil {
		return Nil(), err
	}
	return Number(float64(r.Rows())), nil
}

func fnColumns(e *Engine, ctx *Context, args []Value) (Value, error) {
	r, err := toRange("COLUMNS", args[0])
	if err != nil {
		return Nil(), err
	}
	return Number(float64(r.Cols())), nil
}
