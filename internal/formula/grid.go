package formula

// Grid is the engine's read access to the spreadsheet cells. Positions always
// carry a resolved sheet name.
type Grid interface {
	// CellValue returns the value of a cell, false when the cell is empty.
	CellValue(p CellPosition) (Value, bool)
	// CellStatus returns the formula status of a cell. Empty and literal cells are Normal.
	CellStatus(p CellPosition) Status
	// IterateRange visits the cells of r in row major order, empty cells as Nil,
	// until visit returns false.
	IterateRange(r RangePosition, visit func(p CellPosition, v Value) bool)
	// NamedRange resolves a name defined on sheet.
	NamedRange(sheet, name string) (RangePosition, bool)
	// Sheet resolves a sheet name to its canonical spelling.
	Sheet(name string) (string, bool)
}

// EmptyCellDefaulter is implemented by grids which supply a value for empty
// operands of arithmetic expressions.
type EmptyCellDefaulter interface {
	EmptyCellDefault(p CellPosition) Value
}

// NameResolver is implemented by grids which resolve names that are not
// named ranges.
type NameResolver interface {
	ResolveName(ctx *Context, name string) (Value, bool)
}

// Bounded is implemented by grids with a fixed size per sheet.
type Bounded interface {
	Bounds(sheet string) (rows, cols int)
}

// NameLister is implemented by grids which can enumerate the names defined on a sheet.
type NameLister interface {
	Names(sheet string) []string
}

// Context is the evaluation context of one formula: the cell owning it and
// the grid it lives in.
type Context struct {
	Cell CellPosition
	Grid Grid
}

func NewContext(cell CellPosition, grid Grid) *Context {
	return &Context{Cell: cell, Grid: grid}
}

// inBounds reports whether p lies inside the grid.
func (c *Context) inBounds(p CellPosition) bool {
	if p.Row < 0 || p.Col < 0 {
		return false
	}
	if b, ok := c.Grid.(Bounded); ok {
		rows, cols := b.Bounds(p.Sheet)
		return p.Row < rows && p.Col < cols
	}
	return true
}

// sheet resolves the optional sheet qualifier of a reference.
func (c *Context) sheet(name string) (string, error) {
	if name == "" {
		return c.Cell.Sheet, nil
	}
	sheet, ok := c.Grid.Sheet(name)
	if !ok {
		return "", newFault(StatusInvalidReference, "sheet '%s' not found", name)
	}
	return sheet, nil
}
