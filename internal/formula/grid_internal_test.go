package formula

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSheet = "Sheet1"

// testGrid is a small in-memory grid of 100 rows and 26 columns per sheet.
type testGrid struct {
	values map[CellPosition]Value
	status map[CellPosition]Status
	names  map[string]RangePosition
	sheets []string
}

func newTestGrid() *testGrid {
	return &testGrid{
		values: map[CellPosition]Value{},
		status: map[CellPosition]Status{},
		names:  map[string]RangePosition{},
		sheets: []string{testSheet, "Sheet2"},
	}
}

func (g *testGrid) set(name string, v Value) *testGrid {
	a, ok := parseAnchor(name)
	if !ok {
		panic(name)
	}
	g.values[a.Cell(testSheet)] = v
	return g
}

func (g *testGrid) CellValue(p CellPosition) (Value, bool) {
	v, ok := g.values[p]
	return v, ok
}

func (g *testGrid) CellStatus(p CellPosition) Status {
	return g.status[p]
}

func (g *testGrid) IterateRange(r RangePosition, visit func(p CellPosition, v Value) bool) {
	r.Each(func(p CellPosition) bool {
		return visit(p, g.values[p])
	})
}

func (g *testGrid) NamedRange(sheet, name string) (RangePosition, bool) {
	r, ok := g.names[name]
	return r, ok && r.Sheet == sheet
}

func (g *testGrid) Sheet(name string) (string, bool) {
	for _, s := range g.sheets {
		if s == name {
			return s, true
		}
	}
	return "", false
}

func (g *testGrid) Bounds(sheet string) (int, int) {
	return 100, 26
}

func (g *testGrid) Names(sheet string) []string {
	names := []string{}
	for name, r := range g.names {
		if r.Sheet == sheet {
			names = append(names, name)
		}
	}
	return names
}

// zeroGrid supplies 0 for empty arithmetic operands.
type zeroGrid struct {
	*testGrid
}

func (zeroGrid) EmptyCellDefault(p CellPosition) Value {
	return Number(0)
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	e, err := New(DefaultLocale, opts...)
	require.NoError(t, err)
	return e
}

func evaluate(t *testing.T, e *Engine, g Grid, text string) (Value, error) {
	node, err := e.Parse(text)
	require.NoError(t, err, text)
	return e.Evaluate(NewContext(CellPosition{Sheet: testSheet, Row: 4, Col: 2}, g), node)
}
