package grid

import (
	"strings"

	"github.com/tupyy/formula/internal/formula"
)

// Cell is the content of one grid cell.
type Cell struct {
	// Text is what was typed into the cell. Formulas start with '='.
	Text string
	// Node is the parsed formula, nil for literals and unparsable formulas.
	Node   formula.Node
	Status formula.Status
	Value  formula.Value

	// pinned is a status no evaluation may clear, such as a reference
	// shifted off the grid.
	pinned formula.Status
}

func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(c.Text, "=")
}

type key struct {
	row int
	col int
}

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	name  string
	rows  int
	cols  int
	cells map[key]*Cell
	names map[string]formula.RangePosition
	spans []formula.RangePosition
}

func newSheet(name string, rows, cols int) *Sheet {
	return &Sheet{
		name:  name,
		rows:  rows,
		cols:  cols,
		cells: make(map[key]*Cell),
		names: make(map[string]formula.RangePosition),
	}
}

// ID implements containers.Element. Sheet names are case insensitive.
func (s *Sheet) ID() string {
	return strings.ToUpper(s.name)
}

func (s *Sheet) Name() string {
	return s.name
}

func (s *Sheet) Bounds() (rows, cols int) {
	return s.rows, s.cols
}

func (s *Sheet) inBounds(p formula.CellPosition) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < s.rows && p.Col < s.cols
}

func (s *Sheet) cell(p formula.CellPosition) (*Cell, bool) {
	c, ok := s.cells[key{p.Row, p.Col}]
	return c, ok
}

// spanOf returns the merged region covering p.
func (s *Sheet) spanOf(p formula.CellPosition) (formula.RangePosition, bool) {
	for _, r := range s.spans {
		if r.Contains(p) {
			return r, true
		}
	}
	return formula.RangePosition{}, false
}

func overlaps(a, b formula.RangePosition) bool {
	return a.StartRow <= b.EndRow && b.StartRow <= a.EndRow &&
		a.StartCol <= b.EndCol && b.StartCol <= a.EndCol
}
