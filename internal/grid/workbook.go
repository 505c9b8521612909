package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tupyy/formula/internal/containers"
	"github.com/tupyy/formula/internal/formula"
	"go.uber.org/zap"
)

const (
	DefaultRows    = 1048576
	DefaultColumns = 16384

	// ranges larger than this are tracked as a whole rather than per cell
	maxRangeEdges = 4096
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrSheetExists   = errors.New("sheet already exists")
	ErrOutOfBounds   = errors.New("cell out of bounds")
	ErrOverlap       = errors.New("merged regions overlap")
)

type Option func(w *Workbook)

// WithBounds sets the size of the sheets added afterwards.
func WithBounds(rows, cols int) Option {
	return func(w *Workbook) {
		w.rows = rows
		w.cols = cols
	}
}

// WithEmptyCellDefault makes empty cells read as v in arithmetic.
func WithEmptyCellDefault(v formula.Value) Option {
	return func(w *Workbook) {
		w.emptyDefault = &v
	}
}

// Workbook is an in-memory set of sheets. It keeps the dependencies between
// formula cells and the stack of cells waiting for recalculation.
// It is *not* thread safe.
type Workbook struct {
	engine       *formula.Engine
	sheets       *containers.Store[*Sheet]
	names        map[string]formula.RangePosition
	dependencies *containers.Graph[formula.CellPosition]
	dirty        *containers.Stack[formula.CellPosition]
	volatile     map[formula.CellPosition]bool
	// wide holds, per formula cell, the large ranges it depends on
	wide         map[formula.CellPosition][]formula.RangePosition
	rows         int
	cols         int
	emptyDefault *formula.Value
}

func New(engine *formula.Engine, opts ...Option) *Workbook {
	w := &Workbook{
		engine:       engine,
		sheets:       containers.NewStore[*Sheet](),
		names:        make(map[string]formula.RangePosition),
		dependencies: containers.NewGraph[formula.CellPosition](),
		dirty:        containers.NewStack[formula.CellPosition](),
		volatile:     make(map[formula.CellPosition]bool),
		wide:         make(map[formula.CellPosition][]formula.RangePosition),
		rows:         DefaultRows,
		cols:         DefaultColumns,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *Workbook) Engine() *formula.Engine {
	return w.engine
}

// Grid returns the view of the workbook the engine evaluates against.
func (w *Workbook) Grid() formula.Grid {
	if w.emptyDefault != nil {
		return &defaultingGrid{w}
	}
	return w
}

func (w *Workbook) AddSheet(name string) (*Sheet, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrSheetNotFound)
	}
	if _, found := w.sheets.Find(strings.ToUpper(name)); found {
		return nil, fmt.Errorf("%w: %s", ErrSheetExists, name)
	}

	s := newSheet(name, w.rows, w.cols)
	w.sheets.Add(s)

	return s, nil
}

func (w *Workbook) GetSheet(name string) (*Sheet, bool) {
	return w.sheets.Find(strings.ToUpper(name))
}

// SheetNames returns the sheet names in creation order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, w.sheets.Len())
	iter := w.sheets.Iter()
	for iter.HasNext() {
		s, _ := iter.Next()
		names = append(names, s.name)
	}
	return names
}

func (w *Workbook) sheetOf(p formula.CellPosition) (*Sheet, error) {
	s, found := w.GetSheet(p.Sheet)
	if !found {
		return nil, fmt.Errorf("%w: '%s'", ErrSheetNotFound, p.Sheet)
	}
	if !s.inBounds(p) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	return s, nil
}

// Set writes text into a cell the way a user types it. Text starting with
// '=' is a formula, otherwise it is read as a number, a boolean or a string.
// An unparsable formula is stored with the SyntaxError status.
func (w *Workbook) Set(p formula.CellPosition, text string) error {
	s, err := w.sheetOf(p)
	if err != nil {
		return err
	}
	p.Sheet = s.name

	if !strings.HasPrefix(text, "=") {
		if text == "" {
			w.Clear(p)
			return nil
		}
		return w.SetValue(p, w.literal(text))
	}

	node, err := w.engine.Parse(text)
	if err != nil {
		zap.S().Debugw("formula not parsed", "cell", p.String(), "error", err)
		w.SetFormula(p, text, nil, formula.StatusSyntaxError)
	} else {
		w.SetFormula(p, text, node, formula.StatusNormal)
	}
	w.MarkDirty(p)

	return nil
}

// SetValue writes a literal value into a cell.
func (w *Workbook) SetValue(p formula.CellPosition, v formula.Value) error {
	s, err := w.sheetOf(p)
	if err != nil {
		return err
	}
	p.Sheet = s.name

	s.cells[key{p.Row, p.Col}] = &Cell{Text: v.String(), Value: v}
	w.unregister(p)
	w.linkWide(p)
	w.MarkDirty(p)

	return nil
}

// Clear empties a cell.
func (w *Workbook) Clear(p formula.CellPosition) {
	s, err := w.sheetOf(p)
	if err != nil {
		return
	}
	p.Sheet = s.name

	delete(s.cells, key{p.Row, p.Col})
	w.unregister(p)
	w.MarkDirty(p)
}

func (w *Workbook) literal(text string) formula.Value {
	loc := w.engine.Locale()
	trimmed := strings.TrimSpace(text)

	if strings.EqualFold(trimmed, "TRUE") {
		return formula.Bool(true)
	}
	if strings.EqualFold(trimmed, "FALSE") {
		return formula.Bool(false)
	}

	number := strings.Replace(trimmed, string(loc.DecimalSeparator), ".", 1)
	if loc.DecimalSeparator != '.' && strings.Contains(trimmed, ".") {
		return formula.String(text)
	}
	if n, err := strconv.ParseFloat(number, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return formula.Number(n)
	}

	return formula.String(text)
}

// SetFormula stores a parsed formula and records the cells it depends on.
func (w *Workbook) SetFormula(p formula.CellPosition, text string, node formula.Node, status formula.Status) {
	s, err := w.sheetOf(p)
	if err != nil {
		zap.S().Errorw("failed to set formula", "cell", p.String(), "error", err)
		return
	}
	p.Sheet = s.name

	c := &Cell{Text: text, Node: node, Status: status}
	if node != nil && status != formula.StatusNormal {
		c.pinned = status
	}
	s.cells[key{p.Row, p.Col}] = c
	w.unregister(p)
	if node != nil {
		w.register(p, node)
	}
	w.linkWide(p)
}

// SetResult records the outcome of evaluating the formula of p.
func (w *Workbook) SetResult(p formula.CellPosition, v formula.Value, status formula.Status) {
	s, err := w.sheetOf(p)
	if err != nil {
		return
	}
	c, ok := s.cell(p)
	if !ok {
		return
	}
	if c.pinned != formula.StatusNormal {
		c.Value, c.Status = formula.Nil(), c.pinned
		return
	}
	c.Value = v
	c.Status = status
}

func (w *Workbook) register(p formula.CellPosition, node formula.Node) {
	if w.engine.IsVolatile(node) {
		w.volatile[p] = true
	}

	for _, ref := range formula.References(node) {
		switch r := ref.(type) {
		case *formula.CellRef:
			sheet, ok := w.resolveSheet(r.Sheet, p.Sheet)
			if !ok || r.Row < 0 || r.Col < 0 {
				continue
			}
			w.dependencies.AddEdge(r.Anchor.Cell(sheet), p)
		case *formula.RangeRef:
			if sheet, ok := w.resolveSheet(r.Sheet, p.Sheet); ok {
				w.addRangeEdges(r.Range(sheet), p)
			}
		case *formula.Identifier:
			sheet, ok := w.resolveSheet(r.Sheet, p.Sheet)
			if !ok {
				continue
			}
			if rng, found := w.NamedRange(sheet, r.Name); found {
				w.addRangeEdges(rng, p)
			}
		}
	}
}

func (w *Workbook) addRangeEdges(r formula.RangePosition, dependent formula.CellPosition) {
	s, found := w.GetSheet(r.Sheet)
	if !found {
		return
	}
	if r.StartRow < 0 {
		r.StartRow = 0
	}
	if r.StartCol < 0 {
		r.StartCol = 0
	}
	if r.EndRow >= s.rows {
		r.EndRow = s.rows - 1
	}
	if r.EndCol >= s.cols {
		r.EndCol = s.cols - 1
	}

	if r.Size() <= maxRangeEdges {
		r.Each(func(c formula.CellPosition) bool {
			w.dependencies.AddEdge(c, dependent)
			return true
		})
		return
	}

	// only occupied cells get an edge now, the others when they are written
	w.wide[dependent] = append(w.wide[dependent], r)
	for k := range s.cells {
		c := formula.CellPosition{Sheet: s.name, Row: k.row, Col: k.col}
		if r.Contains(c) {
			w.dependencies.AddEdge(c, dependent)
		}
	}
}

// linkWide adds the edges from a written cell to the formulas depending on a
// large range covering it.
func (w *Workbook) linkWide(p formula.CellPosition) {
	for dependent, ranges := range w.wide {
		for _, r := range ranges {
			if r.Contains(p) {
				w.dependencies.AddEdge(p, dependent)
				break
			}
		}
	}
}

func (w *Workbook) unregister(p formula.CellPosition) {
	delete(w.volatile, p)
	delete(w.wide, p)
	if w.dependencies.GetNode(p) != nil {
		_ = w.dependencies.RemoveInEdges(p)
	}
}

func (w *Workbook) resolveSheet(name, current string) (string, bool) {
	if name == "" {
		return current, true
	}
	return w.Sheet(name)
}

// MarkDirty queues p for recalculation.
func (w *Workbook) MarkDirty(p formula.CellPosition) {
	w.dirty.Push(p)
}

// TakeDirty empties the recalculation stack, most recent cell first.
func (w *Workbook) TakeDirty() []formula.CellPosition {
	return w.dirty.Drain()
}

// Dependents returns cells followed by every formula cell depending on them,
// directly or not.
func (w *Workbook) Dependents(cells ...formula.CellPosition) []formula.CellPosition {
	return w.dependencies.Reachable(cells...)
}

// Order sorts cells so that each comes after its precedents. Cells on, or
// downstream of, a circular reference are returned separately.
func (w *Workbook) Order(cells []formula.CellPosition) (order, cyclic []formula.CellPosition) {
	return w.dependencies.TopologicalOrder(cells)
}

// Volatile returns the cells whose formula must be recalculated on every pass.
func (w *Workbook) Volatile() []formula.CellPosition {
	cells := make([]formula.CellPosition, 0, len(w.volatile))
	for p := range w.volatile {
		cells = append(cells, p)
	}
	sortPositions(cells)
	return cells
}

// Merge joins the cells of r into one region anchored at its top left cell.
func (w *Workbook) Merge(r formula.RangePosition) error {
	s, err := w.sheetOf(r.TopLeft())
	if err != nil {
		return err
	}
	r.Sheet = s.name
	for _, span := range s.spans {
		if overlaps(span, r) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, span, r)
		}
	}
	s.spans = append(s.spans, r)
	return nil
}

// DefineName adds a named range. An empty sheet makes the name visible from every sheet.
func (w *Workbook) DefineName(sheet, name string, r formula.RangePosition) error {
	if _, found := w.GetSheet(r.Sheet); !found {
		return fmt.Errorf("%w: '%s'", ErrSheetNotFound, r.Sheet)
	}

	if sheet == "" {
		w.names[strings.ToUpper(name)] = r
		return nil
	}

	s, found := w.GetSheet(sheet)
	if !found {
		return fmt.Errorf("%w: '%s'", ErrSheetNotFound, sheet)
	}
	s.names[strings.ToUpper(name)] = r
	return nil
}

// Cell returns the content of p.
func (w *Workbook) Cell(p formula.CellPosition) (*Cell, bool) {
	s, found := w.GetSheet(p.Sheet)
	if !found {
		return nil, false
	}
	return s.cell(p)
}

// Cells returns the positions of the non empty cells of a sheet in row major order.
func (w *Workbook) Cells(sheet string) []formula.CellPosition {
	s, found := w.GetSheet(sheet)
	if !found {
		return nil
	}

	cells := make([]formula.CellPosition, 0, len(s.cells))
	for k := range s.cells {
		cells = append(cells, formula.CellPosition{Sheet: s.name, Row: k.row, Col: k.col})
	}
	sortPositions(cells)

	return cells
}

func sortPositions(cells []formula.CellPosition) {
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.Sheet != b.Sheet {
			return a.Sheet < b.Sheet
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
}

// CellValue implements formula.Grid.
func (w *Workbook) CellValue(p formula.CellPosition) (formula.Value, bool) {
	c, ok := w.Cell(p)
	if !ok {
		return formula.Nil(), false
	}
	return c.Value, true
}

// CellStatus implements formula.Grid.
func (w *Workbook) CellStatus(p formula.CellPosition) formula.Status {
	c, ok := w.Cell(p)
	if !ok {
		return formula.StatusNormal
	}
	return c.Status
}

// IterateRange implements formula.Grid.
func (w *Workbook) IterateRange(r formula.RangePosition, visit func(p formula.CellPosition, v formula.Value) bool) {
	s, found := w.GetSheet(r.Sheet)
	if !found {
		return
	}

	r.Each(func(p formula.CellPosition) bool {
		if c, ok := s.cell(p); ok {
			return visit(p, c.Value)
		}
		return visit(p, formula.Nil())
	})
}

// NamedRange implements formula.Grid. Names of the sheet hide workbook names.
func (w *Workbook) NamedRange(sheet, name string) (formula.RangePosition, bool) {
	upper := strings.ToUpper(name)
	if s, found := w.GetSheet(sheet); found {
		if r, ok := s.names[upper]; ok {
			return r, true
		}
	}
	r, ok := w.names[upper]
	return r, ok
}

// Sheet implements formula.Grid.
func (w *Workbook) Sheet(name string) (string, bool) {
	s, found := w.GetSheet(name)
	if !found {
		return "", false
	}
	return s.name, true
}

// Bounds implements formula.Bounded.
func (w *Workbook) Bounds(sheet string) (rows, cols int) {
	s, found := w.GetSheet(sheet)
	if !found {
		return 0, 0
	}
	return s.Bounds()
}

// Names implements formula.NameLister.
func (w *Workbook) Names(sheet string) []string {
	names := make([]string, 0, len(w.names))
	for n := range w.names {
		names = append(names, n)
	}
	if s, found := w.GetSheet(sheet); found {
		for n := range s.names {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Formula returns the parsed formula of p.
func (w *Workbook) Formula(p formula.CellPosition) (formula.Node, bool) {
	c, ok := w.Cell(p)
	if !ok || c.Node == nil {
		return nil, false
	}
	return c.Node, true
}

// FormulaStatus returns the status of p.
func (w *Workbook) FormulaStatus(p formula.CellPosition) formula.Status {
	return w.CellStatus(p)
}

// IsSpanned reports whether p is hidden by a merged region anchored elsewhere.
func (w *Workbook) IsSpanned(p formula.CellPosition) bool {
	s, found := w.GetSheet(p.Sheet)
	if !found {
		return false
	}
	p.Sheet = s.name
	span, ok := s.spanOf(p)
	if !ok {
		return false
	}
	return span.StartRow != p.Row || span.StartCol != p.Col
}

type defaultingGrid struct {
	*Workbook
}

func (g *defaultingGrid) EmptyCellDefault(p formula.CellPosition) formula.Value {
	return *g.emptyDefault
}

// Formulas returns every formula cell of the workbook.
func (w *Workbook) Formulas() []formula.CellPosition {
	cells := []formula.CellPosition{}
	iter := w.sheets.Iter()
	for iter.HasNext() {
		s, _ := iter.Next()
		for k, c := range s.cells {
			if c.IsFormula() {
				cells = append(cells, formula.CellPosition{Sheet: s.name, Row: k.row, Col: k.col})
			}
		}
	}
	sortPositions(cells)
	return cells
}
