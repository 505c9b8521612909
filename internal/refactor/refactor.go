package refactor

import (
	"errors"
	"fmt"

	"github.com/tupyy/formula/internal/formula"
	"go.uber.org/zap"
)

var (
	ErrNoFormula     = errors.New("source cell has no formula")
	ErrSourceInError = errors.New("source formula is in error")
	ErrOverlap       = errors.New("target range overlaps the source cell")
)

// Sheet is the part of the grid the refactorer reads and writes.
type Sheet interface {
	// Formula returns the parsed formula of a cell.
	Formula(p formula.CellPosition) (formula.Node, bool)
	FormulaStatus(p formula.CellPosition) formula.Status
	Bounds(sheet string) (rows, cols int)
	// IsSpanned reports whether p is covered by a merged region it does not anchor.
	IsSpanned(p formula.CellPosition) bool
	SetFormula(p formula.CellPosition, text string, node formula.Node, status formula.Status)
	// MarkDirty queues p and its dependents for recalculation.
	MarkDirty(p formula.CellPosition)
}

// Refactorer copies formulas between cells, shifting relative references.
type Refactorer struct {
	engine *formula.Engine
}

func New(engine *formula.Engine) *Refactorer {
	return &Refactorer{engine: engine}
}

// Reuse writes the formula of source into every cell of target. Relative
// axes of each reference move by the offset between source and target cell;
// absolute axes stay. A target whose shifted references leave the sheet gets
// the InvalidReference status, the other targets are still written.
func (r *Refactorer) Reuse(sheet Sheet, source formula.CellPosition, target formula.RangePosition) error {
	node, ok := sheet.Formula(source)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoFormula, source)
	}

	if status := sheet.FormulaStatus(source); status != formula.StatusNormal {
		return fmt.Errorf("%w: %s has status '%s'", ErrSourceInError, source, status)
	}

	if target.Sheet == "" {
		target.Sheet = source.Sheet
	}
	if target.Contains(source) {
		return fmt.Errorf("%w: %s in %s", ErrOverlap, source, target)
	}

	target.Each(func(p formula.CellPosition) bool {
		if sheet.IsSpanned(p) {
			return true
		}

		shifted, valid := Shift(node, p.Row-source.Row, p.Col-source.Col, func(name string) (int, int) {
			if name == "" {
				name = p.Sheet
			}
			return sheet.Bounds(name)
		})

		status := formula.StatusNormal
		if !valid {
			status = formula.StatusInvalidReference
		}

		text := r.engine.Format(shifted)
		sheet.SetFormula(p, text, shifted, status)
		sheet.MarkDirty(p)

		zap.S().Debugw("formula reused", "source", source.String(), "cell", p.String(), "formula", text, "status", status.String())
		return true
	})

	return nil
}

// Shift returns a copy of n with the relative axes of every reference moved
// by (dRow, dCol). It reports false when a shifted reference leaves the
// bounds of its sheet.
func Shift(n formula.Node, dRow, dCol int, bounds func(sheet string) (rows, cols int)) (formula.Node, bool) {
	valid := true

	shift := func(sheet string, a formula.Anchor) formula.Anchor {
		if !a.RowAbsolute {
			a.Row += dRow
		}
		if !a.ColAbsolute {
			a.Col += dCol
		}

		rows, cols := bounds(sheet)
		if a.Row < 0 || a.Col < 0 || a.Row >= rows || a.Col >= cols {
			valid = false
		}
		return a
	}

	shifted := formula.Rewrite(n, func(n formula.Node) formula.Node {
		switch ref := n.(type) {
		case *formula.CellRef:
			ref.Anchor = shift(ref.Sheet, ref.Anchor)
		case *formula.RangeRef:
			ref.Start = shift(ref.Sheet, ref.Start)
			ref.End = shift(ref.Sheet, ref.End)
		}
		return n
	})

	return shifted, valid
}
