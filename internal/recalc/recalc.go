package recalc

import (
	"context"

	"github.com/google/uuid"
	"github.com/tupyy/formula/internal/formula"
	"go.uber.org/zap"
)

// Workbook is the cell store a Recalculator works on.
type Workbook interface {
	Grid() formula.Grid
	// TakeDirty empties the stack of cells written since the last pass.
	TakeDirty() []formula.CellPosition
	Dependents(cells ...formula.CellPosition) []formula.CellPosition
	Order(cells []formula.CellPosition) (order, cyclic []formula.CellPosition)
	Volatile() []formula.CellPosition
	Formulas() []formula.CellPosition
	Formula(p formula.CellPosition) (formula.Node, bool)
	SetResult(p formula.CellPosition, v formula.Value, status formula.Status)
}

// Result summarizes one cascade.
type Result struct {
	CascadeID string
	// Evaluated counts the formulas evaluated.
	Evaluated int
	// Circular holds the formula cells found on, or downstream of, a circular reference.
	Circular []formula.CellPosition
}

// Recalculator brings formula values up to date after cells changed.
type Recalculator struct {
	engine *formula.Engine
}

func New(engine *formula.Engine) *Recalculator {
	return &Recalculator{engine: engine}
}

// Recalculate evaluates the dirty cells, the volatile cells and everything
// depending on them, each after its precedents.
func (r *Recalculator) Recalculate(ctx context.Context, wb Workbook) (Result, error) {
	seeds := append(wb.TakeDirty(), wb.Volatile()...)
	return r.cascade(ctx, wb, wb.Dependents(seeds...))
}

// RecalculateAll evaluates every formula of the workbook.
func (r *Recalculator) RecalculateAll(ctx context.Context, wb Workbook) (Result, error) {
	wb.TakeDirty()
	return r.cascade(ctx, wb, wb.Formulas())
}

func (r *Recalculator) cascade(ctx context.Context, wb Workbook, cells []formula.CellPosition) (Result, error) {
	result := Result{CascadeID: uuid.New().String()}
	if len(cells) == 0 {
		return result, nil
	}

	order, cyclic := wb.Order(cells)

	for _, p := range cyclic {
		if _, ok := wb.Formula(p); !ok {
			continue
		}
		wb.SetResult(p, formula.Nil(), formula.StatusCircularReference)
		result.Circular = append(result.Circular, p)
	}
	if len(result.Circular) > 0 {
		zap.S().Infow("circular reference", "cascade_id", result.CascadeID, "cells", result.Circular)
	}

	grid := wb.Grid()
	for _, p := range order {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		node, ok := wb.Formula(p)
		if !ok {
			continue
		}

		v, err := r.engine.Evaluate(formula.NewContext(p, grid), node)
		status := formula.StatusOf(err)
		if err != nil {
			v = formula.Nil()
			zap.S().Debugw("formula in error", "cascade_id", result.CascadeID, "cell", p.String(), "status", status.String(), "error", err)
		}

		wb.SetResult(p, v, status)
		result.Evaluated++
	}

	zap.S().Debugw("cascade done", "cascade_id", result.CascadeID, "cells", len(cells), "evaluated", result.Evaluated)

	return result, nil
}
