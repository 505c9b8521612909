package grid

import (
	"fmt"
	"strings"

	"github.com/tupyy/formula/internal/formula"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// LoadXLSX reads the sheets, cells, merged regions and defined names of an
// Excel workbook. Cached values of formula cells are ignored.
func LoadXLSX(engine *formula.Engine, path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", path, err)
	}
	defer f.Close()

	w := New(engine, opts...)

	sheets := f.GetSheetList()
	for _, name := range sheets {
		if _, err := w.AddSheet(name); err != nil {
			return nil, err
		}
	}

	for _, dn := range f.GetDefinedName() {
		scope := ""
		if dn.Scope != "" && dn.Scope != "Workbook" {
			scope = dn.Scope
		}
		if err := w.defineName(scope, dn.Name, strings.TrimPrefix(dn.RefersTo, "=")); err != nil {
			zap.S().Debugw("defined name skipped", "name", dn.Name, "refers_to", dn.RefersTo, "error", err)
		}
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet '%s': %w", name, err)
		}

		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}

		// GetCellFormula is asked for every cell of the used area, formula
		// cells may have no cached value
		for r := range rows {
			for c := 0; c < width; c++ {
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}

				expr, err := f.GetCellFormula(name, cellName)
				if err != nil {
					return nil, fmt.Errorf("failed to read %s!%s: %w", name, cellName, err)
				}

				text := ""
				if c < len(rows[r]) {
					text = rows[r][c]
				}

				p := formula.CellPosition{Sheet: name, Row: r, Col: c}
				switch {
				case expr != "":
					err = w.Set(p, "="+expr)
				case text != "":
					err = w.Set(p, text)
				default:
					continue
				}
				if err != nil {
					return nil, err
				}
			}
		}

		merged, err := f.GetMergeCells(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read merged cells of '%s': %w", name, err)
		}
		for _, mc := range merged {
			r, err := ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
			if err != nil {
				return nil, err
			}
			r.Sheet = name
			if err := w.Merge(r); err != nil {
				return nil, err
			}
		}
	}

	zap.S().Debugw("workbook loaded", "path", path, "sheets", sheets)

	return w, nil
}
