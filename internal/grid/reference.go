package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tupyy/formula/internal/formula"
	"github.com/xuri/excelize/v2"
)

var ErrInvalidAddress = errors.New("invalid cell address")

// ParseCell reads an address like B3, $B$3 or 'My sheet'!B3.
func ParseCell(address string) (formula.CellPosition, error) {
	sheet, cell := splitSheet(address)
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(cell, "$", ""))
	if err != nil {
		return formula.CellPosition{}, fmt.Errorf("%w '%s': %s", ErrInvalidAddress, address, err)
	}
	if row < 1 || col < 1 {
		return formula.CellPosition{}, fmt.Errorf("%w '%s'", ErrInvalidAddress, address)
	}
	return formula.CellPosition{Sheet: sheet, Row: row - 1, Col: col - 1}, nil
}

// ParseRange reads an address like A1:C4 or Sheet2!A1:C4. A single cell is a 1x1 range.
func ParseRange(address string) (formula.RangePosition, error) {
	sheet, rest := splitSheet(address)
	first, last, found := strings.Cut(rest, ":")
	if !found {
		last = first
	}

	start, err := ParseCell(first)
	if err != nil {
		return formula.RangePosition{}, fmt.Errorf("%w '%s'", ErrInvalidAddress, address)
	}
	end, err := ParseCell(last)
	if err != nil {
		return formula.RangePosition{}, fmt.Errorf("%w '%s'", ErrInvalidAddress, address)
	}

	return formula.NewRange(sheet, start.Row, start.Col, end.Row, end.Col), nil
}

func splitSheet(address string) (sheet, rest string) {
	idx := strings.LastIndex(address, "!")
	if idx < 0 {
		return "", address
	}
	sheet = address[:idx]
	if len(sheet) > 1 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, address[idx+1:]
}
