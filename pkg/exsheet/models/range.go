package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range represents inclusive cell coordinate bounds.
type Range struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// String returns the range in A1:B2 notation.
func (r Range) String() string {
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return start + ":" + end
}

// Cells returns the cells of the range in row-major order.
func (r Range) Cells() []CellRef {
	var cells []CellRef
	for row := r.R1; row <= r.R2; row++ {
		for col := r.C1; col <= r.C2; col++ {
			cells = append(cells, CellRef{Row: row - 1, Col: col - 1})
		}
	}
	return cells
}

// ParseRange parses a range string like $A$1:$D$10 or B3:A1. The corners
// are normalized so that R1 <= R2 and C1 <= C2.
func ParseRange(s string) (Range, error) {
	s = strings.ReplaceAll(s, "$", "")

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Range{}, err
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Range{}, err
	}

	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	return Range{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}
