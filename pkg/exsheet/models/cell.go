package models

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// CellRef addresses a cell by 0-based row and column.
type CellRef struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// String returns the cell in A1 notation.
func (c CellRef) String() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return "R" + strconv.Itoa(c.Row+1) + "C" + strconv.Itoa(c.Col+1)
	}
	return name
}

// Key returns the "row,col" key used by the per-cell metadata maps.
func (c CellRef) Key() string {
	return CellKey(c.Row, c.Col)
}

// CellKey returns the "row,col" metadata key for a cell.
func CellKey(row, col int) string {
	return strconv.Itoa(row) + "," + strconv.Itoa(col)
}

// ParseCellRef parses an A1-style name such as "B12" into a CellRef.
func ParseCellRef(name string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return CellRef{}, err
	}
	return CellRef{Row: row - 1, Col: col - 1}, nil
}
