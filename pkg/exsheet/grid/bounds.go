package grid

import (
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// UsedRange returns the bounding box of non-empty cells. ok is false when
// every cell is empty.
func UsedRange(s *models.Sheet) (r models.Range, ok bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(s.Data)
	if minRow < 0 {
		return models.Range{}, false
	}
	return models.Range{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}, true
}

// CountNonEmpty counts non-empty cells in the sheet.
func CountNonEmpty(s *models.Sheet) int {
	minRow, maxRow, minCol, maxCol := findDataBounds(s.Data)
	if minRow < 0 {
		return 0
	}
	return countNonEmptyCells(s.Data, minRow, maxRow, minCol, maxCol)
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
