package grid

import (
	"strconv"
	"strings"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// indexMap maps an old row or column index to its new index; keep is false
// when the index disappears.
type indexMap func(old int) (idx int, keep bool)

func remapRows(s *models.Sheet, fn indexMap) {
	s.EnsureMaps()
	byRow := func(r, c int) (int, int, bool) {
		nr, ok := fn(r)
		return nr, c, ok
	}
	s.Styles = remapCellKeys(s.Styles, byRow)
	s.Validations = remapCellKeys(s.Validations, byRow)
	s.Comments = remapCellKeys(s.Comments, byRow)
	s.RowHeights = remapIndexMap(s.RowHeights, fn)
	s.HiddenRows = remapIndexList(s.HiddenRows, fn)
}

func remapCols(s *models.Sheet, fn indexMap) {
	s.EnsureMaps()
	byCol := func(r, c int) (int, int, bool) {
		nc, ok := fn(c)
		return r, nc, ok
	}
	s.Styles = remapCellKeys(s.Styles, byCol)
	s.Validations = remapCellKeys(s.Validations, byCol)
	s.Comments = remapCellKeys(s.Comments, byCol)
	s.ColumnWidths = remapIndexMap(s.ColumnWidths, fn)
	s.HiddenColumns = remapIndexList(s.HiddenColumns, fn)
	s.Filters = remapIndexMap(s.Filters, fn)
}

// remapCellKeys rewrites "row,col" keys. Malformed keys are dropped.
func remapCellKeys(m map[string]string, fn func(r, c int) (int, int, bool)) map[string]string {
	out := make(map[string]string, len(m))
	for key, v := range m {
		r, c, ok := splitCellKey(key)
		if !ok {
			continue
		}
		nr, nc, keep := fn(r, c)
		if !keep {
			continue
		}
		out[models.CellKey(nr, nc)] = v
	}
	return out
}

func splitCellKey(key string) (row, col int, ok bool) {
	rs, cs, found := strings.Cut(key, ",")
	if !found {
		return 0, 0, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

func remapIndexMap[V any](m map[int]V, fn indexMap) map[int]V {
	out := make(map[int]V, len(m))
	for idx, v := range m {
		if n, keep := fn(idx); keep {
			out[n] = v
		}
	}
	return out
}

func remapIndexList(list []int, fn indexMap) []int {
	out := make([]int, 0, len(list))
	for _, idx := range list {
		if n, keep := fn(idx); keep {
			out = append(out, n)
		}
	}
	return out
}

// shiftRanges moves merged ranges and chart ranges after an insert (delta 1)
// or delete (delta -1) of the 0-based row or column at. A range whose last
// row or column is deleted disappears.
func shiftRanges(s *models.Sheet, at, delta int, rows bool) {
	merged := s.MergedCells[:0]
	for _, r := range s.MergedCells {
		if shiftRange(&r, at, delta, rows) {
			merged = append(merged, r)
		}
	}
	s.MergedCells = merged

	if s.Charts == nil {
		return
	}
	charts := s.Charts[:0]
	for _, c := range s.Charts {
		if shiftRange(&c.Range, at, delta, rows) {
			charts = append(charts, c)
		}
	}
	s.Charts = charts
}

// shiftRange moves one range and reports whether it still covers a cell.
func shiftRange(r *models.Range, at, delta int, rows bool) bool {
	pos := at + 1
	start, end := &r.C1, &r.C2
	if rows {
		start, end = &r.R1, &r.R2
	}
	switch {
	case *start >= pos && (delta > 0 || *start > pos):
		*start += delta
		*end += delta
	case *end >= pos:
		*end += delta
	}
	return *end >= *start
}
