package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByColumn reorders all rows by the values in col using locale-aware
// collation. The sort is stable. Row-keyed metadata follows its row. Every
// row takes part, not only the used range: an empty cell collates before any
// text, so an ascending sort of a mostly empty sheet moves its data to the
// bottom and a descending sort brings it back to the top.
func SortByColumn(s *models.Sheet, col int, descending bool) error {
	if col < 0 || col >= s.Cols() {
		return fmt.Errorf("%w: sort column %d (sheet has %d columns)", ErrOutOfBounds, col, s.Cols())
	}

	coll := collate.New(language.Und)
	order := make([]int, s.Rows())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		cmp := coll.CompareString(s.Data[a][col], s.Data[b][col])
		if descending {
			return -cmp
		}
		return cmp
	})

	newIndex := make([]int, len(order))
	data := make([][]string, len(order))
	for to, from := range order {
		data[to] = s.Data[from]
		newIndex[from] = to
	}
	s.Data = data

	remapRows(s, func(r int) (int, bool) {
		if r < 0 || r >= len(newIndex) {
			return 0, false
		}
		return newIndex[r], true
	})
	return nil
}

// SetFilter stores a case-insensitive substring filter for col. An empty
// value removes the filter.
func SetFilter(s *models.Sheet, col int, value string) error {
	if col < 0 || col >= s.Cols() {
		return fmt.Errorf("%w: filter column %d (sheet has %d columns)", ErrOutOfBounds, col, s.Cols())
	}
	s.EnsureMaps()
	if value == "" {
		delete(s.Filters, col)
		return nil
	}
	s.Filters[col] = cases.Lower(language.Und).String(value)
	return nil
}

// VisibleRows returns the indexes of rows that are not hidden and match every
// column filter.
func VisibleRows(s *models.Sheet) []int {
	lower := cases.Lower(language.Und)
	hidden := make(map[int]bool, len(s.HiddenRows))
	for _, r := range s.HiddenRows {
		hidden[r] = true
	}

	visible := make([]int, 0, s.Rows())
	for r, row := range s.Data {
		if hidden[r] {
			continue
		}
		show := true
		for col, want := range s.Filters {
			if col < 0 || col >= len(row) {
				continue
			}
			if !strings.Contains(lower.String(row[col]), want) {
				show = false
				break
			}
		}
		if show {
			visible = append(visible, r)
		}
	}
	return visible
}
