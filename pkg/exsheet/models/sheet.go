// Package models defines the data structures of a spreadsheet workbook.
package models

// DefaultRows is the number of rows of a newly created sheet.
const DefaultRows = 100

// DefaultCols is the number of columns of a newly created sheet.
const DefaultCols = 26

// Sheet represents one grid of cells plus its per-cell and layout metadata.
// JSON field names match the browser's persisted "spreadsheetData" value.
type Sheet struct {
	// Data holds cell values as Data[row][col]. It is always rectangular and
	// every cell is a string; the empty string means "no value".
	Data [][]string `json:"data"`
	// Styles maps a "row,col" key to an inline style string.
	Styles map[string]string `json:"styles"`
	// MergedCells lists merged cell ranges.
	MergedCells []Range `json:"mergedCells"`
	// ColumnWidths maps a column index to its width in pixels.
	ColumnWidths map[int]int `json:"columnWidths"`
	// RowHeights maps a row index to its height in pixels.
	RowHeights map[int]int `json:"rowHeights"`
	// HiddenColumns lists hidden column indexes.
	HiddenColumns []int `json:"hiddenColumns"`
	// HiddenRows lists hidden row indexes.
	HiddenRows []int `json:"hiddenRows"`
	// Filters maps a column index to a lower-cased substring filter.
	Filters map[int]string `json:"filters"`
	// Validations maps a "row,col" key to a validation rule.
	Validations map[string]string `json:"validations"`
	// Comments maps a "row,col" key to a cell comment.
	Comments map[string]string `json:"comments"`
	// Charts lists the charts inserted into the sheet. Only their type and
	// range are kept; labels and values are read from the cells on use.
	Charts []Chart `json:"charts,omitempty"`
}

// NewSheet returns an empty sheet with the given dimensions.
func NewSheet(rows, cols int) Sheet {
	data := make([][]string, rows)
	for i := range data {
		data[i] = make([]string, cols)
	}
	s := Sheet{Data: data}
	s.EnsureMaps()
	return s
}

// NewDefaultSheet returns an empty DefaultRows x DefaultCols sheet.
func NewDefaultSheet() Sheet {
	return NewSheet(DefaultRows, DefaultCols)
}

// Rows returns the number of rows.
func (s *Sheet) Rows() int {
	return len(s.Data)
}

// Cols returns the number of columns.
func (s *Sheet) Cols() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// EnsureMaps allocates nil metadata maps and lists. Sheets decoded from
// storage may omit any of them.
func (s *Sheet) EnsureMaps() {
	if s.Styles == nil {
		s.Styles = make(map[string]string)
	}
	if s.MergedCells == nil {
		s.MergedCells = []Range{}
	}
	if s.ColumnWidths == nil {
		s.ColumnWidths = make(map[int]int)
	}
	if s.RowHeights == nil {
		s.RowHeights = make(map[int]int)
	}
	if s.HiddenColumns == nil {
		s.HiddenColumns = []int{}
	}
	if s.HiddenRows == nil {
		s.HiddenRows = []int{}
	}
	if s.Filters == nil {
		s.Filters = make(map[int]string)
	}
	if s.Validations == nil {
		s.Validations = make(map[string]string)
	}
	if s.Comments == nil {
		s.Comments = make(map[string]string)
	}
}

// ClearMetadata drops every per-cell and layout entry, keeping Data.
func (s *Sheet) ClearMetadata() {
	s.Styles = nil
	s.MergedCells = nil
	s.ColumnWidths = nil
	s.RowHeights = nil
	s.HiddenColumns = nil
	s.HiddenRows = nil
	s.Filters = nil
	s.Validations = nil
	s.Comments = nil
	s.Charts = nil
	s.EnsureMaps()
}
