package models

// Workbook represents the ordered collection of sheets plus the active-sheet pointer.
type Workbook struct {
	// Sheets is the ordered list of sheets. It always holds at least one sheet.
	Sheets []Sheet `json:"sheets"`
	// Current is the index of the active sheet. It is not persisted.
	Current int `json:"-"`
}

// NewWorkbook returns a workbook with one empty sheet of the given size.
func NewWorkbook(rows, cols int) Workbook {
	return Workbook{Sheets: []Sheet{NewSheet(rows, cols)}}
}

// ClipboardEntry is a single-cell clipboard snapshot.
type ClipboardEntry struct {
	// Value is the raw cell value.
	Value string `json:"value"`
	// Style is the cell's style string.
	Style string `json:"style"`
}
