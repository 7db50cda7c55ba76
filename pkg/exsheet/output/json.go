// Package output provides JSON serialization of workbooks and sheets.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// SheetSummary describes one sheet for listings.
type SheetSummary struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	UsedRange string `json:"usedRange,omitempty"`
	Cells     int    `json:"cells"`
	Active    bool   `json:"active"`
}

// SheetName returns the display name of the sheet at index i.
func SheetName(i int) string {
	return fmt.Sprintf("Sheet %d", i+1)
}

// ToJSON serializes the workbook's sheets as a JSON array, the same shape
// stored under the local storage key.
func ToJSON(wb *models.Workbook, pretty bool) ([]byte, error) {
	sheets := wb.Sheets
	if sheets == nil {
		sheets = []models.Sheet{}
	}
	return marshal(sheets, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(s *models.Sheet, pretty bool) ([]byte, error) {
	return marshal(s, pretty)
}

// ChartToJSON serializes a chart with its labels and series.
func ChartToJSON(c *models.Chart, pretty bool) ([]byte, error) {
	return marshal(c, pretty)
}

// ValuesToJSON serializes a grid as a JSON array of arrays.
func ValuesToJSON(rows [][]string, pretty bool) ([]byte, error) {
	if rows == nil {
		rows = [][]string{}
	}
	return marshal(rows, pretty)
}

// Summarize builds one summary per sheet of the workbook.
func Summarize(wb *models.Workbook) []SheetSummary {
	summaries := make([]SheetSummary, len(wb.Sheets))
	for i := range wb.Sheets {
		s := &wb.Sheets[i]
		summary := SheetSummary{
			Index:  i,
			Name:   SheetName(i),
			Rows:   s.Rows(),
			Cols:   s.Cols(),
			Cells:  grid.CountNonEmpty(s),
			Active: i == wb.Current,
		}
		if r, ok := grid.UsedRange(s); ok {
			summary.UsedRange = r.String()
		}
		summaries[i] = summary
	}
	return summaries
}

// SummariesToJSON serializes sheet summaries.
func SummariesToJSON(summaries []SheetSummary, pretty bool) ([]byte, error) {
	return marshal(summaries, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
