package transfer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// ReadXLSX reads the first worksheet, in workbook order, of an xlsx file
// and returns its rows as displayed strings. Trailing empty cells of a row
// are omitted, as excelize reports them.
func ReadXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetList[0], err)
	}
	return rows, nil
}

// WriteXLSX writes rows to w as a single-sheet xlsx workbook. Strings that
// print back unchanged as numbers are stored as numbers; everything else,
// formulas and text such as "007" included, as text. Empty cells are not
// written. Each chart is drawn next to its range.
func WriteXLSX(w io.Writer, sheetName string, rows [][]string, charts ...models.Chart) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheetName != "" && sheetName != sheet {
		if err := f.SetSheetName(sheet, sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		sheet = sheetName
	}

	for rowIdx, row := range rows {
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := setCell(f, sheet, cell, cellValue); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	for i, c := range charts {
		if err := addChart(f, sheet, c); err != nil {
			return fmt.Errorf("chart %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

// setCell stores s as a number only when formatting the number gives s
// back, so leading zeros, signs and spellings like "1.50" or "NaN" stay text.
func setCell(f *excelize.File, sheet, cell, s string) error {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return f.SetCellInt(sheet, cell, i)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(v, 'f', -1, 64) == s {
		return f.SetCellFloat(sheet, cell, v, -1, 64)
	}
	return f.SetCellStr(sheet, cell, s)
}

var chartTypes = map[string]excelize.ChartType{
	models.ChartBar:  excelize.Col,
	models.ChartLine: excelize.Line,
	models.ChartPie:  excelize.Pie,
	models.ChartArea: excelize.Area,
}

// addChart draws c to the right of its range. The first row of the range
// gives the categories and every further row a series named after its
// first cell.
func addChart(f *excelize.File, sheet string, c models.Chart) error {
	typ, ok := chartTypes[c.ChartType]
	if !ok {
		return fmt.Errorf("%w: chart type %q", ErrUnsupportedFormat, c.ChartType)
	}
	r := c.Range
	if r.R1 < 1 || r.C1 < 1 || r.R2 <= r.R1 || r.C2 < r.C1 {
		return fmt.Errorf("%w: chart range %s", ErrInvalidFormat, r)
	}

	categories, err := sheetRange(sheet, r.R1, r.C1, r.C2)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{Type: typ}
	for row := r.R1 + 1; row <= r.R2; row++ {
		values, err := sheetRange(sheet, row, r.C1, r.C2)
		if err != nil {
			return err
		}
		name, err := excelize.CoordinatesToCellName(r.C1, row, true)
		if err != nil {
			return err
		}
		chart.Series = append(chart.Series, excelize.ChartSeries{
			Name:       quoteSheet(sheet) + "!" + name,
			Categories: categories,
			Values:     values,
		})
	}

	anchor, err := excelize.CoordinatesToCellName(r.C2+2, r.R1)
	if err != nil {
		return err
	}
	return f.AddChart(sheet, anchor, chart)
}

// sheetRange returns an absolute reference such as 'Sheet 1'!$A$2:$F$2.
func sheetRange(sheet string, row, c1, c2 int) (string, error) {
	start, err := excelize.CoordinatesToCellName(c1, row, true)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(c2, row, true)
	if err != nil {
		return "", err
	}
	return quoteSheet(sheet) + "!" + start + ":" + end, nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
