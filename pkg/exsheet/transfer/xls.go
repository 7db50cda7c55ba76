package transfer

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// ReadXLS reads the first worksheet of a legacy BIFF workbook. Missing rows
// come back empty.
func ReadXLS(data []byte) (rows [][]string, err error) {
	// the BIFF reader panics on some truncated streams
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("%w: %v", ErrInvalidFormat, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheet
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		last := row.LastCol()
		if last < 0 {
			last = 0
		}
		cells := make([]string, last)
		for j := 0; j < last; j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// sheetRow returns row i, or nil when the sheet has no record for it. The
// reader dereferences missing rows.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
