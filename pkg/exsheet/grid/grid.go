// Package grid implements cell storage operations over a models.Sheet:
// reads, writes and row/column resizing with metadata shifting.
package grid

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// ErrOutOfBounds indicates a row, column or index outside the sheet.
var ErrOutOfBounds = errors.New("index out of bounds")

// ErrLastRow indicates an attempt to delete the only row of a sheet.
var ErrLastRow = errors.New("cannot delete the last row")

// ErrLastColumn indicates an attempt to delete the only column of a sheet.
var ErrLastColumn = errors.New("cannot delete the last column")

// Get returns the value of a cell.
func Get(s *models.Sheet, row, col int) (string, error) {
	if err := checkCell(s, row, col); err != nil {
		return "", err
	}
	return s.Data[row][col], nil
}

// Set stores value in a cell. The grid never grows to fit.
func Set(s *models.Sheet, row, col int, value string) error {
	if err := checkCell(s, row, col); err != nil {
		return err
	}
	s.Data[row][col] = value
	return nil
}

// Style returns the style string of a cell, or "" when unstyled.
func Style(s *models.Sheet, row, col int) (string, error) {
	if err := checkCell(s, row, col); err != nil {
		return "", err
	}
	return s.Styles[models.CellKey(row, col)], nil
}

// SetStyle stores the style string of a cell. An empty style removes the entry.
func SetStyle(s *models.Sheet, row, col int, style string) error {
	if err := checkCell(s, row, col); err != nil {
		return err
	}
	s.EnsureMaps()
	key := models.CellKey(row, col)
	if style == "" {
		delete(s.Styles, key)
		return nil
	}
	s.Styles[key] = style
	return nil
}

func checkCell(s *models.Sheet, row, col int) error {
	if row < 0 || row >= s.Rows() {
		return fmt.Errorf("%w: row %d (sheet has %d rows)", ErrOutOfBounds, row, s.Rows())
	}
	if col < 0 || col >= s.Cols() {
		return fmt.Errorf("%w: column %d (sheet has %d columns)", ErrOutOfBounds, col, s.Cols())
	}
	return nil
}

// InsertRow inserts an empty row before index at. at may equal the row count
// to append. Rows at or after at, and their metadata, move down by one.
func InsertRow(s *models.Sheet, at int) error {
	if at < 0 || at > s.Rows() {
		return fmt.Errorf("%w: insert row %d (sheet has %d rows)", ErrOutOfBounds, at, s.Rows())
	}
	row := make([]string, s.Cols())
	s.Data = append(s.Data, nil)
	copy(s.Data[at+1:], s.Data[at:])
	s.Data[at] = row

	remapRows(s, func(r int) (int, bool) {
		if r >= at {
			return r + 1, true
		}
		return r, true
	})
	shiftRanges(s, at, 1, true)
	return nil
}

// DeleteRow removes the row at index at. Metadata of that row is dropped and
// later rows move up by one.
func DeleteRow(s *models.Sheet, at int) error {
	if at < 0 || at >= s.Rows() {
		return fmt.Errorf("%w: delete row %d (sheet has %d rows)", ErrOutOfBounds, at, s.Rows())
	}
	if s.Rows() == 1 {
		return ErrLastRow
	}
	s.Data = append(s.Data[:at], s.Data[at+1:]...)

	remapRows(s, func(r int) (int, bool) {
		switch {
		case r == at:
			return 0, false
		case r > at:
			return r - 1, true
		}
		return r, true
	})
	shiftRanges(s, at, -1, true)
	return nil
}

// InsertColumn inserts an empty column before index at. at may equal the
// column count to append.
func InsertColumn(s *models.Sheet, at int) error {
	if at < 0 || at > s.Cols() {
		return fmt.Errorf("%w: insert column %d (sheet has %d columns)", ErrOutOfBounds, at, s.Cols())
	}
	for i, row := range s.Data {
		row = append(row, "")
		copy(row[at+1:], row[at:])
		row[at] = ""
		s.Data[i] = row
	}

	remapCols(s, func(c int) (int, bool) {
		if c >= at {
			return c + 1, true
		}
		return c, true
	})
	shiftRanges(s, at, 1, false)
	return nil
}

// DeleteColumn removes the column at index at.
func DeleteColumn(s *models.Sheet, at int) error {
	if at < 0 || at >= s.Cols() {
		return fmt.Errorf("%w: delete column %d (sheet has %d columns)", ErrOutOfBounds, at, s.Cols())
	}
	if s.Cols() == 1 {
		return ErrLastColumn
	}
	for i, row := range s.Data {
		s.Data[i] = append(row[:at], row[at+1:]...)
	}

	remapCols(s, func(c int) (int, bool) {
		switch {
		case c == at:
			return 0, false
		case c > at:
			return c - 1, true
		}
		return c, true
	})
	shiftRanges(s, at, -1, false)
	return nil
}

// Replace swaps the sheet's data for rows. Ragged rows are padded with empty
// strings to the widest row; an empty input yields a single empty cell.
// Metadata is left as is.
func Replace(s *models.Sheet, rows [][]string) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if len(rows) == 0 || width == 0 {
		s.Data = [][]string{{""}}
		return
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = make([]string, width)
		copy(data[i], row)
	}
	s.Data = data
}
