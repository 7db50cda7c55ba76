package exsheet

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

// ErrOutOfBounds indicates a row, column or sheet index outside the workbook.
var ErrOutOfBounds = grid.ErrOutOfBounds

// ErrInvalidChart indicates an unknown chart type or a chart range without
// data rows.
var ErrInvalidChart = grid.ErrInvalidChart

// ErrInvalidCellFormat indicates cell format settings that could not be
// parsed.
var ErrInvalidCellFormat = errors.New("invalid cell format")

// ErrLastSheet indicates an attempt to delete the only remaining sheet.
var ErrLastSheet = errors.New("cannot delete the last sheet")

// ErrNoSelection indicates an operation that needs a selected cell.
var ErrNoSelection = errors.New("no cell selected")

// ErrEmptyClipboard indicates a paste with nothing copied.
var ErrEmptyClipboard = errors.New("clipboard is empty")

// ErrUnknownFunction indicates a function name the evaluator does not know.
var ErrUnknownFunction = errors.New("unknown function")

// ErrInvalidFormat indicates an import payload that does not match its format.
var ErrInvalidFormat = transfer.ErrInvalidFormat

// ErrUnsupportedFormat indicates a file type that cannot be imported or exported.
var ErrUnsupportedFormat = transfer.ErrUnsupportedFormat

// ImportError represents a failed import. The workbook is left unchanged.
type ImportError struct {
	Filename string
	Format   transfer.Format
	Err      error
}

func (e *ImportError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("import %q: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("import %q (%s): %v", e.Filename, e.Format, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(filename string, format transfer.Format, err error) *ImportError {
	return &ImportError{
		Filename: filename,
		Format:   format,
		Err:      err,
	}
}
