// Package exsheet provides a local spreadsheet workbook: cell editing,
// formulas, sheets, undo/redo, import/export and local persistence.
package exsheet

import (
	"go.uber.org/zap"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/history"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// Options configures a Workbook.
type Options struct {
	// Rows is the row count of new sheets. Zero selects models.DefaultRows.
	Rows int
	// Cols is the column count of new sheets. Zero selects models.DefaultCols.
	Cols int
	// HistoryLimit caps the undo stack. Zero selects history.DefaultLimit.
	HistoryLimit int
	// Logger receives operation logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultOptions returns default workbook options.
func DefaultOptions() Options {
	return Options{
		Rows:         models.DefaultRows,
		Cols:         models.DefaultCols,
		HistoryLimit: history.DefaultLimit,
	}
}

// SheetRows returns the row count of new sheets.
func (o Options) SheetRows() int {
	if o.Rows > 0 {
		return o.Rows
	}
	return models.DefaultRows
}

// SheetCols returns the column count of new sheets.
func (o Options) SheetCols() int {
	if o.Cols > 0 {
		return o.Cols
	}
	return models.DefaultCols
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
