// Package storage persists workbooks in a local key-value store.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// SpreadsheetKey is the key holding the serialized sheet array.
const SpreadsheetKey = "spreadsheetData"

// ErrNotFound indicates a key without a stored value.
var ErrNotFound = errors.New("key not found")

// ErrInvalidData indicates a stored value that is not a valid sheet array.
var ErrInvalidData = errors.New("invalid stored workbook")

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the store's resources.
	Close() error
}

// SaveWorkbook writes the workbook's sheets under SpreadsheetKey. The active
// sheet index is not saved.
func SaveWorkbook(ctx context.Context, store Store, wb *models.Workbook) error {
	data, err := json.Marshal(wb.Sheets)
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := store.Set(ctx, SpreadsheetKey, string(data)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// LoadWorkbook reads the workbook saved under SpreadsheetKey. ok is false when
// nothing has been saved. The loaded workbook starts at its first sheet;
// ragged or empty grids are normalized and missing metadata is allocated.
func LoadWorkbook(ctx context.Context, store Store) (wb models.Workbook, ok bool, err error) {
	raw, err := store.Get(ctx, SpreadsheetKey)
	if errors.Is(err, ErrNotFound) {
		return models.Workbook{}, false, nil
	}
	if err != nil {
		return models.Workbook{}, false, fmt.Errorf("load workbook: %w", err)
	}

	var sheets []models.Sheet
	if err := json.Unmarshal([]byte(raw), &sheets); err != nil {
		return models.Workbook{}, false, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(sheets) == 0 {
		return models.Workbook{}, false, fmt.Errorf("%w: no sheets", ErrInvalidData)
	}

	for i := range sheets {
		grid.Replace(&sheets[i], sheets[i].Data)
		sheets[i].EnsureMaps()
	}
	return models.Workbook{Sheets: sheets}, true, nil
}
