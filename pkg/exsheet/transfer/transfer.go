// Package transfer converts between sheet grids and external tabular
// formats: delimited text, JSON array-of-arrays, xlsx and legacy xls.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilename is the file name used for delimited-text downloads.
const DefaultFilename = "spreadsheet.csv"

// Format identifies an import or export format.
type Format string

const (
	// FormatCSV is comma-delimited text without quoting.
	FormatCSV Format = "csv"
	// FormatJSON is a JSON array of arrays.
	FormatJSON Format = "json"
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatXLS is a legacy BIFF workbook.
	FormatXLS Format = "xls"
)

// ErrInvalidFormat indicates a payload that does not match its format.
var ErrInvalidFormat = errors.New("invalid format")

// ErrUnsupportedFormat indicates a file type that cannot be imported.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ErrNoSheet indicates a workbook file without any worksheet.
var ErrNoSheet = errors.New("no worksheet found")

// DetectFormat returns the format implied by a file name's extension.
func DetectFormat(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Decode parses data according to the format implied by filename and
// returns the grid rows. Rows may be ragged.
func Decode(filename string, data []byte) ([][]string, Format, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, "", err
	}
	rows, err := DecodeFormat(format, data)
	return rows, format, err
}

// DecodeFormat parses data in the given format.
func DecodeFormat(format Format, data []byte) ([][]string, error) {
	switch format {
	case FormatCSV:
		return ParseDelimited(string(data)), nil
	case FormatJSON:
		return ParseJSON(data)
	case FormatXLSX:
		return ReadXLSX(data)
	case FormatXLS:
		return ReadXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Download writes rows as delimited text to DefaultFilename inside dir and
// returns the written path.
func Download(dir string, rows [][]string) (string, error) {
	return SaveDelimited(filepath.Join(dir, DefaultFilename), rows)
}

// SaveDelimited writes rows as delimited text to path.
func SaveDelimited(path string, rows [][]string) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(FormatDelimited(rows)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
