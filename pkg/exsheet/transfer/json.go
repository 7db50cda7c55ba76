package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ParseJSON decodes a JSON array of arrays. Scalar cells become strings and
// null becomes the empty string; any other shape is ErrInvalidFormat.
func ParseJSON(data []byte) ([][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrInvalidFormat)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected an array of arrays", ErrInvalidFormat)
	}

	rows := make([][]string, len(raw))
	for i, msg := range raw {
		var cells []any
		rd := json.NewDecoder(bytes.NewReader(msg))
		rd.UseNumber()
		if err := rd.Decode(&cells); err != nil || cells == nil {
			return nil, fmt.Errorf("%w: row %d is not an array", ErrInvalidFormat, i)
		}
		row := make([]string, len(cells))
		for j, cell := range cells {
			s, err := cellString(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrInvalidFormat, i, j, err)
			}
			row[j] = s
		}
		rows[i] = row
	}
	return rows, nil
}

func cellString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported cell value %T", v)
	}
}
