package transfer

import (
	"strings"
)

// ParseDelimited splits text on newlines, then each line on commas. There is
// no quoting or escaping. A trailing carriage return on a line is dropped.
func ParseDelimited(text string) [][]string {
	lines := strings.Split(text, "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(strings.TrimSuffix(line, "\r"), ",")
	}
	return rows
}

// FormatDelimited joins each row with commas and rows with newlines. Cells
// containing commas or newlines do not survive a round trip.
func FormatDelimited(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, ","))
	}
	return b.String()
}
