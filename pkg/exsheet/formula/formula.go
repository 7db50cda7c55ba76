// Package formula evaluates cell formulas: cell references and ranges are
// substituted with literal values, built-in aggregates are expanded, and the
// remaining arithmetic is evaluated by a dedicated parser.
package formula

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

var (
	rangePattern = regexp.MustCompile(`([A-Z]+[0-9]+):([A-Z]+[0-9]+)`)
	refPattern   = regexp.MustCompile(`[A-Z]+[0-9]+`)
	callPattern  = regexp.MustCompile(`[A-Z]+\(`)
)

// Resolver supplies literal cell values to the evaluator.
type Resolver interface {
	// Value returns the literal value of a cell.
	Value(row, col int) (string, error)
	// Bounds returns the sheet dimensions.
	Bounds() (rows, cols int)
}

// sheetResolver resolves references against a sheet's raw data.
type sheetResolver struct {
	sheet *models.Sheet
}

// SheetResolver returns a Resolver reading the literal values of s.
func SheetResolver(s *models.Sheet) Resolver {
	return sheetResolver{sheet: s}
}

func (r sheetResolver) Value(row, col int) (string, error) {
	return grid.Get(r.sheet, row, col)
}

func (r sheetResolver) Bounds() (int, int) {
	return r.sheet.Rows(), r.sheet.Cols()
}

// IsFormula reports whether a cell value is a formula.
func IsFormula(value string) bool {
	return strings.HasPrefix(value, "=")
}

// Evaluate evaluates the text after "=" of a formula.
func Evaluate(expr string, res Resolver) (float64, error) {
	expanded, err := expandRanges(expr, res)
	if err != nil {
		return 0, err
	}
	substituted, err := substituteRefs(expanded, res)
	if err != nil {
		return 0, err
	}
	reduced, err := substituteFunctions(substituted)
	if err != nil {
		return 0, err
	}
	return EvalArithmetic(reduced)
}

// Display returns what a cell shows: the literal value for plain text, or
// the formatted result of a formula, or ErrorValue when evaluation fails.
func Display(value string, res Resolver) string {
	if !IsFormula(value) {
		return value
	}
	v, err := Evaluate(value[1:], res)
	if err != nil {
		return ErrorValue
	}
	return FormatNumber(v)
}

// Recompute walks every cell of s and returns the display grid. Formulas
// read the literal values of the cells they reference; there is no
// dependency ordering. A failing formula only affects its own cell.
func Recompute(s *models.Sheet) [][]string {
	res := SheetResolver(s)
	out := make([][]string, len(s.Data))
	for r, row := range s.Data {
		out[r] = make([]string, len(row))
		for c, value := range row {
			out[r][c] = Display(value, res)
		}
	}
	return out
}

// FormatNumber renders a number the way the browser prints it: integers
// without a fraction, others in shortest round-trip form.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 1e21 || math.Abs(v) < 1e-6 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// expandRanges rewrites A1:B2 as a comma-separated list of references in
// row-major order.
func expandRanges(expr string, res Resolver) (string, error) {
	var rangeErr error
	out := rangePattern.ReplaceAllStringFunc(expr, func(match string) string {
		rng, err := models.ParseRange(match)
		if err != nil {
			rangeErr = newError(expr, strings.Index(expr, match), fmt.Errorf("%w: %v", ErrReference, err))
			return match
		}
		rows, cols := res.Bounds()
		if rng.R2 > rows || rng.C2 > cols {
			rangeErr = newError(expr, strings.Index(expr, match), fmt.Errorf("%w: range %s outside sheet", ErrReference, match))
			return match
		}
		cells := rng.Cells()
		names := make([]string, len(cells))
		for i, c := range cells {
			names[i] = c.String()
		}
		return strings.Join(names, ",")
	})
	if rangeErr != nil {
		return "", rangeErr
	}
	return out, nil
}

// substituteRefs replaces each reference with the referenced cell's value,
// or 0 when that value is not numeric.
func substituteRefs(expr string, res Resolver) (string, error) {
	var refErr error
	out := refPattern.ReplaceAllStringFunc(expr, func(match string) string {
		ref, err := models.ParseCellRef(match)
		if err != nil {
			refErr = newError(expr, strings.Index(expr, match), fmt.Errorf("%w: %v", ErrReference, err))
			return match
		}
		value, err := res.Value(ref.Row, ref.Col)
		if err != nil {
			refErr = newError(expr, strings.Index(expr, match), fmt.Errorf("%w: %s: %v", ErrReference, match, err))
			return match
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return "0"
		}
		return FormatNumber(v)
	})
	if refErr != nil {
		return "", refErr
	}
	return out, nil
}

// substituteFunctions expands innermost built-in calls until nothing changes.
// A call is innermost when no other call starts inside its parentheses;
// plain parentheses inside arguments are fine. Unknown function names are
// left in place, and so are the calls around them.
func substituteFunctions(expr string) (string, error) {
	for {
		start, open, end, ok := innermostCall(expr)
		if !ok {
			return expr, nil
		}
		name := expr[start:open]
		v := functions[name](splitArgs(expr[open+1 : end]))
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", newError(expr, start, fmt.Errorf("%w: %s", ErrNotFinite, name))
		}
		expr = expr[:start] + FormatNumber(v) + expr[end+1:]
	}
}

// innermostCall finds the first known function call whose arguments hold no
// further call. open and end index its opening and closing parentheses.
func innermostCall(expr string) (start, open, end int, ok bool) {
	calls := callPattern.FindAllStringIndex(expr, -1)
	for i, c := range calls {
		open = c[1] - 1
		end = closingParen(expr, open)
		if end < 0 {
			continue
		}
		if _, known := functions[expr[c[0]:open]]; !known {
			continue
		}
		if i+1 < len(calls) && calls[i+1][0] < end {
			continue
		}
		return c[0], open, end, true
	}
	return 0, 0, 0, false
}

// closingParen returns the index of the parenthesis closing the one at open,
// skipping quoted text, or -1 when it is unbalanced.
func closingParen(expr string, open int) int {
	depth := 0
	quoted := false
	for i := open; i < len(expr); i++ {
		switch c := expr[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
