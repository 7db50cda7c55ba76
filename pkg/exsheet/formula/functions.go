package formula

import (
	"math"
	"sort"
	"strings"
)

// aggregate reduces a trimmed argument list to a number.
type aggregate func(args []string) float64

var functions = map[string]aggregate{
	"SUM":     sumArgs,
	"AVERAGE": averageArgs,
	"COUNT":   countArgs,
	"MAX":     maxArgs,
	"MIN":     minArgs,
}

// Functions returns the names of the built-in aggregate functions, sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFunction reports whether name is a built-in aggregate function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// splitArgs splits a raw argument list on commas outside parentheses and
// quotes, and trims each argument.
func splitArgs(raw string) []string {
	var args []string
	depth, last := 0, 0
	quoted := false
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(raw[last:i]))
			last = i + 1
		}
	}
	return append(args, strings.TrimSpace(raw[last:]))
}

// literal strips one pair of surrounding double quotes.
func literal(arg string) string {
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return arg[1 : len(arg)-1]
	}
	return arg
}

// numeric evaluates an argument as arithmetic. Quoted strings and anything
// that fails to evaluate are not numeric.
func numeric(arg string) (float64, bool) {
	if arg == "" || arg[0] == '"' {
		return 0, false
	}
	v, err := EvalArithmetic(arg)
	if err != nil {
		return 0, false
	}
	return v, true
}

func sumArgs(args []string) float64 {
	total := 0.0
	for _, a := range args {
		if v, ok := numeric(a); ok {
			total += v
		}
	}
	return total
}

// averageArgs divides by the full argument count, non-numeric arguments included.
func averageArgs(args []string) float64 {
	return sumArgs(args) / float64(len(args))
}

func countArgs(args []string) float64 {
	n := 0
	for _, a := range args {
		if literal(a) != "" {
			n++
		}
	}
	return float64(n)
}

func maxArgs(args []string) float64 {
	best := math.Inf(-1)
	for _, a := range args {
		if v, ok := numeric(a); ok && v > best {
			best = v
		}
	}
	return best
}

func minArgs(args []string) float64 {
	best := math.Inf(1)
	for _, a := range args {
		if v, ok := numeric(a); ok && v < best {
			best = v
		}
	}
	return best
}
