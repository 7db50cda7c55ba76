package exsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// TextStyle is a toggleable text decoration.
type TextStyle int

const (
	// Bold sets font-weight: bold.
	Bold TextStyle = iota
	// Italic sets font-style: italic.
	Italic
	// Underline sets text-decoration: underline.
	Underline
)

type declaration struct {
	prop  string
	value string
}

var textStyles = map[TextStyle]declaration{
	Bold:      {"font-weight", "bold"},
	Italic:    {"font-style", "italic"},
	Underline: {"text-decoration", "underline"},
}

func (t TextStyle) String() string {
	switch t {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	}
	return fmt.Sprintf("TextStyle(%d)", int(t))
}

// CellFormat holds font and color settings applied to a cell. Empty fields
// are left unchanged.
type CellFormat struct {
	FontFamily string
	FontSize   int // pixels
	Color      string
	Background string
}

// ParseCellFormat parses space-separated key=value settings such as
// "font=Courier size=14 color=red bg=#ffeeaa" into a CellFormat.
func ParseCellFormat(settings string) (CellFormat, error) {
	var f CellFormat
	fields := strings.Fields(settings)
	if len(fields) == 0 {
		return f, fmt.Errorf("%w: no settings", ErrInvalidCellFormat)
	}
	for _, field := range fields {
		k, v, ok := strings.Cut(field, "=")
		if !ok || v == "" {
			return f, fmt.Errorf("%w: %q is not key=value", ErrInvalidCellFormat, field)
		}
		switch strings.ToLower(k) {
		case "font":
			f.FontFamily = v
		case "size":
			n, err := strconv.Atoi(strings.TrimSuffix(v, "px"))
			if err != nil || n <= 0 {
				return f, fmt.Errorf("%w: size %q", ErrInvalidCellFormat, v)
			}
			f.FontSize = n
		case "color":
			f.Color = v
		case "bg":
			f.Background = v
		default:
			return f, fmt.Errorf("%w: unknown setting %q (want font, size, color or bg)", ErrInvalidCellFormat, k)
		}
	}
	return f, nil
}

// HasTextStyle reports whether a style string has t switched on.
func HasTextStyle(style string, t TextStyle) bool {
	d, ok := textStyles[t]
	return ok && StyleProperty(style, d.prop) == d.value
}

// StyleProperty returns the value of prop in a style string, or "".
func StyleProperty(style, prop string) string {
	for _, d := range parseStyle(style) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

func toggleTextStyle(style string, t TextStyle) (string, error) {
	d, ok := textStyles[t]
	if !ok {
		return style, fmt.Errorf("unknown text style %v", t)
	}
	if StyleProperty(style, d.prop) == d.value {
		return setStyleProperty(style, d.prop, ""), nil
	}
	return setStyleProperty(style, d.prop, d.value), nil
}

func applyCellFormat(style string, f CellFormat) string {
	if f.FontFamily != "" {
		style = setStyleProperty(style, "font-family", f.FontFamily)
	}
	if f.FontSize > 0 {
		style = setStyleProperty(style, "font-size", fmt.Sprintf("%dpx", f.FontSize))
	}
	if f.Color != "" {
		style = setStyleProperty(style, "color", f.Color)
	}
	if f.Background != "" {
		style = setStyleProperty(style, "background-color", f.Background)
	}
	return style
}

// setStyleProperty sets prop, keeping declaration order. An empty value
// removes the property.
func setStyleProperty(style, prop, value string) string {
	decls := parseStyle(style)
	out := decls[:0]
	found := false
	for _, d := range decls {
		if d.prop != prop {
			out = append(out, d)
			continue
		}
		if value != "" && !found {
			out = append(out, declaration{prop, value})
		}
		found = true
	}
	if !found && value != "" {
		out = append(out, declaration{prop, value})
	}
	return formatStyle(out)
}

func parseStyle(style string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		decls = append(decls, declaration{prop, value})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value + ";"
	}
	return strings.Join(parts, " ")
}
