package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exsheet-go/pkg/exsheet"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/formula"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/output"
)

const (
	defaultCellWidth = 10
	rowHeaderWidth   = 5
	// lines outside the grid besides the formula bar: column header, tabs,
	// selection, status and help
	chromeHeight = 6
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	refStyle       = lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
)

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return strconv.Itoa(col + 1)
	}
	return name
}

func (m Model) size() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 24
	}
	return m.width, m.height
}

// gridSize returns how many columns and rows of cells fit on screen.
func (m Model) gridSize() (cols, rows int) {
	width, height := m.size()
	cols = max((width-rowHeaderWidth)/(m.cellWidth+1), 1)
	chrome := chromeHeight
	if m.showFormulaBar() {
		chrome++
	}
	rows = max(height-chrome, 1)
	return cols, rows
}

// showFormulaBar reports whether the formula bar is drawn. It is always
// drawn while editing since it holds the input.
func (m Model) showFormulaBar() bool {
	return m.formulaBar || m.mode == modeEdit
}

// separator goes between cells.
func (m Model) separator() string {
	if m.gridlines {
		return dimStyle.Render("│")
	}
	return " "
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	cursor := m.Cursor()
	raw, _ := m.wb.Get(cursor.Row, cursor.Col)

	if m.showFormulaBar() {
		b.WriteString(titleStyle.Render(fmt.Sprintf(" %-6s", cursor.String())))
		b.WriteString(dimStyle.Render(" fx "))
		if m.mode == modeEdit {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(raw)
		}
		b.WriteString("\n")
	}

	m.renderGrid(&b, raw)
	m.renderTabs(&b)

	b.WriteString(dimStyle.Render(" Selected: " + cursor.String()))
	b.WriteString("\n")

	switch {
	case m.mode == modePrompt:
		b.WriteString(statusStyle.Render(m.promptLabel()))
		b.WriteString(m.input.View())
	case m.statusErr:
		b.WriteString(errorStyle.Render(" error: " + m.status))
	case m.status != "":
		b.WriteString(statusStyle.Render(" " + m.status))
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderGrid(b *strings.Builder, raw string) {
	numCols, numRows := m.gridSize()
	display := m.wb.Display()
	visible := m.wb.VisibleRows()
	lastCol := min(m.scrollX+numCols, m.wb.Cols())

	precedents := make(map[string]bool)
	if formula.IsFormula(raw) {
		for _, ref := range formula.References(raw) {
			precedents[ref.Key()] = true
		}
	}

	b.WriteString(strings.Repeat(" ", rowHeaderWidth))
	for c := m.scrollX; c < lastCol; c++ {
		b.WriteString(headerStyle.Render(center(columnName(c), m.cellWidth)))
		b.WriteString(m.separator())
	}
	b.WriteString("\n")

	for i := m.scrollY; i < len(visible) && i < m.scrollY+numRows; i++ {
		r := visible[i]
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*d ", rowHeaderWidth-1, r+1)))
		for c := m.scrollX; c < lastCol; c++ {
			var text string
			if r < len(display) && c < len(display[r]) {
				text = display[r][c]
			}
			style, _ := m.wb.Style(r, c)
			st := cellStyle(style)
			switch {
			case r == m.cy && c == m.cx:
				st = cursorStyle.Inherit(st)
			case precedents[models.CellKey(r, c)]:
				st = refStyle.Inherit(st)
			}
			b.WriteString(st.Render(fit(text, m.cellWidth)))
			b.WriteString(m.separator())
		}
		b.WriteString("\n")
	}
}

func (m Model) renderTabs(b *strings.Builder) {
	tabs := make([]string, m.wb.SheetCount())
	for i := range tabs {
		if i == m.wb.CurrentIndex() {
			tabs[i] = activeTabStyle.Render(output.SheetName(i))
		} else {
			tabs[i] = tabStyle.Render(output.SheetName(i))
		}
	}
	b.WriteString(" ")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	if charts := m.wb.Charts(); len(charts) > 0 {
		names := make([]string, len(charts))
		for i, c := range charts {
			names[i] = c.ChartType + " " + c.Range.String()
		}
		b.WriteString(dimStyle.Render("  charts: " + strings.Join(names, ", ")))
	}
	b.WriteString("\n")
}

func (m Model) promptLabel() string {
	switch m.prompt {
	case promptFunction:
		return " Function: "
	case promptFormat:
		return " Format " + m.Cursor().String() + ": "
	case promptChart:
		return " Chart: "
	}
	return " Filter " + columnName(m.cx) + ": "
}

// cellStyle turns a cell's inline style into a terminal style.
func cellStyle(style string) lipgloss.Style {
	st := lipgloss.NewStyle()
	if style == "" {
		return st
	}
	if exsheet.HasTextStyle(style, exsheet.Bold) {
		st = st.Bold(true)
	}
	if exsheet.HasTextStyle(style, exsheet.Italic) {
		st = st.Italic(true)
	}
	if exsheet.HasTextStyle(style, exsheet.Underline) {
		st = st.Underline(true)
	}
	if c, ok := termColor(exsheet.StyleProperty(style, "color")); ok {
		st = st.Foreground(c)
	}
	if c, ok := termColor(exsheet.StyleProperty(style, "background-color")); ok {
		st = st.Background(c)
	}
	return st
}

func termColor(css string) (lipgloss.Color, bool) {
	css = strings.ToLower(strings.TrimSpace(css))
	if strings.HasPrefix(css, "#") {
		return lipgloss.Color(css), true
	}
	if code, ok := namedColors[css]; ok {
		return lipgloss.Color(code), true
	}
	return "", false
}

// fit pads or truncates s to exactly w terminal columns. Wide runes count
// twice. Numbers are right-aligned.
func fit(s string, w int) string {
	if lipgloss.Width(s) > w {
		s = ansi.Truncate(s, w, "…")
	}
	pad := strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return pad + s
	}
	return s + pad
}

func center(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}
