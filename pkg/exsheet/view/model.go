// Package view renders a workbook as an interactive terminal grid.
package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ukaji3/exsheet-go/pkg/exsheet"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/formula"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/storage"
)

var errNoStore = errors.New("no local storage configured")

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modePrompt
)

// promptKind says what a one-line prompt feeds.
type promptKind int

const (
	promptFilter promptKind = iota
	promptFunction
	promptFormat
	promptChart
)

const (
	minCellWidth = 4
	maxCellWidth = 30
	zoomStep     = 2
)

// Options configures the view.
type Options struct {
	// Store receives the workbook on ctrl+s. If nil, saving is disabled.
	Store storage.Store
	// ExportDir is where "e" writes the delimited-text download.
	ExportDir string
	// ExportFilename is the download's file name. If empty,
	// transfer.DefaultFilename is used.
	ExportFilename string
	// Clipboard mirrors copied values to the system clipboard. If nil,
	// atotto/clipboard is used.
	Clipboard func(string) error
	// Logger receives view logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// Model is the Bubble Tea model of the spreadsheet view.
type Model struct {
	wb   *exsheet.Workbook
	opts Options
	log  *zap.Logger

	keys  keyMap
	help  help.Model
	input  textinput.Model
	mode   mode
	prompt promptKind

	cellWidth  int
	gridlines  bool
	formulaBar bool

	cx, cy  int // cursor column, row
	scrollX int // first visible column
	scrollY int // first visible position in the filtered row list
	width   int
	height  int

	status    string
	statusErr bool
	quitting  bool
}

// New returns a view of wb with the cursor on A1.
func New(wb *exsheet.Workbook, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = ""

	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := Model{
		wb:         wb,
		opts:       opts,
		log:        log,
		keys:       keys,
		help:       help.New(),
		input:      ti,
		cellWidth:  defaultCellWidth,
		formulaBar: true,
	}
	m.clampCursor()
	return m
}

// Run shows the view full-screen until the user quits.
func Run(wb *exsheet.Workbook, opts Options) error {
	p := tea.NewProgram(New(wb, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Cursor returns the cursor position.
func (m Model) Cursor() models.CellRef {
	return models.CellRef{Row: m.cy, Col: m.cx}
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.status
}

// Editing reports whether the formula bar has focus.
func (m Model) Editing() bool {
	return m.mode == modeEdit
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modePrompt:
			return m.updatePrompt(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.info("")

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Left):
		if m.cx > 0 {
			m.cx--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cx < m.wb.Cols()-1 {
			m.cx++
		}
	case key.Matches(msg, m.keys.Edit):
		raw, err := m.wb.Get(m.cy, m.cx)
		if err != nil {
			m.fail(err)
			break
		}
		m.input.SetValue(raw)
		m.input.CursorEnd()
		m.mode = modeEdit
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Copy):
		if entry, err := m.wb.Copy(); err != nil {
			m.fail(err)
		} else {
			m.mirror(entry.Value)
			m.info("Copied " + m.Cursor().String())
		}
	case key.Matches(msg, m.keys.Cut):
		if entry, err := m.wb.Cut(); err != nil {
			m.fail(err)
		} else {
			m.mirror(entry.Value)
			m.info("Cut " + m.Cursor().String())
		}
	case key.Matches(msg, m.keys.Paste):
		m.report(m.wb.Paste(), "Pasted into "+m.Cursor().String())
	case key.Matches(msg, m.keys.Undo):
		ok, err := m.wb.Undo()
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.info("Nothing to undo")
		}
	case key.Matches(msg, m.keys.Redo):
		ok, err := m.wb.Redo()
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.info("Nothing to redo")
		}
	case key.Matches(msg, m.keys.Bold):
		m.report(m.wb.ToggleStyle(exsheet.Bold), "")
	case key.Matches(msg, m.keys.Italic):
		m.report(m.wb.ToggleStyle(exsheet.Italic), "")
	case key.Matches(msg, m.keys.Underline):
		m.report(m.wb.ToggleStyle(exsheet.Underline), "")
	case key.Matches(msg, m.keys.NewSheet):
		if _, err := m.wb.AddSheet(); err != nil {
			m.fail(err)
		} else {
			m.cx, m.cy, m.scrollX, m.scrollY = 0, 0, 0, 0
		}
	case key.Matches(msg, m.keys.DeleteSheet):
		m.report(m.wb.CloseCurrentSheet(), "")
	case key.Matches(msg, m.keys.PrevSheet):
		if i := m.wb.CurrentIndex(); i > 0 {
			m.report(m.wb.SwitchSheet(i-1), "")
		}
	case key.Matches(msg, m.keys.NextSheet):
		if i := m.wb.CurrentIndex(); i < m.wb.SheetCount()-1 {
			m.report(m.wb.SwitchSheet(i+1), "")
		}
	case key.Matches(msg, m.keys.InsertRow):
		m.report(m.wb.InsertRow(m.cy), "")
	case key.Matches(msg, m.keys.InsertCol):
		m.report(m.wb.InsertColumn(m.cx), "")
	case key.Matches(msg, m.keys.DeleteRow):
		m.report(m.wb.DeleteRow(m.cy), "")
	case key.Matches(msg, m.keys.DeleteCol):
		m.report(m.wb.DeleteColumn(m.cx), "")
	case key.Matches(msg, m.keys.SortAsc):
		m.report(m.wb.SortColumn(m.cx, false), "Sorted ascending")
	case key.Matches(msg, m.keys.SortDesc):
		m.report(m.wb.SortColumn(m.cx, true), "Sorted descending")
	case key.Matches(msg, m.keys.Filter):
		return m.openPrompt(promptFilter, "")
	case key.Matches(msg, m.keys.Function):
		return m.openPrompt(promptFunction, strings.Join(formula.Functions(), " "))
	case key.Matches(msg, m.keys.Format):
		return m.openPrompt(promptFormat, "font= size= color= bg=")
	case key.Matches(msg, m.keys.Chart):
		return m.openPrompt(promptChart, strings.Join(models.ChartTypes, "|")+" "+models.DefaultChartRange.String())
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(-zoomStep)
	case key.Matches(msg, m.keys.Gridlines):
		m.gridlines = !m.gridlines
	case key.Matches(msg, m.keys.FormulaBar):
		m.formulaBar = !m.formulaBar
	case key.Matches(msg, m.keys.ClearFilters):
		m.report(m.wb.ClearFilters(), "Filters cleared")
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Export):
		if path, err := m.wb.DownloadFile(m.opts.ExportDir, m.opts.ExportFilename); err != nil {
			m.fail(err)
		} else {
			m.info("Exported " + path)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.clampCursor()
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		value := m.input.Value()
		m.input.Blur()
		m.mode = modeNormal
		if err := m.wb.Commit(m.cy, m.cx, value); err != nil {
			m.fail(err)
		} else {
			m.moveRow(1)
		}
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.mode = modeNormal
		m.wb.CancelEdit()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if err := m.wb.Set(m.cy, m.cx, m.input.Value()); err != nil {
		m.fail(err)
	}
	return m, cmd
}

// openPrompt focuses the one-line prompt with a placeholder hint.
func (m Model) openPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.mode = modePrompt
	m.prompt = kind
	return m, m.input.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		switch m.prompt {
		case promptFilter:
			m.report(m.wb.SetFilter(m.cx, value), fmt.Sprintf("Filtered %s by %q", columnName(m.cx), value))
		case promptFunction:
			name := strings.ToUpper(value)
			m.report(m.wb.InsertFunction(name), "Inserted "+name)
		case promptFormat:
			if f, err := exsheet.ParseCellFormat(value); err != nil {
				m.fail(err)
			} else {
				m.report(m.wb.ApplyFormat(f), "Formatted "+m.Cursor().String())
			}
		case promptChart:
			m.insertChart(value)
		}
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.input.Blur()
	m.input.Placeholder = ""
	m.mode = modeNormal
}

// insertChart records a chart from "[type] [range]", defaulting to a bar
// chart over A1:F6.
func (m *Model) insertChart(value string) {
	fields := strings.Fields(value)
	if len(fields) > 2 {
		m.fail(fmt.Errorf("%w: expected \"[type] [range]\", got %q", exsheet.ErrInvalidChart, value))
		return
	}
	chartType, r := models.ChartBar, models.DefaultChartRange
	if len(fields) > 0 {
		chartType = strings.ToLower(fields[0])
	}
	if len(fields) > 1 {
		parsed, err := models.ParseRange(fields[1])
		if err != nil {
			m.fail(err)
			return
		}
		r = parsed
	}

	chart, err := m.wb.Chart(chartType, r)
	if err != nil {
		m.fail(err)
		return
	}
	if err := m.wb.InsertChart(chartType, r); err != nil {
		m.fail(err)
		return
	}
	m.info(fmt.Sprintf("Chart %s %s: %d series", chartType, r, len(chart.Series)))
}

// zoom widens or narrows the cells by delta columns.
func (m *Model) zoom(delta int) {
	m.cellWidth = min(max(m.cellWidth+delta, minCellWidth), maxCellWidth)
	m.info(fmt.Sprintf("Zoom %d%%", m.cellWidth*100/defaultCellWidth))
}

func (m *Model) save() {
	if m.opts.Store == nil {
		m.fail(errNoStore)
		return
	}
	if err := m.wb.Save(context.Background(), m.opts.Store); err != nil {
		m.fail(err)
		return
	}
	m.info("Saved")
}

// mirror copies a value to the system clipboard. Failure only gets logged;
// the workbook clipboard already holds the value.
func (m *Model) mirror(value string) {
	if err := m.opts.Clipboard(value); err != nil {
		m.log.Debug("system clipboard unavailable", zap.Error(err))
	}
}

func (m *Model) fail(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) info(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) report(err error, msg string) {
	if err != nil {
		m.fail(err)
		return
	}
	if msg != "" {
		m.info(msg)
	}
}

// moveRow moves the cursor by delta rows among the rows passing the filters.
func (m *Model) moveRow(delta int) {
	visible := m.wb.VisibleRows()
	if len(visible) == 0 {
		return
	}
	pos := rowPosition(visible, m.cy)
	pos = min(max(pos+delta, 0), len(visible)-1)
	m.cy = visible[pos]
}

// clampCursor keeps the cursor on a visible cell, selects it in the workbook
// and scrolls it into view.
func (m *Model) clampCursor() {
	rows, cols := m.wb.Rows(), m.wb.Cols()
	m.cx = min(max(m.cx, 0), cols-1)
	m.cy = min(max(m.cy, 0), rows-1)

	visible := m.wb.VisibleRows()
	if len(visible) > 0 && !slices.Contains(visible, m.cy) {
		m.cy = visible[rowPosition(visible, m.cy)]
	}
	if err := m.wb.Select(m.cy, m.cx); err != nil {
		m.log.Debug("select failed", zap.Error(err))
	}
	m.scroll()
}

func (m *Model) scroll() {
	numCols, numRows := m.gridSize()
	if m.cx < m.scrollX {
		m.scrollX = m.cx
	}
	if m.cx >= m.scrollX+numCols {
		m.scrollX = m.cx - numCols + 1
	}

	pos := rowPosition(m.wb.VisibleRows(), m.cy)
	if pos < m.scrollY {
		m.scrollY = pos
	}
	if pos >= m.scrollY+numRows {
		m.scrollY = pos - numRows + 1
	}
}

// rowPosition returns the index of the first visible row at or after row,
// or the last index when there is none.
func rowPosition(visible []int, row int) int {
	for i, r := range visible {
		if r >= row {
			return i
		}
	}
	return max(len(visible)-1, 0)
}
