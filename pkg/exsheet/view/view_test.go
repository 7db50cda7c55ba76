package view

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"

	"github.com/ukaji3/exsheet-go/pkg/exsheet"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/storage"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

var specialKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"ctrl+z": tea.KeyCtrlZ,
	"ctrl+y": tea.KeyCtrlY,
	"ctrl+s": tea.KeyCtrlS,
	"ctrl+c": tea.KeyCtrlC,
}

func keyMsg(k string) tea.KeyMsg {
	if t, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys to m and returns the resulting model and last command.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func newTestView(t *testing.T, opts Options) (*exsheet.Workbook, Model) {
	t.Helper()
	wb := exsheet.New(exsheet.Options{Rows: 5, Cols: 3})
	if opts.Clipboard == nil {
		opts.Clipboard = func(string) error { return nil }
	}
	return wb, New(wb, opts)
}

func get(t *testing.T, wb *exsheet.Workbook, row, col int) string {
	t.Helper()
	v, err := wb.Get(row, col)
	if err != nil {
		t.Fatalf("Get(%d, %d) failed: %v", row, col, err)
	}
	return v
}

func TestEditCommitsAndRecomputes(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "enter")
	if !m.Editing() {
		t.Fatal("enter did not start editing")
	}
	m, _ = press(t, m, "=40+2")
	if got := get(t, wb, 0, 0); got != "=40+2" {
		t.Errorf("cell during edit = %q, expected %q", got, "=40+2")
	}
	m, _ = press(t, m, "enter")

	if m.Editing() {
		t.Error("still editing after commit")
	}
	if got := wb.Display()[0][0]; got != "42" {
		t.Errorf("display = %q, expected %q", got, "42")
	}
	if diff := cmp.Diff(models.CellRef{Row: 1, Col: 0}, m.Cursor()); diff != "" {
		t.Errorf("cursor after commit mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "42") {
		t.Error("view does not show the computed value")
	}

	m, _ = press(t, m, "ctrl+z")
	if got := get(t, wb, 0, 0); got != "" {
		t.Errorf("cell after undo = %q, expected empty", got)
	}
	_, _ = press(t, m, "ctrl+y")
	if got := get(t, wb, 0, 0); got != "=40+2" {
		t.Errorf("cell after redo = %q, expected %q", got, "=40+2")
	}
}

func TestEscCancelsEdit(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "enter", "abc", "esc")
	if m.Editing() {
		t.Error("still editing after esc")
	}
	if got := get(t, wb, 0, 0); got != "" {
		t.Errorf("cell after cancel = %q, expected empty", got)
	}
	if wb.CanUndo() {
		t.Error("cancelled edit recorded history")
	}
}

func TestNavigation(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "l", "right", "l", "l")
	if got := m.Cursor(); got.Col != 2 {
		t.Errorf("cursor column = %d, expected 2", got.Col)
	}
	m, _ = press(t, m, "j", "down", "k")
	if diff := cmp.Diff(models.CellRef{Row: 1, Col: 2}, m.Cursor()); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
	m, _ = press(t, m, "up", "up", "h", "left", "h")
	if diff := cmp.Diff(models.CellRef{}, m.Cursor()); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}

	sel, ok := wb.Selected()
	if !ok || sel != m.Cursor() {
		t.Errorf("Selected() = (%v, %v), expected cursor %v", sel, ok, m.Cursor())
	}
	if !strings.Contains(m.View(), "Selected: A1") {
		t.Error("view does not show the selected cell")
	}
}

func TestClipboardKeys(t *testing.T) {
	var copied []string
	wb, m := newTestView(t, Options{
		Clipboard: func(v string) error {
			copied = append(copied, v)
			return nil
		},
	})
	if err := wb.Commit(0, 0, "v"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	m, _ = press(t, m, "y")
	if m.Status() != "Copied A1" {
		t.Errorf("status = %q, expected %q", m.Status(), "Copied A1")
	}
	m, _ = press(t, m, "j", "p")
	if got := get(t, wb, 1, 0); got != "v" {
		t.Errorf("pasted cell = %q, expected %q", got, "v")
	}

	_, _ = press(t, m, "x")
	if got := get(t, wb, 1, 0); got != "" {
		t.Errorf("cut cell = %q, expected empty", got)
	}
	if diff := cmp.Diff([]string{"v", "v"}, copied); diff != "" {
		t.Errorf("system clipboard mismatch (-want +got):\n%s", diff)
	}
}

func TestPasteWithoutCopy(t *testing.T) {
	_, m := newTestView(t, Options{})

	m, _ = press(t, m, "p")
	if m.Status() != exsheet.ErrEmptyClipboard.Error() {
		t.Errorf("status = %q, expected %q", m.Status(), exsheet.ErrEmptyClipboard.Error())
	}
	if !strings.Contains(m.View(), "error: clipboard is empty") {
		t.Error("view does not show the error")
	}
}

func TestStyleKeys(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "B", "U")
	style, err := wb.Style(0, 0)
	if err != nil {
		t.Fatalf("Style failed: %v", err)
	}
	if !exsheet.HasTextStyle(style, exsheet.Bold) || !exsheet.HasTextStyle(style, exsheet.Underline) {
		t.Errorf("style = %q, expected bold and underline", style)
	}

	_, _ = press(t, m, "B")
	style, _ = wb.Style(0, 0)
	if exsheet.HasTextStyle(style, exsheet.Bold) {
		t.Errorf("style = %q, expected bold toggled off", style)
	}
}

func TestSheetKeys(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "n")
	if wb.SheetCount() != 2 || wb.CurrentIndex() != 1 {
		t.Fatalf("after new sheet: count=%d current=%d", wb.SheetCount(), wb.CurrentIndex())
	}
	if !strings.Contains(m.View(), "Sheet 2") {
		t.Error("view does not show the new sheet tab")
	}

	m, _ = press(t, m, "[")
	if wb.CurrentIndex() != 0 {
		t.Errorf("after [: current=%d, expected 0", wb.CurrentIndex())
	}
	m, _ = press(t, m, "]", "]")
	if wb.CurrentIndex() != 1 {
		t.Errorf("after ]: current=%d, expected 1", wb.CurrentIndex())
	}

	m, _ = press(t, m, "X")
	if wb.SheetCount() != 1 {
		t.Fatalf("after delete: count=%d, expected 1", wb.SheetCount())
	}
	m, _ = press(t, m, "X")
	if m.Status() != exsheet.ErrLastSheet.Error() {
		t.Errorf("status = %q, expected %q", m.Status(), exsheet.ErrLastSheet.Error())
	}
}

func TestStructuralKeys(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "r", "c")
	if wb.Rows() != 6 || wb.Cols() != 4 {
		t.Errorf("after inserts: %dx%d, expected 6x4", wb.Rows(), wb.Cols())
	}

	m, _ = press(t, m, "l", "l", "l", "C", "C")
	if wb.Cols() != 2 {
		t.Errorf("after deletes: %d columns, expected 2", wb.Cols())
	}
	if got := m.Cursor(); got.Col != 1 {
		t.Errorf("cursor column = %d, expected it clamped to 1", got.Col)
	}

	_, _ = press(t, m, "R")
	if wb.Rows() != 5 {
		t.Errorf("after row delete: %d rows, expected 5", wb.Rows())
	}
}

func TestSortKeys(t *testing.T) {
	wb := exsheet.New(exsheet.Options{Rows: 3, Cols: 1})
	for i, v := range []string{"b", "a", "c"} {
		if err := wb.Commit(i, 0, v); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}
	m := New(wb, Options{Clipboard: func(string) error { return nil }})

	m, _ = press(t, m, "s")
	if got := get(t, wb, 0, 0); got != "a" {
		t.Errorf("first cell after ascending sort = %q, expected %q", got, "a")
	}
	_, _ = press(t, m, "S")
	if got := get(t, wb, 0, 0); got != "c" {
		t.Errorf("first cell after descending sort = %q, expected %q", got, "c")
	}
}

func TestFilterKeys(t *testing.T) {
	wb, m := newTestView(t, Options{})
	for i, v := range []string{"apple", "banana", "cherry"} {
		if err := wb.Commit(i, 0, v); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}

	m, _ = press(t, m, "/", "AN", "enter")
	if diff := cmp.Diff([]int{1}, wb.VisibleRows()); diff != "" {
		t.Errorf("visible rows mismatch (-want +got):\n%s", diff)
	}
	if got := m.Cursor().Row; got != 1 {
		t.Errorf("cursor row = %d, expected it moved to the visible row 1", got)
	}
	view := m.View()
	if strings.Contains(view, "apple") || !strings.Contains(view, "banana") {
		t.Errorf("filtered view shows the wrong rows:\n%s", view)
	}

	_, _ = press(t, m, "F")
	if got := len(wb.VisibleRows()); got != 5 {
		t.Errorf("visible rows after clearing = %d, expected 5", got)
	}
}

func TestSaveKey(t *testing.T) {
	store := storage.NewMemoryStore()
	wb, m := newTestView(t, Options{Store: store})
	if err := wb.Commit(0, 0, "saved"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	m, _ = press(t, m, "ctrl+s")
	if m.Status() != "Saved" {
		t.Errorf("status = %q, expected %q", m.Status(), "Saved")
	}
	if _, err := store.Get(context.Background(), storage.SpreadsheetKey); err != nil {
		t.Errorf("store has no workbook: %v", err)
	}

	_, m = newTestView(t, Options{})
	m, _ = press(t, m, "ctrl+s")
	if m.Status() != errNoStore.Error() {
		t.Errorf("status without store = %q, expected %q", m.Status(), errNoStore.Error())
	}
}

func TestExportKey(t *testing.T) {
	dir := t.TempDir()
	wb, m := newTestView(t, Options{ExportDir: dir})
	if err := wb.Commit(0, 0, "x"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	_, _ = press(t, m, "e")
	b, err := os.ReadFile(filepath.Join(dir, transfer.DefaultFilename))
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if !strings.HasPrefix(string(b), "x,") {
		t.Errorf("export content = %q", b)
	}

	_, m = newTestView(t, Options{ExportDir: dir, ExportFilename: "named.csv"})
	m, _ = press(t, m, "e")
	want := filepath.Join(dir, "named.csv")
	if m.Status() != "Exported "+want {
		t.Errorf("status = %q, expected export to %s", m.Status(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("named export missing: %v", err)
	}
}

func TestFunctionPrompt(t *testing.T) {
	wb, m := newTestView(t, Options{})
	_ = wb.Commit(0, 0, "1")
	_ = wb.Commit(1, 0, "2")
	_ = wb.Commit(2, 1, "A1:A2")

	m, _ = press(t, m, "j", "j", "l", "=")
	if m.mode != modePrompt {
		t.Fatal("= did not open the function prompt")
	}
	if view := m.View(); !strings.Contains(view, "Function:") || !strings.Contains(view, "SUM") {
		t.Errorf("function prompt does not list functions:\n%s", view)
	}

	m, _ = press(t, m, "sum", "enter")
	if got := get(t, wb, 2, 1); got != "=SUM(A1:A2)" {
		t.Errorf("cell = %q, expected %q", got, "=SUM(A1:A2)")
	}
	if got := wb.Display()[2][1]; got != "3" {
		t.Errorf("display = %q, expected 3", got)
	}
	if m.Status() != "Inserted SUM" {
		t.Errorf("status = %q", m.Status())
	}

	m, _ = press(t, m, "=", "median", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), "unknown function") {
		t.Errorf("status after unknown function = %q", m.Status())
	}

	m, _ = press(t, m, "=", "max", "esc")
	if m.mode != modeNormal || get(t, wb, 2, 1) != "=SUM(A1:A2)" {
		t.Error("esc did not cancel the function prompt")
	}
}

func TestFormatPrompt(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "f", "color=red size=14", "enter")
	style, err := wb.Style(0, 0)
	if err != nil {
		t.Fatalf("Style failed: %v", err)
	}
	if !strings.Contains(style, "color: red;") || !strings.Contains(style, "font-size: 14px;") {
		t.Errorf("style = %q", style)
	}
	if m.Status() != "Formatted A1" {
		t.Errorf("status = %q", m.Status())
	}

	m, _ = press(t, m, "f", "weight=700", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), "unknown setting") {
		t.Errorf("status after a bad setting = %q", m.Status())
	}
	if after, _ := wb.Style(0, 0); after != style {
		t.Errorf("bad setting changed the style to %q", after)
	}
}

func TestChartPrompt(t *testing.T) {
	wb, m := newTestView(t, Options{})
	for r, row := range [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5", "6"}} {
		for c, v := range row {
			_ = wb.Commit(r, c, v)
		}
	}

	m, _ = press(t, m, "G", "line A1:C3", "enter")
	if m.Status() != "Chart line A1:C3: 2 series" {
		t.Errorf("status = %q", m.Status())
	}
	charts := wb.Charts()
	if len(charts) != 1 || charts[0].ChartType != models.ChartLine {
		t.Fatalf("charts = %+v", charts)
	}
	if view := m.View(); !strings.Contains(view, "charts: line A1:C3") {
		t.Errorf("view does not list the chart:\n%s", view)
	}

	// the default A1:F6 does not fit a 5x3 sheet
	m, _ = press(t, m, "G", "enter")
	if !m.statusErr {
		t.Errorf("default chart on a small sheet succeeded: %q", m.Status())
	}
	m, _ = press(t, m, "G", "radar", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), "invalid chart") {
		t.Errorf("status after unknown chart type = %q", m.Status())
	}
	if len(wb.Charts()) != 1 {
		t.Errorf("failed charts were recorded: %+v", wb.Charts())
	}

	_, _ = press(t, m, "ctrl+z")
	if len(wb.Charts()) != 0 {
		t.Error("undo did not remove the chart")
	}
}

func TestViewToggles(t *testing.T) {
	_, m := newTestView(t, Options{})

	m, _ = press(t, m, "+")
	if m.cellWidth != defaultCellWidth+zoomStep || m.Status() != "Zoom 120%" {
		t.Errorf("zoom in: width %d, status %q", m.cellWidth, m.Status())
	}
	m, _ = press(t, m, "-", "-", "-", "-", "-", "-")
	if m.cellWidth != minCellWidth {
		t.Errorf("zoom out stopped at width %d, expected %d", m.cellWidth, minCellWidth)
	}
	m, _ = press(t, m, "+", "+", "+")
	if !strings.Contains(m.View(), "    A     ") {
		t.Errorf("zoomed header not %d wide:\n%s", m.cellWidth, m.View())
	}

	if strings.Contains(m.View(), "│") {
		t.Error("gridlines shown before toggling")
	}
	m, _ = press(t, m, "g")
	if !strings.Contains(m.View(), "│") {
		t.Error("gridlines not shown after g")
	}

	if !strings.Contains(m.View(), " fx ") {
		t.Error("formula bar hidden by default")
	}
	m, _ = press(t, m, "b")
	if strings.Contains(m.View(), " fx ") {
		t.Error("formula bar shown after b")
	}
	m, _ = press(t, m, "enter")
	if !strings.Contains(m.View(), " fx ") {
		t.Error("formula bar hidden while editing")
	}
}

func TestQuit(t *testing.T) {
	_, m := newTestView(t, Options{})

	m, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("view is not empty after quitting")
	}
}

func TestEditModeTypesQuitKey(t *testing.T) {
	wb, m := newTestView(t, Options{})

	m, _ = press(t, m, "enter", "q")
	if m.quitting || !m.Editing() {
		t.Fatal("q left edit mode")
	}
	if got := get(t, wb, 0, 0); got != "q" {
		t.Errorf("cell = %q, expected %q", got, "q")
	}
}

func TestWindowResizeScrolls(t *testing.T) {
	_, m := newTestView(t, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(Model)
	m, _ = press(t, m, "j", "j", "j", "j")
	if m.scrollY == 0 {
		t.Error("grid did not scroll to keep the cursor visible")
	}
	if !strings.Contains(m.View(), "   5 ") {
		t.Error("view does not show the cursor row")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"abc", "abc   "},
		{"42", "    42"},
		{"abcdefgh", "abcde…"},
		{"日本", "日本  "},
		{"日本語です", "日本… "},
	}
	for _, tt := range tests {
		if got := fit(tt.in, 6); got != tt.expected {
			t.Errorf("fit(%q, 6) = %q, expected %q", tt.in, got, tt.expected)
		}
	}

	for _, in := range []string{"日本語", "合計金額テスト", "mixed 日本 text"} {
		if got := lipgloss.Width(fit(in, 10)); got != 10 {
			t.Errorf("fit(%q, 10) is %d columns wide, expected 10", in, got)
		}
	}
	if got := lipgloss.Width(center("表", 10)); got != 10 {
		t.Errorf("center is %d columns wide, expected 10", got)
	}
}
