package exsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/storage"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

func newTestWorkbook(t *testing.T) *Workbook {
	t.Helper()
	return New(Options{Rows: 3, Cols: 3})
}

func data(t *testing.T, w *Workbook) [][]string {
	t.Helper()
	s, err := w.ActiveSheet()
	if err != nil {
		t.Fatalf("ActiveSheet failed: %v", err)
	}
	return s.Data
}

func TestNewWorkbookDefaults(t *testing.T) {
	w := New(Options{})
	if w.Rows() != 100 || w.Cols() != 26 {
		t.Errorf("new sheet is %dx%d, expected 100x26", w.Rows(), w.Cols())
	}
	if w.SheetCount() != 1 || w.CurrentIndex() != 0 {
		t.Errorf("SheetCount=%d CurrentIndex=%d", w.SheetCount(), w.CurrentIndex())
	}
}

func TestSetGet(t *testing.T) {
	w := newTestWorkbook(t)

	for _, v := range []string{"hello", "=1+2", ""} {
		if err := w.Set(1, 2, v); err != nil {
			t.Fatalf("Set(1, 2, %q) failed: %v", v, err)
		}
		got, err := w.Get(1, 2)
		if err != nil || got != v {
			t.Errorf("Get(1, 2) = (%q, %v), expected %q", got, err, v)
		}
	}

	if w.CanUndo() {
		t.Error("Set recorded a history snapshot")
	}
	if err := w.Set(3, 0, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set out of bounds error = %v, expected ErrOutOfBounds", err)
	}
}

func TestCommitRecomputes(t *testing.T) {
	w := newTestWorkbook(t)

	if err := w.Commit(0, 1, "=A1+5"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := w.Display()[0][1]; got != "5" {
		t.Errorf("B1 displays %q, expected %q", got, "5")
	}

	if err := w.Commit(1, 0, "=A1+"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	display := w.Display()
	if display[1][0] != "#ERROR!" {
		t.Errorf("A2 displays %q, expected #ERROR!", display[1][0])
	}
	if display[0][1] != "5" {
		t.Errorf("B1 displays %q after another cell failed", display[0][1])
	}

	// Set does not recompute until asked
	_ = w.Set(0, 0, "10")
	if got := w.Display()[0][1]; got != "5" {
		t.Errorf("B1 displays %q before recompute, expected stale %q", got, "5")
	}
	if got := w.Recompute()[0][1]; got != "15" {
		t.Errorf("B1 displays %q after recompute, expected %q", got, "15")
	}
}

func TestUndoRedo(t *testing.T) {
	w := newTestWorkbook(t)
	before := data(t, w)

	if err := w.Commit(0, 0, "x"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	after := data(t, w)

	if ok, err := w.Undo(); !ok || err != nil {
		t.Fatalf("Undo = (%v, %v)", ok, err)
	}
	if diff := cmp.Diff(before, data(t, w)); diff != "" {
		t.Errorf("undo mismatch (-want +got):\n%s", diff)
	}

	if ok, err := w.Redo(); !ok || err != nil {
		t.Fatalf("Redo = (%v, %v)", ok, err)
	}
	if diff := cmp.Diff(after, data(t, w)); diff != "" {
		t.Errorf("redo mismatch (-want +got):\n%s", diff)
	}

	_, _ = w.Undo()
	if err := w.Commit(1, 1, "y"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if w.CanRedo() {
		t.Error("new action did not clear redo")
	}
	if ok, _ := w.Redo(); ok {
		t.Error("Redo succeeded after a new action")
	}
}

func TestUndoAddSheetRestoresActiveIndex(t *testing.T) {
	w := newTestWorkbook(t)
	if _, err := w.AddSheet(); err != nil {
		t.Fatalf("AddSheet failed: %v", err)
	}
	if _, err := w.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if w.SheetCount() != 1 || w.CurrentIndex() != 0 {
		t.Errorf("after undo: SheetCount=%d CurrentIndex=%d", w.SheetCount(), w.CurrentIndex())
	}
}

func TestSheetManagement(t *testing.T) {
	w := newTestWorkbook(t)

	for i := 1; i <= 2; i++ {
		idx, err := w.AddSheet()
		if err != nil {
			t.Fatalf("AddSheet failed: %v", err)
		}
		if idx != i || w.CurrentIndex() != i {
			t.Errorf("AddSheet = %d, CurrentIndex = %d, expected %d", idx, w.CurrentIndex(), i)
		}
	}

	if err := w.SwitchSheet(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SwitchSheet(3) error = %v, expected ErrOutOfBounds", err)
	}
	if err := w.SwitchSheet(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SwitchSheet(-1) error = %v, expected ErrOutOfBounds", err)
	}
	if w.CurrentIndex() != 2 {
		t.Errorf("rejected switch changed CurrentIndex to %d", w.CurrentIndex())
	}

	if err := w.DeleteSheet(0); err != nil {
		t.Fatalf("DeleteSheet(0) failed: %v", err)
	}
	if w.SheetCount() != 2 || w.CurrentIndex() != 1 {
		t.Errorf("after delete: SheetCount=%d CurrentIndex=%d", w.SheetCount(), w.CurrentIndex())
	}

	if err := w.CloseCurrentSheet(); err != nil {
		t.Fatalf("CloseCurrentSheet failed: %v", err)
	}
	if w.SheetCount() != 1 || w.CurrentIndex() != 0 {
		t.Errorf("after close: SheetCount=%d CurrentIndex=%d", w.SheetCount(), w.CurrentIndex())
	}

	snap, _ := w.Snapshot()
	if err := w.DeleteCurrentSheet(); !errors.Is(err, ErrLastSheet) {
		t.Errorf("deleting the last sheet error = %v, expected ErrLastSheet", err)
	}
	after, _ := w.Snapshot()
	if diff := cmp.Diff(snap, after); diff != "" {
		t.Errorf("rejected delete changed the workbook (-want +got):\n%s", diff)
	}
}

func TestStructuralEdits(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "a")
	_ = w.Select(2, 2)

	if err := w.InsertRow(0); err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}
	if got, _ := w.Get(1, 0); got != "a" || w.Rows() != 4 {
		t.Errorf("after InsertRow: A2=%q rows=%d", got, w.Rows())
	}
	if err := w.InsertColumn(0); err != nil {
		t.Fatalf("InsertColumn failed: %v", err)
	}
	if got, _ := w.Get(1, 1); got != "a" || w.Cols() != 4 {
		t.Errorf("after InsertColumn: B2=%q cols=%d", got, w.Cols())
	}

	if err := w.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow failed: %v", err)
	}
	if err := w.DeleteColumn(0); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}
	if got, _ := w.Get(0, 0); got != "a" {
		t.Errorf("after deletes: A1=%q", got)
	}

	_ = w.DeleteRow(0)
	if _, ok := w.Selected(); ok {
		t.Error("selection outside the sheet was kept")
	}

	undoable := w.CanUndo()
	if err := w.DeleteRow(10); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("DeleteRow(10) error = %v, expected ErrOutOfBounds", err)
	}
	if !undoable {
		t.Fatal("expected undo history")
	}

	for w.CanUndo() {
		if _, err := w.Undo(); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
	}
	if w.Rows() != 3 || w.Cols() != 3 {
		t.Errorf("after undoing everything the sheet is %dx%d", w.Rows(), w.Cols())
	}
}

func TestRejectedEditRecordsNoHistory(t *testing.T) {
	w := newTestWorkbook(t)
	if err := w.InsertRow(5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("InsertRow(5) error = %v, expected ErrOutOfBounds", err)
	}
	if w.CanUndo() {
		t.Error("rejected edit recorded a snapshot")
	}
}

func TestClipboard(t *testing.T) {
	w := newTestWorkbook(t)

	if _, err := w.Copy(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Copy without selection error = %v, expected ErrNoSelection", err)
	}
	_ = w.Select(0, 0)
	if err := w.Paste(); !errors.Is(err, ErrEmptyClipboard) {
		t.Errorf("Paste with empty clipboard error = %v, expected ErrEmptyClipboard", err)
	}

	_ = w.Commit(0, 0, "v")
	if err := w.ToggleStyle(Bold); err != nil {
		t.Fatalf("ToggleStyle failed: %v", err)
	}
	entry, err := w.Copy()
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if entry.Value != "v" || entry.Style != "font-weight: bold;" {
		t.Errorf("Copy = %+v", entry)
	}

	for _, cell := range [][2]int{{1, 1}, {2, 2}} {
		_ = w.Select(cell[0], cell[1])
		if err := w.Paste(); err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		v, _ := w.Get(cell[0], cell[1])
		style, _ := w.Style(cell[0], cell[1])
		if v != "v" || style != "font-weight: bold;" {
			t.Errorf("pasted cell %v = (%q, %q)", cell, v, style)
		}
	}

	_ = w.Select(0, 0)
	if _, err := w.Cut(); err != nil {
		t.Fatalf("Cut failed: %v", err)
	}
	v, _ := w.Get(0, 0)
	style, _ := w.Style(0, 0)
	if v != "" || style != "font-weight: bold;" {
		t.Errorf("after cut A1 = (%q, %q), expected value cleared and style kept", v, style)
	}
	if got, ok := w.Clipboard(); !ok || got.Value != "v" {
		t.Errorf("Clipboard() = (%+v, %v)", got, ok)
	}
}

func TestFormatting(t *testing.T) {
	w := newTestWorkbook(t)
	if err := w.ToggleStyle(Italic); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ToggleStyle without selection error = %v", err)
	}

	_ = w.Select(1, 1)
	_ = w.ToggleStyle(Italic)
	_ = w.ApplyFormat(CellFormat{Background: "#ffff00"})
	style, _ := w.Style(1, 1)
	if style != "font-style: italic; background-color: #ffff00;" {
		t.Errorf("style = %q", style)
	}

	_ = w.ToggleStyle(Italic)
	style, _ = w.Style(1, 1)
	if style != "background-color: #ffff00;" {
		t.Errorf("style after second toggle = %q", style)
	}
}

func TestInsertFunction(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "2")
	_ = w.Commit(1, 0, "4")
	_ = w.Commit(2, 0, "A1:A2")
	_ = w.Select(2, 0)

	if err := w.InsertFunction("AVERAGE"); err != nil {
		t.Fatalf("InsertFunction failed: %v", err)
	}
	if got, _ := w.Get(2, 0); got != "=AVERAGE(A1:A2)" {
		t.Errorf("A3 = %q", got)
	}
	if got := w.Display()[2][0]; got != "3" {
		t.Errorf("A3 displays %q, expected %q", got, "3")
	}

	if err := w.InsertFunction("MEDIAN"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("InsertFunction(MEDIAN) error = %v, expected ErrUnknownFunction", err)
	}
}

func TestSortAndFilter(t *testing.T) {
	w := newTestWorkbook(t)
	for i, v := range []string{"cherry", "Apple", "banana"} {
		_ = w.Commit(i, 0, v)
	}

	if err := w.SortColumn(0, false); err != nil {
		t.Fatalf("SortColumn failed: %v", err)
	}
	var got []string
	for i := 0; i < 3; i++ {
		v, _ := w.Get(i, 0)
		got = append(got, v)
	}
	if diff := cmp.Diff([]string{"Apple", "banana", "cherry"}, got); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}

	if err := w.SetFilter(0, "AN"); err != nil {
		t.Fatalf("SetFilter failed: %v", err)
	}
	if diff := cmp.Diff([]int{1}, w.VisibleRows()); diff != "" {
		t.Errorf("visible rows mismatch (-want +got):\n%s", diff)
	}
	if err := w.ClearFilters(); err != nil {
		t.Fatalf("ClearFilters failed: %v", err)
	}
	if len(w.VisibleRows()) != 3 {
		t.Errorf("VisibleRows after clear = %v", w.VisibleRows())
	}
}

func TestImport(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Select(0, 0)
	_ = w.ToggleStyle(Bold)

	if err := w.Import("data.csv", []byte("a,b\n1,2,3")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	want := [][]string{{"a", "b", ""}, {"1", "2", "3"}}
	if diff := cmp.Diff(want, data(t, w)); diff != "" {
		t.Errorf("imported data mismatch (-want +got):\n%s", diff)
	}
	if style, _ := w.Style(0, 0); style != "" {
		t.Errorf("import kept style %q", style)
	}

	if _, err := w.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if w.Rows() != 3 {
		t.Errorf("undo of import left %d rows", w.Rows())
	}
}

func TestImportXLS(t *testing.T) {
	payload, err := os.ReadFile(filepath.Join("transfer", "testdata", "basic.xls"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	w := newTestWorkbook(t)
	if err := w.Import("x.xls", payload); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	want := [][]string{
		{"name", "qty", "price"},
		{"apple", "3", "1.5"},
		{"名前", "10", ""},
		{"", "", ""},
		{"total", "13", ""},
	}
	if diff := cmp.Diff(want, data(t, w)); diff != "" {
		t.Errorf("imported data mismatch (-want +got):\n%s", diff)
	}
}

func TestImportFailureLeavesStateUnchanged(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "keep")
	before, _ := w.Snapshot()

	tests := []struct {
		filename string
		payload  string
		sentinel error
	}{
		{"rows.json", `{"not": "rows"}`, ErrInvalidFormat},
		{"rows.json", `[1, 2]`, ErrInvalidFormat},
		{"book.xlsx", "garbage", ErrInvalidFormat},
		{"notes.txt", "a,b", ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		err := w.Import(tt.filename, []byte(tt.payload))
		var importErr *ImportError
		if !errors.As(err, &importErr) {
			t.Errorf("Import(%q) error = %v, expected *ImportError", tt.filename, err)
			continue
		}
		if importErr.Filename != tt.filename {
			t.Errorf("ImportError.Filename = %q", importErr.Filename)
		}
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("Import(%q) error = %v, expected %v", tt.filename, err, tt.sentinel)
		}
	}

	after, _ := w.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("failed imports changed the workbook (-want +got):\n%s", diff)
	}
}

func TestDelimitedRoundTrip(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "name")
	_ = w.Commit(1, 2, "=SUM(1+2)")
	_ = w.Commit(2, 1, "x y")
	before := data(t, w)

	if err := w.Import("back.csv", []byte(w.ExportDelimited())); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if diff := cmp.Diff(before, data(t, w)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	w := New(Options{Rows: 2, Cols: 2})
	_ = w.Commit(0, 0, "a")
	_ = w.Commit(1, 1, "7")

	var csv bytes.Buffer
	if err := w.Export(&csv, transfer.FormatCSV); err != nil {
		t.Fatalf("Export csv failed: %v", err)
	}
	if csv.String() != "a,\n,7" {
		t.Errorf("csv = %q", csv.String())
	}

	var js bytes.Buffer
	if err := w.Export(&js, transfer.FormatJSON); err != nil {
		t.Fatalf("Export json failed: %v", err)
	}
	if js.String() != `[["a",""],["","7"]]` {
		t.Errorf("json = %q", js.String())
	}

	var xlsx bytes.Buffer
	if err := w.Export(&xlsx, transfer.FormatXLSX); err != nil {
		t.Fatalf("Export xlsx failed: %v", err)
	}
	rows, err := transfer.ReadXLSX(xlsx.Bytes())
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if diff := cmp.Diff([][]string{{"a"}, {"", "7"}}, rows); diff != "" {
		t.Errorf("xlsx mismatch (-want +got):\n%s", diff)
	}

	if err := w.Export(&bytes.Buffer{}, transfer.FormatXLS); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Export xls error = %v, expected ErrUnsupportedFormat", err)
	}

	path, err := w.Download(t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path == "" {
		t.Error("Download returned an empty path")
	}
}

func TestCharts(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Import("sales.csv", []byte("Jan,Feb\n1,2\n3,x"))
	r := models.Range{R1: 1, C1: 1, R2: 3, C2: 2}

	chart, err := w.Chart(models.ChartLine, r)
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	want := models.Chart{
		ChartType: models.ChartLine,
		Range:     r,
		Labels:    []string{"Jan", "Feb"},
		Series: []models.ChartSeries{
			{Name: "Dataset 1", XRange: "A1:B1", YRange: "A2:B2", Values: []float64{1, 2}},
			{Name: "Dataset 2", XRange: "A1:B1", YRange: "A3:B3", Values: []float64{3, 0}},
		},
	}
	if diff := cmp.Diff(want, chart); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}
	if len(w.Charts()) != 0 {
		t.Error("Chart recorded a chart")
	}

	if _, err := w.Chart("radar", r); !errors.Is(err, ErrInvalidChart) {
		t.Errorf("Chart(radar) error = %v, expected ErrInvalidChart", err)
	}
	if err := w.InsertChart(models.ChartBar, models.Range{R1: 1, C1: 1, R2: 1, C2: 2}); !errors.Is(err, ErrInvalidChart) {
		t.Errorf("InsertChart without data rows error = %v, expected ErrInvalidChart", err)
	}
	if err := w.InsertChart(models.ChartBar, models.Range{R1: 1, C1: 1, R2: 9, C2: 2}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("InsertChart out of bounds error = %v, expected ErrOutOfBounds", err)
	}

	if err := w.InsertChart(models.ChartBar, r); err != nil {
		t.Fatalf("InsertChart failed: %v", err)
	}
	if err := w.InsertRow(0); err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}
	charts := w.Charts()
	if len(charts) != 1 || charts[0].Range != (models.Range{R1: 2, C1: 1, R2: 4, C2: 2}) {
		t.Fatalf("charts after InsertRow = %+v", charts)
	}

	var xlsx bytes.Buffer
	if err := w.Export(&xlsx, transfer.FormatXLSX); err != nil {
		t.Fatalf("Export xlsx failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(xlsx.Bytes()), int64(xlsx.Len()))
	if err != nil {
		t.Fatalf("xlsx is not a zip archive: %v", err)
	}
	found := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") {
			found = true
		}
	}
	if !found {
		t.Error("xlsx export has no chart part")
	}

	_, _ = w.Undo()
	_, _ = w.Undo()
	if len(w.Charts()) != 0 {
		t.Errorf("charts after undoing the insert = %+v", w.Charts())
	}
}

func TestDownloadFile(t *testing.T) {
	w := New(Options{Rows: 1, Cols: 2})
	_ = w.Commit(0, 0, "a")
	dir := t.TempDir()

	path, err := w.DownloadFile(dir, "named.csv")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if path != filepath.Join(dir, "named.csv") {
		t.Errorf("DownloadFile path = %q", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("download missing: %v", err)
	}
	if string(content) != "a," {
		t.Errorf("download content = %q", content)
	}

	path, err = w.DownloadFile(dir, "")
	if err != nil || filepath.Base(path) != transfer.DefaultFilename {
		t.Errorf("DownloadFile with empty name = (%q, %v)", path, err)
	}
}

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "first")
	_, _ = w.AddSheet()
	_ = w.Commit(1, 1, "second")
	if err := w.Save(ctx, store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Open(ctx, store, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if loaded.SheetCount() != 2 || loaded.CurrentIndex() != 0 {
		t.Errorf("loaded SheetCount=%d CurrentIndex=%d", loaded.SheetCount(), loaded.CurrentIndex())
	}
	if got, _ := loaded.Get(0, 0); got != "first" {
		t.Errorf("loaded A1 = %q", got)
	}
	if loaded.CanUndo() {
		t.Error("loaded workbook has undo history")
	}

	empty, err := Open(ctx, storage.NewMemoryStore(), Options{Rows: 4, Cols: 2})
	if err != nil {
		t.Fatalf("Open on empty store failed: %v", err)
	}
	if empty.Rows() != 4 || empty.Cols() != 2 {
		t.Errorf("fresh workbook is %dx%d", empty.Rows(), empty.Cols())
	}
}

func TestRejectedOperationsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := New(Options{Rows: 2, Cols: 2, Logger: zap.New(core)})

	_ = w.DeleteSheet(0)
	_ = w.DeleteRow(9)
	_ = w.Commit(0, 0, "x")

	if n := logs.FilterMessage("operation rejected").Len(); n != 2 {
		t.Errorf("logged %d rejections, expected 2", n)
	}
	if n := logs.FilterMessage("commit").Len(); n != 1 {
		t.Errorf("logged %d commits, expected 1", n)
	}
}

func TestKeystrokeEditsUndoAsOneAction(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(0, 0, "old")

	for _, v := range []string{"n", "ne", "new"} {
		if err := w.Set(0, 0, v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := w.Commit(0, 0, "new"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	_, _ = w.Undo()
	if got, _ := w.Get(0, 0); got != "old" {
		t.Errorf("after undo A1 = %q, expected %q", got, "old")
	}
	_, _ = w.Redo()
	if got, _ := w.Get(0, 0); got != "new" {
		t.Errorf("after redo A1 = %q, expected %q", got, "new")
	}
}

func TestCancelEdit(t *testing.T) {
	w := newTestWorkbook(t)
	_ = w.Commit(1, 1, "keep")
	_ = w.Set(1, 1, "typed")
	_ = w.Set(2, 2, "other")

	// a rejected action keeps the uncommitted edits
	_ = w.DeleteColumn(7)
	if got, _ := w.Get(1, 1); got != "typed" {
		t.Errorf("rejected action dropped edit: B2 = %q", got)
	}

	w.CancelEdit()
	if got, _ := w.Get(1, 1); got != "keep" {
		t.Errorf("after cancel B2 = %q, expected %q", got, "keep")
	}
	if got, _ := w.Get(2, 2); got != "" {
		t.Errorf("after cancel C3 = %q, expected empty", got)
	}
	w.CancelEdit()
}
