package exsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/formula"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/history"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/output"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/storage"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

// Workbook owns a workbook's sheets, active sheet, selection, clipboard and
// undo/redo history. All methods are safe for concurrent use; every mutation
// and its history snapshot happen under one lock.
type Workbook struct {
	mu        sync.Mutex
	state     models.Workbook
	history   *history.Manager
	selected  *models.CellRef
	clipboard *models.ClipboardEntry
	pending   *models.Workbook // state before uncommitted Set calls
	display   [][]string
	opts      Options
	log       *zap.Logger
}

// New returns a workbook with one empty sheet.
func New(opts Options) *Workbook {
	w := &Workbook{
		state:   models.NewWorkbook(opts.SheetRows(), opts.SheetCols()),
		history: history.New(opts.HistoryLimit),
		opts:    opts,
		log:     opts.logger(),
	}
	w.recompute()
	return w
}

// Open returns the workbook saved in store, or a new one when nothing has
// been saved.
func Open(ctx context.Context, store storage.Store, opts Options) (*Workbook, error) {
	w := New(opts)
	if _, err := w.Load(ctx, store); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workbook) active() *models.Sheet {
	return &w.state.Sheets[w.state.Current]
}

func (w *Workbook) recompute() {
	w.display = formula.Recompute(w.active())
}

// fixSelection drops a selection that no longer lies inside the active sheet.
func (w *Workbook) fixSelection() {
	if w.selected == nil {
		return
	}
	s := w.active()
	if w.selected.Row >= s.Rows() || w.selected.Col >= s.Cols() {
		w.selected = nil
	}
}

// mutate snapshots the workbook, runs fn and records the snapshot. When fn
// fails the workbook is restored and no snapshot is recorded. Uncommitted
// Set calls become part of the action.
func (w *Workbook) mutate(action string, fn func(s *models.Sheet) error) error {
	rollback, err := history.Clone(w.state)
	if err != nil {
		return err
	}
	before := rollback
	if w.pending != nil {
		before = *w.pending
	}
	if err := fn(w.active()); err != nil {
		w.state = rollback
		w.log.Warn("operation rejected", zap.String("action", action), zap.Error(err))
		return err
	}
	if err := w.history.Push(before); err != nil {
		w.state = rollback
		return err
	}
	w.pending = nil
	w.fixSelection()
	w.recompute()
	w.log.Debug(action,
		zap.Int("sheet", w.state.Current),
		zap.Int("rows", w.active().Rows()),
		zap.Int("cols", w.active().Cols()))
	return nil
}

// Get returns the raw value of a cell of the active sheet.
func (w *Workbook) Get(row, col int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return grid.Get(w.active(), row, col)
}

// Style returns the style string of a cell of the active sheet.
func (w *Workbook) Style(row, col int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return grid.Style(w.active(), row, col)
}

// Set writes a cell without recording history or recomputing. It backs
// per-keystroke edits: the next Commit, or any other action, records one
// snapshot taken before the first uncommitted Set.
func (w *Workbook) Set(row, col int, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := grid.Get(w.active(), row, col); err != nil {
		return err
	}
	if w.pending == nil {
		before, err := history.Clone(w.state)
		if err != nil {
			return err
		}
		w.pending = &before
	}
	return grid.Set(w.active(), row, col, value)
}

// CancelEdit reverts every Set since the last recorded action.
func (w *Workbook) CancelEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return
	}
	w.state = *w.pending
	w.pending = nil
	w.fixSelection()
	w.recompute()
}

// Commit writes a cell as one undoable action and recomputes.
func (w *Workbook) Commit(row, col int, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("commit", func(s *models.Sheet) error {
		return grid.Set(s, row, col, value)
	})
}

// Recompute evaluates every formula of the active sheet and returns the
// display grid.
func (w *Workbook) Recompute() [][]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recompute()
	return w.display
}

// Display returns the display grid from the last recompute. The returned
// rows must not be modified.
func (w *Workbook) Display() [][]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display
}

// Rows returns the row count of the active sheet.
func (w *Workbook) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active().Rows()
}

// Cols returns the column count of the active sheet.
func (w *Workbook) Cols() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active().Cols()
}

// SheetCount returns the number of sheets.
func (w *Workbook) SheetCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.state.Sheets)
}

// CurrentIndex returns the index of the active sheet.
func (w *Workbook) CurrentIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Current
}

// Snapshot returns a deep copy of the workbook state.
func (w *Workbook) Snapshot() (models.Workbook, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return history.Clone(w.state)
}

// ActiveSheet returns a deep copy of the active sheet.
func (w *Workbook) ActiveSheet() (models.Sheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap, err := history.Clone(models.Workbook{Sheets: []models.Sheet{*w.active()}})
	if err != nil {
		return models.Sheet{}, err
	}
	return snap.Sheets[0], nil
}

// AddSheet appends an empty sheet, makes it active and returns its index.
func (w *Workbook) AddSheet() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.mutate("add sheet", func(*models.Sheet) error {
		w.state.Sheets = append(w.state.Sheets, models.NewSheet(w.opts.SheetRows(), w.opts.SheetCols()))
		w.state.Current = len(w.state.Sheets) - 1
		return nil
	})
	return w.state.Current, err
}

// SwitchSheet makes sheet i active.
func (w *Workbook) SwitchSheet(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.state.Sheets) {
		return fmt.Errorf("%w: sheet %d (workbook has %d sheets)", ErrOutOfBounds, i, len(w.state.Sheets))
	}
	w.state.Current = i
	w.fixSelection()
	w.recompute()
	return nil
}

// DeleteSheet removes sheet i. The active index moves to max(0, active-1).
// The only remaining sheet cannot be deleted.
func (w *Workbook) DeleteSheet(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deleteSheet(i)
}

func (w *Workbook) deleteSheet(i int) error {
	if i < 0 || i >= len(w.state.Sheets) {
		return fmt.Errorf("%w: sheet %d (workbook has %d sheets)", ErrOutOfBounds, i, len(w.state.Sheets))
	}
	if len(w.state.Sheets) == 1 {
		w.log.Warn("operation rejected", zap.String("action", "delete sheet"), zap.Error(ErrLastSheet))
		return ErrLastSheet
	}
	return w.mutate("delete sheet", func(*models.Sheet) error {
		w.state.Sheets = append(w.state.Sheets[:i], w.state.Sheets[i+1:]...)
		w.state.Current = max(0, w.state.Current-1)
		return nil
	})
}

// DeleteCurrentSheet removes the active sheet.
func (w *Workbook) DeleteCurrentSheet() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deleteSheet(w.state.Current)
}

// CloseCurrentSheet closes the active sheet's tab. It is DeleteCurrentSheet.
func (w *Workbook) CloseCurrentSheet() error {
	return w.DeleteCurrentSheet()
}

// InsertRow inserts an empty row before at in the active sheet.
func (w *Workbook) InsertRow(at int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("insert row", func(s *models.Sheet) error {
		return grid.InsertRow(s, at)
	})
}

// DeleteRow removes row at from the active sheet.
func (w *Workbook) DeleteRow(at int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("delete row", func(s *models.Sheet) error {
		return grid.DeleteRow(s, at)
	})
}

// InsertColumn inserts an empty column before at in the active sheet.
func (w *Workbook) InsertColumn(at int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("insert column", func(s *models.Sheet) error {
		return grid.InsertColumn(s, at)
	})
}

// DeleteColumn removes column at from the active sheet.
func (w *Workbook) DeleteColumn(at int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("delete column", func(s *models.Sheet) error {
		return grid.DeleteColumn(s, at)
	})
}

// Select marks a cell of the active sheet as selected.
func (w *Workbook) Select(row, col int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := grid.Get(w.active(), row, col); err != nil {
		return err
	}
	w.selected = &models.CellRef{Row: row, Col: col}
	return nil
}

// Selected returns the selected cell. ok is false when nothing is selected.
func (w *Workbook) Selected() (ref models.CellRef, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return models.CellRef{}, false
	}
	return *w.selected, true
}

// ClearSelection drops the selection.
func (w *Workbook) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = nil
}

func (w *Workbook) selection() (models.CellRef, error) {
	if w.selected == nil {
		return models.CellRef{}, ErrNoSelection
	}
	return *w.selected, nil
}

func (w *Workbook) copySelected() (models.ClipboardEntry, error) {
	ref, err := w.selection()
	if err != nil {
		return models.ClipboardEntry{}, err
	}
	s := w.active()
	entry := models.ClipboardEntry{
		Value: s.Data[ref.Row][ref.Col],
		Style: s.Styles[ref.Key()],
	}
	w.clipboard = &entry
	return entry, nil
}

// Copy places the selected cell's value and style on the clipboard.
func (w *Workbook) Copy() (models.ClipboardEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copySelected()
}

// Cut copies the selected cell and clears its value. The style stays.
func (w *Workbook) Cut() (models.ClipboardEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, err := w.copySelected()
	if err != nil {
		return entry, err
	}
	ref := *w.selected
	return entry, w.mutate("cut", func(s *models.Sheet) error {
		return grid.Set(s, ref.Row, ref.Col, "")
	})
}

// Paste writes the clipboard's value and style into the selected cell. The
// clipboard keeps its content.
func (w *Workbook) Paste() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ref, err := w.selection()
	if err != nil {
		return err
	}
	if w.clipboard == nil {
		return ErrEmptyClipboard
	}
	entry := *w.clipboard
	return w.mutate("paste", func(s *models.Sheet) error {
		if err := grid.Set(s, ref.Row, ref.Col, entry.Value); err != nil {
			return err
		}
		return grid.SetStyle(s, ref.Row, ref.Col, entry.Style)
	})
}

// Clipboard returns the clipboard content. ok is false when it is empty.
func (w *Workbook) Clipboard() (entry models.ClipboardEntry, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clipboard == nil {
		return models.ClipboardEntry{}, false
	}
	return *w.clipboard, true
}

// ToggleStyle switches a text style of the selected cell on or off.
func (w *Workbook) ToggleStyle(t TextStyle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ref, err := w.selection()
	if err != nil {
		return err
	}
	return w.mutate("toggle "+t.String(), func(s *models.Sheet) error {
		style, err := toggleTextStyle(s.Styles[ref.Key()], t)
		if err != nil {
			return err
		}
		return grid.SetStyle(s, ref.Row, ref.Col, style)
	})
}

// ApplyFormat sets font and color properties of the selected cell.
func (w *Workbook) ApplyFormat(f CellFormat) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ref, err := w.selection()
	if err != nil {
		return err
	}
	return w.mutate("format", func(s *models.Sheet) error {
		return grid.SetStyle(s, ref.Row, ref.Col, applyCellFormat(s.Styles[ref.Key()], f))
	})
}

// InsertFunction wraps the selected cell's value in a call to name, turning
// "A1:A3" into "=SUM(A1:A3)".
func (w *Workbook) InsertFunction(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !formula.IsFunction(name) {
		return fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	ref, err := w.selection()
	if err != nil {
		return err
	}
	return w.mutate("insert function", func(s *models.Sheet) error {
		return grid.Set(s, ref.Row, ref.Col, fmt.Sprintf("=%s(%s)", name, s.Data[ref.Row][ref.Col]))
	})
}

// Chart reads a chart of the given type over r of the active sheet without
// recording it. The first row of r gives the labels and each further row one
// series.
func (w *Workbook) Chart(chartType string, r models.Range) (models.Chart, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return grid.BuildChart(w.active(), chartType, r)
}

// InsertChart records a chart of the given type over r in the active sheet.
// Recorded charts follow row and column edits and are written with xlsx
// exports.
func (w *Workbook) InsertChart(chartType string, r models.Range) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("insert chart", func(s *models.Sheet) error {
		return grid.AddChart(s, chartType, r)
	})
}

// Charts returns the active sheet's recorded charts read against its
// current data. Charts whose range no longer holds a series are skipped.
func (w *Workbook) Charts() []models.Chart {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.charts()
}

func (w *Workbook) charts() []models.Chart {
	s := w.active()
	var charts []models.Chart
	for _, c := range s.Charts {
		built, err := grid.BuildChart(s, c.ChartType, c.Range)
		if err != nil {
			w.log.Debug("chart skipped", zap.String("range", c.Range.String()), zap.Error(err))
			continue
		}
		charts = append(charts, built)
	}
	return charts
}

// SortColumn sorts the active sheet's rows by col.
func (w *Workbook) SortColumn(col int, descending bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("sort", func(s *models.Sheet) error {
		return grid.SortByColumn(s, col, descending)
	})
}

// SetFilter filters the active sheet's rows by a case-insensitive substring
// of col. An empty value removes the filter.
func (w *Workbook) SetFilter(col int, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("filter", func(s *models.Sheet) error {
		return grid.SetFilter(s, col, value)
	})
}

// ClearFilters removes every filter of the active sheet.
func (w *Workbook) ClearFilters() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate("clear filters", func(s *models.Sheet) error {
		s.Filters = make(map[int]string)
		return nil
	})
}

// VisibleRows returns the indexes of the active sheet's rows passing its
// filters.
func (w *Workbook) VisibleRows() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return grid.VisibleRows(w.active())
}

// Undo restores the state before the last action. ok is false when there is
// nothing to undo.
func (w *Workbook) Undo() (ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok, err := w.history.Undo(w.state)
	if !ok || err != nil {
		return ok, err
	}
	w.state = prev
	w.pending = nil
	w.fixSelection()
	w.recompute()
	w.log.Debug("undo", zap.Int("undo", w.history.UndoLen()), zap.Int("redo", w.history.RedoLen()))
	return true, nil
}

// Redo reapplies the last undone action. ok is false when there is nothing
// to redo.
func (w *Workbook) Redo() (ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, ok, err := w.history.Redo(w.state)
	if !ok || err != nil {
		return ok, err
	}
	w.state = next
	w.pending = nil
	w.fixSelection()
	w.recompute()
	w.log.Debug("redo", zap.Int("undo", w.history.UndoLen()), zap.Int("redo", w.history.RedoLen()))
	return true, nil
}

// CanUndo reports whether Undo would change the workbook.
func (w *Workbook) CanUndo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.CanUndo()
}

// CanRedo reports whether Redo would change the workbook.
func (w *Workbook) CanRedo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.CanRedo()
}

// Import replaces the active sheet's data with the content of a file. The
// format follows the file extension. Per-cell and layout metadata of the
// sheet is cleared. On failure the workbook is unchanged and the error is an
// *ImportError.
func (w *Workbook) Import(filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, format, err := transfer.Decode(filename, data)
	if err != nil {
		w.log.Error("import failed", zap.String("file", filename), zap.Error(err))
		return NewImportError(filename, format, err)
	}
	if err := w.mutate("import", func(s *models.Sheet) error {
		grid.Replace(s, rows)
		s.ClearMetadata()
		return nil
	}); err != nil {
		return NewImportError(filename, format, err)
	}
	w.log.Info("imported", zap.String("file", filename), zap.String("format", string(format)),
		zap.Int("rows", len(rows)))
	return nil
}

// ExportDelimited returns the active sheet's raw values as delimited text.
func (w *Workbook) ExportDelimited() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return transfer.FormatDelimited(w.active().Data)
}

// Export writes the active sheet's raw values to out in the given format.
// xlsx output also carries the sheet's charts.
func (w *Workbook) Export(out io.Writer, format transfer.Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := w.active().Data
	switch format {
	case transfer.FormatCSV:
		_, err := io.WriteString(out, transfer.FormatDelimited(data))
		return err
	case transfer.FormatJSON:
		b, err := output.ValuesToJSON(data, false)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, bytes.NewReader(b))
		return err
	case transfer.FormatXLSX:
		return transfer.WriteXLSX(out, output.SheetName(w.state.Current), data, w.charts()...)
	default:
		return fmt.Errorf("%w: export %q", ErrUnsupportedFormat, format)
	}
}

// Download writes the active sheet as delimited text to the default file
// name inside dir and returns its path.
func (w *Workbook) Download(dir string) (string, error) {
	return w.DownloadFile(dir, transfer.DefaultFilename)
}

// DownloadFile writes the active sheet as delimited text to name inside dir
// and returns its path. An empty name means the default file name.
func (w *Workbook) DownloadFile(dir, name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name == "" {
		name = transfer.DefaultFilename
	}
	path, err := transfer.SaveDelimited(filepath.Join(dir, name), w.active().Data)
	if err != nil {
		w.log.Error("download failed", zap.String("dir", dir), zap.String("file", name), zap.Error(err))
		return "", err
	}
	w.log.Info("downloaded", zap.String("path", path))
	return path, nil
}

// Save stores the workbook's sheets in store.
func (w *Workbook) Save(ctx context.Context, store storage.Store) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := storage.SaveWorkbook(ctx, store, &w.state); err != nil {
		w.log.Error("save failed", zap.Error(err))
		return err
	}
	w.log.Info("saved", zap.Int("sheets", len(w.state.Sheets)))
	return nil
}

// Load replaces the workbook with the one saved in store, starting at the
// first sheet with empty history, selection and clipboard. ok is false, and
// nothing changes, when nothing has been saved.
func (w *Workbook) Load(ctx context.Context, store storage.Store) (ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wb, ok, err := storage.LoadWorkbook(ctx, store)
	if err != nil {
		w.log.Error("load failed", zap.Error(err))
		return false, err
	}
	if !ok {
		return false, nil
	}
	w.state = wb
	w.history.Reset()
	w.pending = nil
	w.selected = nil
	w.clipboard = nil
	w.recompute()
	w.log.Info("loaded", zap.Int("sheets", len(wb.Sheets)))
	return true, nil
}
