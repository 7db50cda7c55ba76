package view

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Edit         key.Binding
	Cancel       key.Binding
	Copy         key.Binding
	Cut          key.Binding
	Paste        key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Bold         key.Binding
	Italic       key.Binding
	Underline    key.Binding
	NewSheet     key.Binding
	DeleteSheet  key.Binding
	PrevSheet    key.Binding
	NextSheet    key.Binding
	InsertRow    key.Binding
	InsertCol    key.Binding
	DeleteRow    key.Binding
	DeleteCol    key.Binding
	SortAsc      key.Binding
	SortDesc     key.Binding
	Filter       key.Binding
	ClearFilters key.Binding
	Function     key.Binding
	Format       key.Binding
	Chart        key.Binding
	ZoomIn       key.Binding
	ZoomOut      key.Binding
	Gridlines    key.Binding
	FormulaBar   key.Binding
	Save         key.Binding
	Export       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Edit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/commit")),
	Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Cut:          key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cut")),
	Paste:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
	Undo:         key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	Redo:         key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
	Bold:         key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "bold")),
	Italic:       key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "italic")),
	Underline:    key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "underline")),
	NewSheet:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new sheet")),
	DeleteSheet:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "close sheet")),
	PrevSheet:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev sheet")),
	NextSheet:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sheet")),
	InsertRow:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "insert row")),
	InsertCol:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "insert column")),
	DeleteRow:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "delete row")),
	DeleteCol:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "delete column")),
	SortAsc:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort asc")),
	SortDesc:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort desc")),
	Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	ClearFilters: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filters")),
	Function:     key.NewBinding(key.WithKeys("="), key.WithHelp("=", "insert function")),
	Format:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "format")),
	Chart:        key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "chart")),
	ZoomIn:       key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "zoom in")),
	ZoomOut:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Gridlines:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gridlines")),
	FormulaBar:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "formula bar")),
	Save:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Copy, k.Paste, k.Undo, k.Redo, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Edit, k.Cancel},
		{k.Copy, k.Cut, k.Paste, k.Undo, k.Redo},
		{k.Bold, k.Italic, k.Underline, k.Format, k.Function},
		{k.SortAsc, k.SortDesc, k.Filter, k.ClearFilters, k.Chart},
		{k.NewSheet, k.DeleteSheet, k.PrevSheet, k.NextSheet},
		{k.InsertRow, k.InsertCol, k.DeleteRow, k.DeleteCol},
		{k.ZoomIn, k.ZoomOut, k.Gridlines, k.FormulaBar},
		{k.Save, k.Export, k.Quit},
	}
}
