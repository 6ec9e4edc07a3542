// Package workbook is the in-memory form of the spreadsheet document and the
// codec that converts it to and from xlsx bytes.
//
// A Workbook is an ordered set of named sheets. Each sheet is a Grid: rows of
// string cells. Rows may be shorter than the header; missing cells read as
// empty strings.
package workbook

// Grid is the content of one sheet. Row 0 is the header row for table sheets.
type Grid [][]string

// Cell returns the value at (row, col), or "" when the position is outside
// the grid or the row is short.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Workbook is an ordered collection of named sheets.
type Workbook struct {
	order  []string
	sheets map[string]Grid
}

// New returns an empty workbook.
func New() *Workbook {
	return &Workbook{sheets: make(map[string]Grid)}
}

// SheetNames returns the sheet names in document order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.order...)
}

// Sheet returns the grid stored under name.
func (w *Workbook) Sheet(name string) (Grid, bool) {
	g, ok := w.sheets[name]
	return g, ok
}

// SetSheet replaces the content of a sheet, appending its name to the
// document order when it is new.
func (w *Workbook) SetSheet(name string, g Grid) {
	if w.sheets == nil {
		w.sheets = make(map[string]Grid)
	}
	if _, ok := w.sheets[name]; !ok {
		w.order = append(w.order, name)
	}
	w.sheets[name] = g
}
