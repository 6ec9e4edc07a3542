package core

// table.go is the table accessor: it maps a registry table onto a sheet of
// the workbook.
//
// Row 0 of every table sheet is the header; data rows start at 1. Column
// positions are always resolved through the sheet's own header row, so a
// sheet whose columns were reordered by hand still reads and writes
// correctly. Extra columns are preserved.

import (
	"strings"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/schema"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// EnsureTable returns the grid of the named table. A missing or empty sheet
// is replaced by a header-only grid built from the registry and registered
// in the workbook; created reports whether that happened. An existing
// header is never corrected.
func EnsureTable(wb *workbook.Workbook, name string) (grid workbook.Grid, created bool) {
	if g, ok := wb.Sheet(name); ok && len(g) > 0 {
		return g, false
	}
	g := workbook.Grid{schema.HeaderFor(name)}
	wb.SetSheet(name, g)
	return g, true
}

// IndexOf maps the column names of a header row to their positions.
// Names are trimmed and lowercased; the first occurrence wins.
func IndexOf(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// WriteBack stores grid as the content of the named sheet, keeping the
// sheet's position in the workbook.
func WriteBack(wb *workbook.Workbook, name string, grid workbook.Grid) {
	wb.SetSheet(name, grid)
}

// table is a working view of one registry table inside a workbook.
type table struct {
	name    string
	grid    workbook.Grid
	idx     HeaderIndex
	created bool
}

// openTable ensures the table exists and checks that its header carries
// every registry column.
func openTable(wb *workbook.Workbook, name string) (*table, error) {
	grid, created := EnsureTable(wb, name)
	t := &table{
		name:    name,
		grid:    grid,
		idx:     IndexOf(grid[0]),
		created: created,
	}
	for _, col := range schema.HeaderFor(name) {
		if _, ok := t.idx[col]; !ok {
			return nil, apperr.Format("sheet %q: missing column %q", name, col)
		}
	}
	return t, nil
}

// col returns the position of a registry column. Every registry column is
// present after openTable, so a miss is a programming error.
func (t *table) col(name string) int {
	pos, ok := t.idx[name]
	if !ok {
		panic(&schema.UnknownColumnError{Table: t.name, Column: name})
	}
	return pos
}

// rows returns the number of physical rows including the header.
func (t *table) rows() int {
	return len(t.grid)
}

// get returns the raw cell at (row, column).
func (t *table) get(row int, column string) string {
	return t.grid.Cell(row, t.col(column))
}

// getTrim returns the cell at (row, column) with surrounding spaces removed.
func (t *table) getTrim(row int, column string) string {
	return strings.TrimSpace(t.get(row, column))
}

// set writes a cell, padding a short row as needed.
func (t *table) set(row int, column, value string) {
	pos := t.col(column)
	for len(t.grid[row]) <= pos {
		t.grid[row] = append(t.grid[row], "")
	}
	t.grid[row][pos] = value
}

// appendRow adds a data row sized to the header and returns its index.
// Columns not named in values are left empty.
func (t *table) appendRow(values map[string]string) int {
	row := make([]string, len(t.grid[0]))
	for column, v := range values {
		row[t.col(column)] = v
	}
	t.grid = append(t.grid, row)
	return len(t.grid) - 1
}

// findRow returns the first data row whose column equals value after
// trimming, or 0 when there is none.
func (t *table) findRow(column, value string) int {
	value = strings.TrimSpace(value)
	for r := 1; r < t.rows(); r++ {
		if t.getTrim(r, column) == value {
			return r
		}
	}
	return 0
}

// commit writes the table back into the workbook.
func (t *table) commit(wb *workbook.Workbook) {
	WriteBack(wb, t.name, t.grid)
}
