// Package schema declares every table stored in the document: its sheet
// name and its ordered column list. It is the single source of truth for
// column positions when a table is created.
package schema

import (
	"fmt"
	"sync"
)

// Table describes one sheet of the document.
type Table struct {
	Name    string   // Sheet name as it appears in the document
	Columns []string // Header row, in order
}

var (
	registry   = make(map[string]Table)
	order      []string
	registryMu sync.RWMutex
)

// Register adds a table to the registry.
// Panics if a table with the same name is already registered or the table
// declares no columns.
func Register(t Table) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[t.Name]; exists {
		panic(fmt.Sprintf("table already registered: %s", t.Name))
	}
	if len(t.Columns) == 0 {
		panic(fmt.Sprintf("table has no columns: %s", t.Name))
	}

	t.Columns = append([]string(nil), t.Columns...)
	registry[t.Name] = t
	order = append(order, t.Name)
}

// Get returns a table by sheet name.
// Returns false if not found.
func Get(name string) (Table, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[name]
	return t, ok
}

// Names returns every registered sheet name in declaration order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]string(nil), order...)
}

// HeaderFor returns a copy of the declared header row of a table.
// Panics for an unregistered table.
func HeaderFor(name string) []string {
	t, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("unknown table: %s", name))
	}
	return append([]string(nil), t.Columns...)
}

// UnknownColumnError reports a column that the table does not declare.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q is not declared for table %q", e.Column, e.Table)
}

// ColumnIndex returns the declared position of a column.
func ColumnIndex(table, column string) (int, error) {
	t, ok := Get(table)
	if !ok {
		return -1, &UnknownColumnError{Table: table, Column: column}
	}
	for i, c := range t.Columns {
		if c == column {
			return i, nil
		}
	}
	return -1, &UnknownColumnError{Table: table, Column: column}
}

// MustColumnIndex is ColumnIndex for callers where an unknown column can
// only be a programming error.
func MustColumnIndex(table, column string) int {
	i, err := ColumnIndex(table, column)
	if err != nil {
		panic(err)
	}
	return i
}

// reset restores the registry to its declared state. Test helper.
func reset() {
	registryMu.Lock()
	registry = make(map[string]Table)
	order = nil
	registryMu.Unlock()
	registerAll()
}
