// Package table is the column/row shape handed to the report sink.
package table

import (
	"fmt"
)

// Original person columns, the only ones kept under column projection.
const (
	ColID   = "ID"
	ColName = "Name"
	ColAge  = "Age"
)

// OriginalColumns lists the source person columns in sheet order.
var OriginalColumns = []string{ColID, ColName, ColAge}

// Table is an immutable named-column table. Cells hold strings, ints,
// floats, bools, time.Time or nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row; it must have one cell per column.
func (t *Table) Append(cells ...any) {
	if len(cells) != len(t.Columns) {
		panic(fmt.Sprintf("table: row has %d cells, want %d", len(cells), len(t.Columns)))
	}
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Project returns a new table holding only columns, in the given order.
func (t *Table) Project(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}

	out := New(columns...)
	out.Rows = make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]any, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.Rows[r] = cells
	}
	return out, nil
}
