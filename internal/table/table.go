// Package table provides the in-memory tabular model shared by the dataset
// loader and the analysis layer. A Table is a rectangular collection of named
// string columns; numeric interpretation happens at the point of use.
//
// Tables are treated as immutable once a load completes: the loader builds a
// fresh set of tables on every reload and swaps them in wholesale, so readers
// never need to copy or lock.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Unset marks a cell whose source table did not carry the column.
// Concat fills missing optional columns with Unset rather than dropping rows.
const Unset = ""

// Table is a named rectangular dataset. Key is the logical identifier the
// table was loaded under (e.g. a school name), independent of the on-disk
// filename it came from.
type Table struct {
	Key     string
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given logical key and column set.
func New(key string, columns []string) *Table {
	return &Table{
		Key:     key,
		Columns: append([]string(nil), columns...),
	}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
// Matching is exact; callers normalize headers at load time.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a data row. Short rows are padded with Unset and long rows
// truncated so the table stays rectangular.
func (t *Table) AppendRow(row []string) {
	r := make([]string, len(t.Columns))
	for i := range r {
		if i < len(row) {
			r[i] = row[i]
		} else {
			r[i] = Unset
		}
	}
	t.Rows = append(t.Rows, r)
}

// Strings returns the values of the named column in row order.
func (t *Table) Strings(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("table %s: no column %q", t.Key, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Floats returns the numeric values of the named column. Cells that are Unset
// or not parseable as a number are skipped; the second return value is the
// number of skipped cells.
func (t *Table) Floats(name string) ([]float64, int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, 0, fmt.Errorf("table %s: no column %q", t.Key, name)
	}
	out := make([]float64, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[idx])
		if v == Unset {
			skipped++
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, f)
	}
	return out, skipped, nil
}

// WithColumn returns a copy of the table extended by one column whose value
// is constant across all rows. The receiver is not modified.
func (t *Table) WithColumn(name, value string) *Table {
	out := New(t.Key, append(t.Columns, name))
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, row...)
		r = append(r, value)
		out.Rows[i] = r
	}
	return out
}

// Concat combines tables into one keyed by key. The combined column set is
// the union of all input columns in first-seen order. Every input row appears
// exactly once; a row from a table lacking a column present elsewhere carries
// Unset for that column.
func Concat(key string, tables ...*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := New(key, columns)
	for _, t := range tables {
		// Map source column positions to combined positions once per table.
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = out.ColumnIndex(c)
		}
		for _, row := range t.Rows {
			r := make([]string, len(columns))
			for i := range r {
				r[i] = Unset
			}
			for i, v := range row {
				r[pos[i]] = v
			}
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
