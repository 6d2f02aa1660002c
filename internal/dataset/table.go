// Package dataset reads catalog tables and prepares them for annotation:
// header discovery through configurable aliases, sales filtering and the
// optional join with an auxiliary table.
package dataset

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyDataset is returned when a table has no header or no rows
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrUnsupportedFormat is returned for file types that cannot be read
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Table is an in-memory rectangular view of a sheet. Rows may be shorter
// than Headers; missing cells read as "".
type Table struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the header equal to name, or -1
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the raw cell at row, col
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns all values of column col
func (t *Table) Column(col int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, col)
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// WithColumns returns a new table with extra columns appended. values is
// indexed by row then by new column.
func (t *Table) WithColumns(headers []string, values [][]string) *Table {
	out := &Table{
		Name:    t.Name,
		Headers: make([]string, 0, len(t.Headers)+len(headers)),
		Rows:    make([][]string, len(t.Rows)),
	}
	out.Headers = append(out.Headers, t.Headers...)
	out.Headers = append(out.Headers, headers...)

	width := len(t.Headers)
	for i := range t.Rows {
		row := make([]string, width, width+len(headers))
		copy(row, t.Rows[i])
		if i < len(values) {
			row = append(row, values[i]...)
		}
		for len(row) < len(out.Headers) {
			row = append(row, "")
		}
		out.Rows[i] = row
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{
		Name:    t.Name,
		Headers: append([]string(nil), t.Headers...),
	}
	for i, r := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, append([]string(nil), r...))
		}
	}
	return out
}

// normalizeHeaders trims header cells and drops trailing blank columns
func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// isBlankRow reports whether every cell is empty
func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DropColumns returns a copy of the table without the named headers
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	keep := make([]int, 0, len(t.Headers))
	for i, h := range t.Headers {
		if !drop[h] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Headers) {
		return t.Clone()
	}

	out := &Table{
		Name:    t.Name,
		Headers: make([]string, len(keep)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for j, i := range keep {
		out.Headers[j] = t.Headers[i]
	}
	for r := range t.Rows {
		row := make([]string, len(keep))
		for j, i := range keep {
			row[j] = t.Value(r, i)
		}
		out.Rows[r] = row
	}
	return out
}
