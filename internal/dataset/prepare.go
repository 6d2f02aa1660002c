package dataset

import (
	"fmt"
	"strings"

	"skucheck/internal/numeric"
)

// AuxSuffix is appended to auxiliary headers that collide with primary ones
const AuxSuffix = "_aux"

// FilterPositiveSales keeps the rows whose sales volume parses to a value
// greater than zero. A table without the sales column is returned as a copy.
func FilterPositiveSales(t *Table, salesColumn string) *Table {
	if salesColumn == "" {
		return t.Clone()
	}
	col := t.Index(salesColumn)
	if col < 0 {
		return t.Clone()
	}
	return t.Filter(func(row int) bool {
		v, ok := numeric.ParseAmount(t.Value(row, col))
		return ok && v > 0
	})
}

// JoinOptions configures LeftJoin
type JoinOptions struct {
	// PrimaryKey and AuxKey are the header names of the join columns
	PrimaryKey string
	AuxKey     string
	// Columns restricts the auxiliary columns appended; empty means all
	// auxiliary columns except the key.
	Columns []string
}

// JoinStats describes the outcome of a join
type JoinStats struct {
	Matched       int `json:"matched"`
	Unmatched     int `json:"unmatched"`
	DuplicateKeys int `json:"duplicate_keys"`
}

// LeftJoin appends auxiliary columns to every primary row whose trimmed key
// matches. The first auxiliary row wins for duplicated keys; unmatched rows
// get empty cells.
func LeftJoin(primary, aux *Table, opts JoinOptions) (*Table, JoinStats, error) {
	var stats JoinStats

	pk := primary.Index(opts.PrimaryKey)
	if pk < 0 {
		return nil, stats, fmt.Errorf("join key %q not found in primary table", opts.PrimaryKey)
	}
	ak := aux.Index(opts.AuxKey)
	if ak < 0 {
		return nil, stats, fmt.Errorf("join key %q not found in auxiliary table", opts.AuxKey)
	}

	selected, err := selectAuxColumns(aux, ak, opts.Columns)
	if err != nil {
		return nil, stats, err
	}

	index := make(map[string]int, aux.Len())
	for i := range aux.Rows {
		key := strings.TrimSpace(aux.Value(i, ak))
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			stats.DuplicateKeys++
			continue
		}
		index[key] = i
	}

	existing := make(map[string]bool, len(primary.Headers))
	for _, h := range primary.Headers {
		existing[h] = true
	}
	headers := make([]string, len(selected))
	for i, col := range selected {
		name := aux.Headers[col]
		for existing[name] {
			name += AuxSuffix
		}
		existing[name] = true
		headers[i] = name
	}

	values := make([][]string, primary.Len())
	for i := range primary.Rows {
		row := make([]string, len(selected))
		if ai, ok := index[strings.TrimSpace(primary.Value(i, pk))]; ok {
			for j, col := range selected {
				row[j] = aux.Value(ai, col)
			}
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		values[i] = row
	}

	return primary.WithColumns(headers, values), stats, nil
}

func selectAuxColumns(aux *Table, keyCol int, names []string) ([]int, error) {
	if len(names) == 0 {
		cols := make([]int, 0, len(aux.Headers))
		for i := range aux.Headers {
			if i != keyCol {
				cols = append(cols, i)
			}
		}
		return cols, nil
	}

	cols := make([]int, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		i := aux.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("auxiliary column %q not found", name)
		}
		cols = append(cols, i)
	}
	return cols, nil
}
