package ml

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Table is an in-memory tabular dataset: one header row of column names
// and string-valued cells, looked up by column name. It is the common
// currency between the CSV loader, the preprocessor, and the trainer.
type Table struct {
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// NewTable builds a table from a header and rows. Every row must have
// exactly one cell per column.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	idx := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := idx[col]; dup {
			return nil, fmt.Errorf("duplicate column %q in header", col)
		}
		idx[col] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows, colIndex: idx}, nil
}

// ReadCSVTable loads a delimited file with a single header row.
func ReadCSVTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset must have a header and at least one row")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	return NewTable(header, records[1:])
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Cell returns the value of the named column in the given row.
func (t *Table) Cell(row int, column string) (string, bool) {
	idx, ok := t.colIndex[column]
	if !ok {
		return "", false
	}
	return t.Rows[row][idx], true
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// RequireColumns verifies that every named column exists, returning an
// error that names all missing columns. The trainer treats this as fatal.
func (t *Table) RequireColumns(names []string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dataset missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DropImplausibleRows returns a copy of the table without rows whose value
// in any of the named columns is missing, non-numeric, or non-positive.
// Physically impossible readings must never reach the estimator.
func (t *Table) DropImplausibleRows(positiveColumns []string) *Table {
	kept := make([][]string, 0, len(t.Rows))

rowLoop:
	for _, row := range t.Rows {
		for _, col := range positiveColumns {
			idx, ok := t.colIndex[col]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil || v <= 0 {
				continue rowLoop
			}
		}
		kept = append(kept, row)
	}

	out, _ := NewTable(t.Columns, kept)
	return out
}

// ColumnMean computes the arithmetic mean of the named column over all
// rows where it parses as a number. It returns nil when the column is
// absent or no row has a usable value, so callers never divide by a
// missing baseline.
func (t *Table) ColumnMean(column string) *float64 {
	idx, ok := t.colIndex[column]
	if !ok {
		return nil
	}

	sum := 0.0
	n := 0
	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}

	mean := sum / float64(n)
	return &mean
}

// DistinctValues returns the sorted distinct non-empty values of the named
// column, used to populate form dropdowns. An absent column yields an
// empty slice.
func (t *Table) DistinctValues(column string) []string {
	idx, ok := t.colIndex[column]
	if !ok {
		return []string{}
	}

	seen := make(map[string]bool)
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		seen[v] = true
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// TargetValues extracts the target column as floats. Rows whose target is
// missing or non-numeric are rejected; the trainer validates the target
// before fitting.
func (t *Table) TargetValues(target string) ([]float64, error) {
	idx, ok := t.colIndex[target]
	if !ok {
		return nil, fmt.Errorf("target column %q not found", target)
	}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: target column %q contains non-numeric value %q", i, target, row[idx])
		}
		values[i] = v
	}
	return values, nil
}
