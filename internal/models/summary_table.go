package models

import (
	"fmt"
	"sort"
	"time"
)

// SummaryTable is a table of summary results indexed by timestamp with one
// column per summary type. Columns are outer-joined: a timestamp present in
// one column and absent from another has a nil cell in the latter.
type SummaryTable struct {
	index   []time.Time
	columns []string
	cells   map[string][]any
}

func NewSummaryTable() *SummaryTable {
	return &SummaryTable{cells: make(map[string][]any)}
}

// Join outer-joins a column into the table. The index stays sorted
// ascending; when a timestamp repeats within the column the last value wins.
func (t *SummaryTable) Join(column string, timestamps []time.Time, values []any) error {
	if len(timestamps) != len(values) {
		return fmt.Errorf("%w: column %s has %d timestamps, %d values", ErrLengthMismatch, column, len(timestamps), len(values))
	}
	if _, exists := t.cells[column]; exists {
		return fmt.Errorf("duplicate column %s", column)
	}

	incoming := make(map[int64]any, len(timestamps))
	for i, ts := range timestamps {
		incoming[ts.UnixNano()] = values[i]
	}

	// merge the new timestamps into the index
	seen := make(map[int64]bool, len(t.index))
	for _, ts := range t.index {
		seen[ts.UnixNano()] = true
	}
	grown := false
	for _, ts := range timestamps {
		if k := ts.UnixNano(); !seen[k] {
			seen[k] = true
			t.index = append(t.index, ts)
			grown = true
		}
	}
	if grown {
		old := make(map[int64]int, len(t.index))
		for i, ts := range t.index {
			old[ts.UnixNano()] = i
		}
		order := make([]time.Time, len(t.index))
		copy(order, t.index)
		sort.SliceStable(order, func(i, j int) bool { return order[i].Before(order[j]) })
		for _, name := range t.columns {
			prev := t.cells[name]
			next := make([]any, len(order))
			for i, ts := range order {
				if j, ok := old[ts.UnixNano()]; ok && j < len(prev) {
					next[i] = prev[j]
				}
			}
			t.cells[name] = next
		}
		t.index = order
	}

	col := make([]any, len(t.index))
	for i, ts := range t.index {
		col[i] = incoming[ts.UnixNano()]
	}
	t.columns = append(t.columns, column)
	t.cells[column] = col
	return nil
}

func (t *SummaryTable) Len() int { return len(t.index) }

// Columns returns the column names in join order.
func (t *SummaryTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *SummaryTable) Index() []time.Time {
	out := make([]time.Time, len(t.index))
	copy(out, t.index)
	return out
}

// Column returns a copy of the named column aligned with Index.
func (t *SummaryTable) Column(name string) ([]any, bool) {
	col, ok := t.cells[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(col))
	copy(out, col)
	return out, true
}

// Row returns the cells at position i keyed by column name. Missing cells
// are omitted.
func (t *SummaryTable) Row(i int) (time.Time, map[string]any) {
	row := make(map[string]any, len(t.columns))
	for _, name := range t.columns {
		if v := t.cells[name][i]; v != nil {
			row[name] = v
		}
	}
	return t.index[i], row
}
