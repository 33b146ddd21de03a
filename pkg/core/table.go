/*
Copyright 2025 The Session Planner Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package core

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrColumnNotFound is returned when a lookup names an absent column.
	ErrColumnNotFound = errors.New("column not found")
	// ErrTypeMismatch is returned when a cell does not hold the requested type.
	ErrTypeMismatch = errors.New("cell type mismatch")

	errRowLength = errors.New("row length does not match column count")
	errRowIndex  = errors.New("row index out of range")
)

// Table is a column-oriented view over talk-level programme records.
// Cells hold already normalized values: int64 for ids, string for labels,
// float64 for scores, []string for list columns and time.Time for timestamps.
//
// A Table is not safe for concurrent mutation. Operations other than AppendRow
// return new tables and leave the receiver untouched.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// NewTable creates an empty table with the given ordered columns.
// It panics if a column name is repeated.
func NewTable(columns ...string) *Table {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(t.columns, columns)
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("core: duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the required columns absent from the table, in the
// order they were requested.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AppendRow adds a row whose values follow the column order.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d values for %d columns", errRowLength, len(values), len(t.columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// Value returns the raw cell value.
func (t *Table) Value(row int, column string) (any, error) {
	col, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d", errRowIndex, row)
	}
	return t.rows[row][col], nil
}

// String returns a string cell.
func (t *Table) String(row int, column string) (string, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(column, row, "string", v)
	}
	return s, nil
}

// Int returns an integer cell. Any Go integer kind is accepted.
func (t *Table) Int(row int, column string) (int64, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case SessionID:
		return int64(n), nil
	default:
		return 0, mismatch(column, row, "integer", v)
	}
}

// Float returns a real cell. Integer cells are widened.
func (t *Table) Float(row int, column string) (float64, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, mismatch(column, row, "number", v)
	}
}

// Strings returns a list cell. A nil cell is an empty list.
func (t *Table) Strings(row int, column string) ([]string, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return nil, err
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case nil:
		return nil, nil
	default:
		return nil, mismatch(column, row, "list", v)
	}
}

// Time returns a timestamp cell.
func (t *Table) Time(row int, column string) (time.Time, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return time.Time{}, err
	}
	ts, ok := v.(time.Time)
	if !ok {
		return time.Time{}, mismatch(column, row, "timestamp", v)
	}
	return ts, nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := t.empty()
	for i, r := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// SortStable returns a new table with rows stably ordered by less.
func (t *Table) SortStable(less func(a, b int) bool) *Table {
	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })

	out := t.empty()
	out.rows = make([][]any, len(order))
	for i, src := range order {
		out.rows[i] = t.rows[src]
	}
	return out
}

// WithColumn returns a new table with the named column set to values,
// replacing the column if it already exists.
func (t *Table) WithColumn(name string, values []any) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("%w: got %d values for %d rows", errRowLength, len(values), len(t.rows))
	}

	columns := t.Columns()
	col, exists := t.index[name]
	if !exists {
		columns = append(columns, name)
		col = len(columns) - 1
	}

	out := NewTable(columns...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(columns))
		copy(row, r)
		row[col] = values[i]
		out.rows[i] = row
	}
	return out, nil
}

// Clone returns a copy of the table that can be appended to independently.
func (t *Table) Clone() *Table {
	out := t.empty()
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(r))
		copy(row, r)
		out.rows[i] = row
	}
	return out
}

func (t *Table) empty() *Table {
	return NewTable(t.columns...)
}

func mismatch(column string, row int, want string, got any) error {
	return fmt.Errorf("%w: column %q row %d: want %s, got %T", ErrTypeMismatch, column, row, want, got)
}
