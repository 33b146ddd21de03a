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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTalkTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable(ColumnSession, ColumnSchedule, ColumnUtility, ColumnKeywords)
	require.NoError(t, table.AppendRow(int64(2), "Mon 10:30", 3.0, []string{"scheduling"}))
	require.NoError(t, table.AppendRow(int64(1), "Mon 08:30", 5, nil))
	require.NoError(t, table.AppendRow(int64(3), "Mon 08:30", 4.5, []string{"routing", "graphs"}))
	return table
}

func TestNewTable_PanicsOnDuplicateColumn(t *testing.T) {
	assert.Panics(t, func() { NewTable(ColumnSession, ColumnSession) })
}

func TestTable_AppendRowLength(t *testing.T) {
	table := NewTable(ColumnSession, ColumnSchedule)
	assert.Error(t, table.AppendRow(int64(1)))
	assert.Equal(t, 0, table.Len())
}

func TestTable_TypedAccessors(t *testing.T) {
	table := newTalkTable(t)

	id, err := table.Int(0, ColumnSession)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	schedule, err := table.String(1, ColumnSchedule)
	require.NoError(t, err)
	assert.Equal(t, "Mon 08:30", schedule)

	// integer utilities are widened
	utility, err := table.Float(1, ColumnUtility)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, utility, 1e-12)

	keywords, err := table.Strings(1, ColumnKeywords)
	require.NoError(t, err)
	assert.Empty(t, keywords)

	_, err = table.String(0, ColumnSession)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = table.Float(0, "Missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = table.Time(0, ColumnSchedule)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = table.Value(9, ColumnSession)
	assert.Error(t, err)
}

func TestTable_MissingColumns(t *testing.T) {
	table := newTalkTable(t)
	assert.Equal(t, []string{ColumnStream, ColumnTrackCode},
		table.MissingColumns(ColumnSession, ColumnStream, ColumnTrackCode))
	assert.Empty(t, table.MissingColumns(ColumnSession))
}

func TestTable_FilterAndSortLeaveReceiverUntouched(t *testing.T) {
	table := newTalkTable(t)

	filtered := table.Filter(func(row int) bool {
		s, _ := table.String(row, ColumnSchedule)
		return s == "Mon 08:30"
	})
	assert.Equal(t, 2, filtered.Len())
	assert.Equal(t, 3, table.Len())

	sorted := table.SortStable(func(a, b int) bool {
		x, _ := table.Int(a, ColumnSession)
		y, _ := table.Int(b, ColumnSession)
		return x < y
	})
	for i, want := range []int64{1, 2, 3} {
		got, err := sorted.Int(i, ColumnSession)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	first, _ := table.Int(0, ColumnSession)
	assert.Equal(t, int64(2), first)
}

func TestTable_WithColumn(t *testing.T) {
	table := newTalkTable(t)

	start := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)
	withTime, err := table.WithColumn(ColumnStartTimestamp, []any{start, start, start})
	require.NoError(t, err)
	assert.True(t, withTime.HasColumn(ColumnStartTimestamp))
	assert.False(t, table.HasColumn(ColumnStartTimestamp))

	got, err := withTime.Time(2, ColumnStartTimestamp)
	require.NoError(t, err)
	assert.Equal(t, start, got)

	replaced, err := table.WithColumn(ColumnUtility, []any{1.0, 1.0, 1.0})
	require.NoError(t, err)
	assert.Equal(t, table.Columns(), replaced.Columns())
	u, _ := replaced.Float(1, ColumnUtility)
	assert.InDelta(t, 1.0, u, 1e-12)
	u, _ = table.Float(1, ColumnUtility)
	assert.InDelta(t, 5.0, u, 1e-12)

	_, err = table.WithColumn(ColumnUtility, []any{1.0})
	assert.Error(t, err)
}

func TestSessionID_RoundTrip(t *testing.T) {
	id, err := ParseSessionID("4711")
	require.NoError(t, err)
	assert.Equal(t, SessionID(4711), id)
	assert.Equal(t, "4711", id.String())

	_, err = ParseSessionID(" 12")
	assert.Error(t, err)
}

func TestTotalUtility(t *testing.T) {
	assert.InDelta(t, 9.0, TotalUtility([]Session{{Utility: 5}, {Utility: 4}}), 1e-12)
	assert.Zero(t, TotalUtility(nil))
}
