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

package programme

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/pkg/core"
)

var (
	// ErrEmptyProgramme is returned when the export holds no talks.
	ErrEmptyProgramme = errors.New("programme contains no talks")
	// ErrMissingColumns is returned when the export lacks required columns.
	ErrMissingColumns = errors.New("programme export is missing columns")
)

type columnKind int

const (
	kindInt columnKind = iota
	kindString
	kindList
	kindDate
)

// exportColumn maps a column of the programme export to the normalized table.
type exportColumn struct {
	header string
	name   string
	kind   columnKind
}

// exportColumns lists the columns read from the export, in table order.
// Columns of the export that are not listed here are ignored.
var exportColumns = []exportColumn{
	{header: "timeslot", name: core.ColumnTimeslot, kind: kindInt},
	{header: "schedule", name: core.ColumnSchedule, kind: kindString},
	{header: "start_time", name: core.ColumnStartTime, kind: kindString},
	{header: "end_time", name: core.ColumnEndTime, kind: kindString},
	{header: "stream", name: core.ColumnStream, kind: kindInt},
	{header: "stream_name", name: core.ColumnStreamName, kind: kindString},
	{header: "track_code", name: core.ColumnTrackCode, kind: kindString},
	{header: "session", name: core.ColumnSession, kind: kindInt},
	{header: "session_name", name: core.ColumnSessionName, kind: kindString},
	{header: "paper_id", name: core.ColumnPaperID, kind: kindInt},
	{header: "title", name: core.ColumnTitle, kind: kindString},
	{header: "abstract", name: core.ColumnAbstract, kind: kindString},
	{header: "all_keyword_ids", name: core.ColumnAllKeywordIDs, kind: kindList},
	{header: "authors", name: core.ColumnAuthors, kind: kindList},
	{header: "keywords", name: core.ColumnKeywords, kind: kindList},
	{header: "date", name: core.ColumnDate, kind: kindDate},
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
}

// Parse reads a programme export. It keeps the known columns, converts ids
// to int64, list literals to []string and the date to time.Time, adds the
// Start Timestamp and End Timestamp columns and sorts the talks by timeslot,
// stream and session.
func Parse(ctx context.Context, r io.Reader) (*core.Table, error) {
	logger := logging.FromContext(ctx)

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyProgramme
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	positions, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(exportColumns)+2)
	for _, c := range exportColumns {
		names = append(names, c.name)
	}
	names = append(names, core.ColumnStartTimestamp, core.ColumnEndTimestamp)
	table := core.NewTable(names...)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read programme: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row, err := convertRecord(record, positions)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := table.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if table.Len() == 0 {
		return nil, ErrEmptyProgramme
	}

	sorted := table.SortStable(func(a, b int) bool {
		for _, column := range []string{core.ColumnTimeslot, core.ColumnStream, core.ColumnSession} {
			x, _ := table.Int(a, column)
			y, _ := table.Int(b, column)
			if x != y {
				return x < y
			}
		}
		return false
	})

	logger.V(logging.DEBUG).Info("Parsed programme", "talks", sorted.Len())
	return sorted, nil
}

func locateColumns(header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	positions := make([]int, len(exportColumns))
	var missing []string
	for i, c := range exportColumns {
		pos, ok := index[c.header]
		if !ok {
			missing = append(missing, c.header)
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return positions, nil
}

func convertRecord(record []string, positions []int) ([]any, error) {
	row := make([]any, 0, len(exportColumns)+2)
	var (
		date       time.Time
		start, end string
	)
	for i, c := range exportColumns {
		raw := record[positions[i]]
		value, err := convertCell(c.kind, raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.header, err)
		}
		switch c.name {
		case core.ColumnDate:
			date = value.(time.Time)
		case core.ColumnStartTime:
			start = raw
		case core.ColumnEndTime:
			end = raw
		}
		row = append(row, value)
	}

	startTS, err := atTimeOfDay(date, start)
	if err != nil {
		return nil, fmt.Errorf("column start_time: %w", err)
	}
	endTS, err := atTimeOfDay(date, end)
	if err != nil {
		return nil, fmt.Errorf("column end_time: %w", err)
	}
	return append(row, startTS, endTS), nil
}

func convertCell(kind columnKind, raw string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case kindList:
		if strings.TrimSpace(raw) == "" {
			return []string{}, nil
		}
		return parseListLiteral(raw)
	case kindDate:
		return parseDate(raw)
	default:
		return raw, nil
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// atTimeOfDay returns midnight of date plus the HH:MM clock time.
func atTimeOfDay(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}
