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

// Package calendar renders attendance plans as FullCalendar documents.
package calendar

import (
	"fmt"
	"io"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/pkg/core"
)

const (
	ColorMustAttend = "red"
	ColorSelected   = "blue"

	timestampLayout = time.DateTime
	dateLayout      = time.DateOnly
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Views maps view names to FullCalendar view identifiers.
func Views() map[string]string {
	return map[string]string{
		v1alpha1.ViewWeek: "timeGridWeek",
		v1alpha1.ViewList: "list",
	}
}

// DefaultOptions returns the FullCalendar options for a view identifier.
func DefaultOptions(calendarView string) map[string]any {
	clock := map[string]any{"hour": "2-digit", "minute": "2-digit", "hour12": false}
	return map[string]any{
		"editable":    "true",
		"navLinks":    "true",
		"selectable":  "true",
		"resources":   []any{},
		"slotMinTime": "08:00:00",
		"slotMaxTime": "19:00:00",
		"initialView": calendarView,
		"headerToolbar": map[string]any{
			"right":  "today prev,next",
			"center": "",
		},
		"views": map[string]any{
			"list": map[string]any{
				"slotLabelFormat": []any{clock},
				"allDaySlot":      "false",
				"eventTimeFormat": clock,
			},
			"timeGridWeek": map[string]any{
				"slotLabelFormat": []any{clock},
				"allDaySlot":      "false",
				"eventTimeFormat": clock,
			},
		},
	}
}

// Events returns one event per session spanning from the earliest start to
// the latest end of its talks. Must-attend sessions are red, the others blue.
// Events are ordered by start.
func Events(sessions []core.Session, talks *core.Table, mustAttend []core.SessionID) ([]v1alpha1.CalendarEvent, error) {
	spans, err := sessionSpans(talks)
	if err != nil {
		return nil, err
	}
	forced := sets.New(mustAttend...)

	type timedEvent struct {
		start time.Time
		event v1alpha1.CalendarEvent
	}
	timed := make([]timedEvent, 0, len(sessions))
	for _, s := range sessions {
		span, ok := spans[s.ID]
		if !ok {
			return nil, fmt.Errorf("session %s has no talks in the programme", s.ID)
		}
		color := ColorSelected
		if forced.Has(s.ID) {
			color = ColorMustAttend
		}
		timed = append(timed, timedEvent{
			start: span.start,
			event: v1alpha1.CalendarEvent{
				AllDay: false,
				Title:  s.Name,
				Start:  span.start.Format(timestampLayout),
				End:    span.end.Format(timestampLayout),
				Color:  color,
			},
		})
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].start.Before(timed[j].start) })

	events := make([]v1alpha1.CalendarEvent, len(timed))
	for i, t := range timed {
		events[i] = t.event
	}
	return events, nil
}

// New returns the calendar document for the named view. Date ranges are
// derived from the events.
func New(view string, events []v1alpha1.CalendarEvent) (v1alpha1.Calendar, error) {
	if view == "" {
		view = v1alpha1.ViewWeek
	}
	calendarView, ok := Views()[view]
	if !ok {
		return v1alpha1.Calendar{}, fmt.Errorf("unknown calendar view %q", view)
	}

	options := DefaultOptions(calendarView)
	if first, last, ok := eventDays(events); ok {
		options["validRange"] = map[string]any{
			"start": first.Format(dateLayout),
			"end":   last.AddDate(0, 0, 1).Format(dateLayout),
		}
		visibleStart := first.AddDate(0, 0, -1)
		visibleEnd := last.AddDate(0, 0, 1)
		week := options["views"].(map[string]any)["timeGridWeek"].(map[string]any)
		week["duration"] = map[string]any{"days": int(visibleEnd.Sub(visibleStart).Hours() / 24)}
		week["visibleRange"] = map[string]any{
			"start": visibleStart.Format(dateLayout),
			"end":   visibleEnd.Format(dateLayout),
		}
	}

	if events == nil {
		events = []v1alpha1.CalendarEvent{}
	}
	return v1alpha1.Calendar{View: view, Options: options, Events: events}, nil
}

// Render writes the calendar document as indented JSON.
func Render(w io.Writer, cal v1alpha1.Calendar) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cal)
}

type span struct {
	start, end time.Time
}

func sessionSpans(talks *core.Table) (map[core.SessionID]span, error) {
	spans := make(map[core.SessionID]span)
	for row := 0; row < talks.Len(); row++ {
		id, err := talks.Int(row, core.ColumnSession)
		if err != nil {
			return nil, err
		}
		start, err := talks.Time(row, core.ColumnStartTimestamp)
		if err != nil {
			return nil, err
		}
		end, err := talks.Time(row, core.ColumnEndTimestamp)
		if err != nil {
			return nil, err
		}

		s, ok := spans[core.SessionID(id)]
		if !ok {
			spans[core.SessionID(id)] = span{start: start, end: end}
			continue
		}
		if start.Before(s.start) {
			s.start = start
		}
		if end.After(s.end) {
			s.end = end
		}
		spans[core.SessionID(id)] = s
	}
	return spans, nil
}

func eventDays(events []v1alpha1.CalendarEvent) (first, last time.Time, ok bool) {
	for _, e := range events {
		for _, ts := range []string{e.Start, e.End} {
			t, err := time.Parse(timestampLayout, ts)
			if err != nil {
				continue
			}
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			if !ok || day.Before(first) {
				first = day
			}
			if !ok || day.After(last) {
				last = day
			}
			ok = true
		}
	}
	return first, last, ok
}
