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


package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/internal/calendar"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
	mustAttendStyle = cellStyle.Foreground(lipgloss.Color("#FF6B6B"))
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

func writeJSON(w io.Writer, resp *v1alpha1.PlanResponse) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func writeCalendar(w io.Writer, resp *v1alpha1.PlanResponse) error {
	if resp.Calendar == nil {
		return errors.New("plan has no calendar")
	}
	return calendar.Render(w, *resp.Calendar)
}

// writeTable prints the selected sessions, one row per timeslot. Must-attend
// sessions are highlighted.
func writeTable(w io.Writer, resp *v1alpha1.PlanResponse) error {
	rows := make([][]string, 0, len(resp.Sessions))
	for _, s := range resp.Sessions {
		rows = append(rows, []string{
			s.Schedule,
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.StreamName,
			s.TrackCode,
			strconv.FormatFloat(s.Utility, 'f', 2, 64),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers("TIMESLOT", "SESSION", "NAME", "STREAM", "TRACK", "UTILITY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(resp.Sessions) && resp.Sessions[row].MustAttend:
				return mustAttendStyle
			default:
				return cellStyle
			}
		})

	summary := fmt.Sprintf("%s plan with %d sessions, total utility %.2f",
		resp.Status, len(resp.Sessions), resp.TotalUtility)
	if resp.TimeLimitReached {
		summary += " (time limit reached)"
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), summaryStyle.Render(summary))
	return err
}
