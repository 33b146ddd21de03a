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

// Column names of the normalized programme table.
const (
	ColumnTimeslot       = "Timeslot"
	ColumnSchedule       = "Schedule"
	ColumnStartTime      = "Start Time"
	ColumnEndTime        = "End Time"
	ColumnStream         = "Stream"
	ColumnStreamName     = "Stream Name"
	ColumnTrackCode      = "Track Code"
	ColumnSession        = "Session"
	ColumnSessionName    = "Session Name"
	ColumnPaperID        = "Paper Id"
	ColumnTitle          = "Title"
	ColumnAbstract       = "Abstract"
	ColumnAllKeywordIDs  = "All Keyword Ids"
	ColumnAuthors        = "Authors"
	ColumnKeywords       = "Keywords"
	ColumnDate           = "Date"
	ColumnStartTimestamp = "Start Timestamp"
	ColumnEndTimestamp   = "End Timestamp"

	// ColumnUtility holds the per-talk desirability score. It is never part of
	// the programme export and is added by a scorer before optimization.
	ColumnUtility = "Utility"
)

// SessionLevelColumns are the identity columns a session is aggregated on.
// Every talk row sharing these values belongs to the same session.
var SessionLevelColumns = []string{
	ColumnSessionName,
	ColumnSession,
	ColumnStreamName,
	ColumnTrackCode,
	ColumnStream,
	ColumnTimeslot,
	ColumnSchedule,
}
