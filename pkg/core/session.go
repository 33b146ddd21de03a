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
	"fmt"
	"strconv"
)

// SessionID identifies a session in the programme.
type SessionID int64

// String returns the decimal representation of the id.
func (id SessionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseSessionID parses a decimal session id.
func ParseSessionID(s string) (SessionID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q: %w", s, err)
	}
	return SessionID(v), nil
}

// Session is the unit of decision: an aggregated group of talks sharing
// stream, track and timeslot identity.
type Session struct {
	// ID is the unique session key.
	ID SessionID `json:"session"`

	// Name is the human readable session title.
	Name string `json:"sessionName"`

	// StreamID and StreamName identify the stream the session belongs to.
	StreamID   int64  `json:"stream"`
	StreamName string `json:"streamName"`

	// TrackCode is the room/track code printed in the programme.
	TrackCode string `json:"trackCode"`

	// TimeslotID and Schedule identify the timeslot. Schedule is the label
	// used for grouping sessions into mutually exclusive timeslots.
	TimeslotID int64  `json:"timeslot"`
	Schedule   string `json:"schedule"`

	// Utility is the mean utility of the session's talks.
	Utility float64 `json:"utility"`
}

// TotalUtility sums the utility of the given sessions.
func TotalUtility(sessions []Session) float64 {
	var total float64
	for _, s := range sessions {
		total += s.Utility
	}
	return total
}
