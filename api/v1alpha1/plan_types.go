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

// Package v1alpha1 contains the wire types of the session planner HTTP API.
package v1alpha1

import (
	"errors"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/ptr"
)

// MaxTimeLimitSeconds bounds PlanRequest.TimeLimitSeconds.
const MaxTimeLimitSeconds = 600

// Calendar views.
const (
	ViewWeek = "Week"
	ViewList = "List"
)

// PlanRequest asks for an optimal attendance plan.
type PlanRequest struct {
	// Timeslots restricts the plan to the listed schedule labels.
	// +optional
	Timeslots []string `json:"timeslots,omitempty"`

	// Streams restricts the plan to the listed stream names.
	// +optional
	Streams []string `json:"streams,omitempty"`

	// Keywords restricts the plan to talks with at least one listed keyword.
	// +optional
	Keywords []string `json:"keywords,omitempty"`

	// TitleSearch is a case-insensitive pattern talk titles must match.
	// +optional
	TitleSearch string `json:"titleSearch,omitempty"`

	// AbstractSearch is a case-insensitive pattern talk abstracts must match.
	// +optional
	AbstractSearch string `json:"abstractSearch,omitempty"`

	// MustAttend lists session ids the plan must contain.
	// +optional
	MustAttend []int64 `json:"mustAttend,omitempty"`

	// TimeLimitSeconds bounds the solve. Defaults to the server setting.
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:validation:Maximum=600
	// +optional
	TimeLimitSeconds *float64 `json:"timeLimitSeconds,omitempty"`

	// Profile names the preferences profile used to score talks.
	// +optional
	Profile string `json:"profile,omitempty"`

	// CalendarView selects the calendar rendering, "Week" or "List".
	// Defaults to "Week".
	// +optional
	CalendarView string `json:"calendarView,omitempty"`
}

// Validate checks the request and reports every problem at once.
func (r *PlanRequest) Validate() error {
	var errs []error
	if r.TimeLimitSeconds != nil {
		if s := *r.TimeLimitSeconds; !(s > 0 && s <= MaxTimeLimitSeconds) {
			errs = append(errs, fmt.Errorf("timeLimitSeconds must be in (0, %d], got %v", MaxTimeLimitSeconds, s))
		}
	}
	seen := make(map[int64]bool, len(r.MustAttend))
	for _, id := range r.MustAttend {
		if id <= 0 {
			errs = append(errs, fmt.Errorf("mustAttend ids must be positive, got %d", id))
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("mustAttend contains session %d more than once", id))
		}
		seen[id] = true
	}
	switch r.CalendarView {
	case "", ViewWeek, ViewList:
	default:
		errs = append(errs, errors.New("calendarView must be one of Week, List"))
	}
	return utilerrors.NewAggregate(errs)
}

// TimeLimit returns the requested time limit, or 0 when unset.
func (r *PlanRequest) TimeLimit() time.Duration {
	return time.Duration(ptr.Deref(r.TimeLimitSeconds, 0) * float64(time.Second))
}

// PlanResponse is a computed attendance plan.
type PlanResponse struct {
	// ID uniquely identifies the plan.
	ID string `json:"id"`

	// Status is the terminal solver status, e.g. "Optimal".
	Status string `json:"status"`

	// Sessions are the selected sessions ordered by timeslot.
	Sessions []SessionRecord `json:"sessions"`

	// TotalUtility is the summed utility of Sessions.
	TotalUtility float64 `json:"totalUtility"`

	// TimeLimitReached reports that the solver stopped at the time limit and
	// the plan is the best one found.
	TimeLimitReached bool `json:"timeLimitReached"`

	// Nodes is the number of search nodes the solver evaluated.
	Nodes int `json:"nodes"`

	// CreatedAt is when the plan was computed.
	CreatedAt metav1.Time `json:"createdAt"`

	// Elapsed is the solve duration.
	Elapsed metav1.Duration `json:"elapsed"`

	// Calendar renders the plan for a FullCalendar front-end.
	// +optional
	Calendar *Calendar `json:"calendar,omitempty"`
}

// SessionRecord is a selected session.
type SessionRecord struct {
	ID         int64   `json:"session"`
	Name       string  `json:"sessionName"`
	StreamID   int64   `json:"stream"`
	StreamName string  `json:"streamName"`
	TrackCode  string  `json:"trackCode"`
	TimeslotID int64   `json:"timeslot"`
	Schedule   string  `json:"schedule"`
	Utility    float64 `json:"utility"`

	// MustAttend marks sessions forced by the request or profile.
	MustAttend bool `json:"mustAttend,omitempty"`
}

// Calendar holds FullCalendar options and events.
type Calendar struct {
	View    string          `json:"view"`
	Options map[string]any  `json:"options"`
	Events  []CalendarEvent `json:"events"`
}

// CalendarEvent is one FullCalendar event.
type CalendarEvent struct {
	AllDay bool   `json:"allDay"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Color  string `json:"color"`
}

// ChoicesResponse lists the values available for a filter.
type ChoicesResponse struct {
	Items []string `json:"items"`
}

// Error reasons.
const (
	ReasonInvalidRequest       = "InvalidRequest"
	ReasonSchemaMismatch       = "SchemaMismatch"
	ReasonUnknownSession       = "UnknownSession"
	ReasonUnknownProfile       = "UnknownProfile"
	ReasonInfeasible           = "Infeasible"
	ReasonOptimizationDisabled = "OptimizationDisabled"
	ReasonProgrammeUnavailable = "ProgrammeUnavailable"
	ReasonInternal             = "Internal"
)

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	// Code repeats the HTTP status code.
	Code int `json:"code"`
	// Reason is a machine readable cause.
	Reason string `json:"reason"`
	// Message is a human readable description.
	Message string `json:"message"`
}
