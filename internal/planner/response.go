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


package planner

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/internal/calendar"
	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/filter"
	"github.com/programme-explorer/session-planner/pkg/core"
)

// RequestFromAPI converts an API request into a planner request using the
// effective preferences of its profile.
func RequestFromAPI(in *v1alpha1.PlanRequest, prefs config.Preferences) Request {
	mustAttend := make([]core.SessionID, 0, len(in.MustAttend))
	for _, id := range in.MustAttend {
		mustAttend = append(mustAttend, core.SessionID(id))
	}
	return Request{
		Criteria: filter.Criteria{
			Timeslots:      in.Timeslots,
			Streams:        in.Streams,
			Keywords:       in.Keywords,
			TitleSearch:    in.TitleSearch,
			AbstractSearch: in.AbstractSearch,
		},
		MustAttend:  mustAttend,
		TimeLimit:   in.TimeLimit(),
		Preferences: prefs,
	}
}

// Response converts a plan into its API representation. The calendar is
// rendered in view when the plan has a result.
func Response(plan *Plan, view string) (*v1alpha1.PlanResponse, error) {
	out := &v1alpha1.PlanResponse{
		ID:               plan.ID.String(),
		Status:           plan.Status.String(),
		Sessions:         make([]v1alpha1.SessionRecord, 0, len(plan.Sessions)),
		TotalUtility:     plan.TotalUtility,
		TimeLimitReached: plan.TimeLimitReached,
		Nodes:            plan.Nodes,
		CreatedAt:        metav1.NewTime(plan.CreatedAt.Truncate(time.Second)),
		Elapsed:          metav1.Duration{Duration: plan.Elapsed},
	}
	for _, s := range plan.Sessions {
		out.Sessions = append(out.Sessions, v1alpha1.SessionRecord{
			ID:         int64(s.ID),
			Name:       s.Name,
			StreamID:   s.StreamID,
			StreamName: s.StreamName,
			TrackCode:  s.TrackCode,
			TimeslotID: s.TimeslotID,
			Schedule:   s.Schedule,
			Utility:    s.Utility,
			MustAttend: plan.IsMustAttend(s.ID),
		})
	}

	if plan.Talks == nil {
		return out, nil
	}
	events, err := calendar.Events(plan.Sessions, plan.Talks, plan.MustAttend)
	if err != nil {
		return nil, err
	}
	cal, err := calendar.New(view, events)
	if err != nil {
		return nil, err
	}
	out.Calendar = &cal
	return out, nil
}
