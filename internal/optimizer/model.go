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

package optimizer

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/pkg/core"
	"github.com/programme-explorer/session-planner/pkg/solver"
)

// ModelName names the underlying integer program.
const ModelName = "session_selection"

// RequiredColumns are the programme table columns Build reads.
var RequiredColumns = append(slices.Clone(core.SessionLevelColumns), core.ColumnUtility)

// Model is a built session selection problem. It is a value: ForceSelection
// returns a new Model and solving never changes it. The zero Model holds no
// sessions.
type Model struct {
	sessions []core.Session
	index    map[core.SessionID]int
	problem  *solver.Problem
	forced   sets.Set[core.SessionID]
}

// Sessions returns the sessions of the model in variable order.
func (m Model) Sessions() []core.Session {
	return slices.Clone(m.sessions)
}

// Forced returns the ids fixed to attended, in ascending order.
func (m Model) Forced() []core.SessionID {
	return sets.List(m.forced)
}

// Contains reports whether the model has a variable for the session.
func (m Model) Contains(id core.SessionID) bool {
	_, ok := m.index[id]
	return ok
}

// Problem returns a copy of the underlying integer program.
func (m Model) Problem() *solver.Problem {
	return m.program().Clone()
}

func (m Model) program() *solver.Problem {
	if m.problem == nil {
		return solver.NewProblem(ModelName, solver.Maximize)
	}
	return m.problem
}

// VariableName returns the decision variable name of a session.
func VariableName(id core.SessionID) string {
	return fmt.Sprintf("session_%s_attendance", id)
}

// ConstraintName returns the name of the timeslot constraint for a label.
func ConstraintName(label string) string {
	return "at_most_one_session_in_timeslot_" + label
}

// Build aggregates the talks of the table into sessions and creates one binary
// attendance variable per session, an at-most-one constraint per timeslot and
// the utility objective. It fails with a *SchemaError, before touching the
// solver, when the table lacks a required column.
func Build(ctx context.Context, talks *core.Table) (Model, error) {
	logger := logging.FromContext(ctx)

	sessions, err := aggregate(talks)
	if err != nil {
		return Model{}, err
	}

	problem := solver.NewProblem(ModelName, solver.Maximize)
	index := make(map[core.SessionID]int, len(sessions))
	objective := make([]solver.Term, 0, len(sessions))
	for _, s := range sessions {
		v := problem.AddBinary(VariableName(s.ID))
		index[s.ID] = v
		objective = append(objective, solver.Term{Var: v, Coef: s.Utility})
	}
	if err := problem.SetObjective(objective); err != nil {
		return Model{}, fmt.Errorf("failed to set objective: %w", err)
	}

	var labels []string
	groups := make(map[string][]solver.Term)
	for _, s := range sessions {
		label := timeslotLabel(s.Schedule)
		if _, ok := groups[label]; !ok {
			labels = append(labels, label)
		}
		groups[label] = append(groups[label], solver.Term{Var: index[s.ID], Coef: 1})
	}
	for _, label := range labels {
		err := problem.AddConstraint(solver.Constraint{
			Name:     ConstraintName(label),
			Terms:    groups[label],
			Relation: solver.LessOrEqual,
			RHS:      1,
		})
		if err != nil {
			return Model{}, fmt.Errorf("failed to add constraint for timeslot %q: %w", label, err)
		}
	}

	logger.V(logging.DEBUG).Info("Built session model",
		"talks", talks.Len(),
		"sessions", len(sessions),
		"timeslots", len(labels))

	return Model{
		sessions: sessions,
		index:    index,
		problem:  problem,
		forced:   sets.New[core.SessionID](),
	}, nil
}

// ForceSelection returns a copy of model in which every listed session must be
// attended. All unknown ids are reported in one *UnknownSessionError and the
// input model is left untouched. Forcing two sessions of one timeslot is not
// an error here; the solve reports it as infeasible.
func ForceSelection(model Model, ids []core.SessionID) (Model, error) {
	var unknown []core.SessionID
	for _, id := range ids {
		if !model.Contains(id) && !slices.Contains(unknown, id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return Model{}, &UnknownSessionError{IDs: unknown}
	}

	forced := model.clone()
	for _, id := range ids {
		if err := forced.problem.Fix(forced.index[id], 1); err != nil {
			return Model{}, fmt.Errorf("failed to force session %s: %w", id, err)
		}
		forced.forced.Insert(id)
	}
	return forced, nil
}

// clone copies the mutable parts of the model. Sessions and the variable
// index are never modified after Build and are shared.
func (m Model) clone() Model {
	forced := sets.New[core.SessionID]()
	if m.forced != nil {
		forced = m.forced.Clone()
	}
	return Model{
		sessions: m.sessions,
		index:    m.index,
		problem:  m.program().Clone(),
		forced:   forced,
	}
}

// timeslotLabel normalizes a schedule label for grouping. Only spaces are
// trimmed.
func timeslotLabel(schedule string) string {
	return strings.Trim(schedule, " ")
}

type sessionKey struct {
	name       string
	id         core.SessionID
	streamName string
	trackCode  string
	stream     int64
	timeslot   int64
	schedule   string
}

type utilitySum struct {
	total float64
	count int
}

// aggregate groups talks on the session level columns and averages their
// utility. Sessions keep the order in which their ids first appear. A session
// id that occurs with differing identity columns collapses to the group seen
// last.
func aggregate(talks *core.Table) ([]core.Session, error) {
	if talks == nil {
		return nil, &SchemaError{Missing: slices.Clone(RequiredColumns)}
	}
	if missing := talks.MissingColumns(RequiredColumns...); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var keys []sessionKey
	sums := make(map[sessionKey]*utilitySum)
	for row := 0; row < talks.Len(); row++ {
		key, utility, err := readTalk(talks, row)
		if err != nil {
			return nil, err
		}
		sum, ok := sums[key]
		if !ok {
			sum = &utilitySum{}
			sums[key] = sum
			keys = append(keys, key)
		}
		sum.total += utility
		sum.count++
	}

	var sessions []core.Session
	position := make(map[core.SessionID]int)
	for _, key := range keys {
		sum := sums[key]
		session := core.Session{
			ID:         key.id,
			Name:       key.name,
			StreamID:   key.stream,
			StreamName: key.streamName,
			TrackCode:  key.trackCode,
			TimeslotID: key.timeslot,
			Schedule:   key.schedule,
			Utility:    sum.total / float64(sum.count),
		}
		if i, ok := position[key.id]; ok {
			sessions[i] = session
			continue
		}
		position[key.id] = len(sessions)
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func readTalk(talks *core.Table, row int) (sessionKey, float64, error) {
	var (
		key sessionKey
		err error
	)
	read := func(column string, fn func() error) {
		if err != nil {
			return
		}
		if e := fn(); e != nil {
			err = &SchemaError{Column: column, Err: e}
		}
	}

	read(core.ColumnSessionName, func() (e error) {
		key.name, e = talks.String(row, core.ColumnSessionName)
		return
	})
	read(core.ColumnSession, func() error {
		id, e := talks.Int(row, core.ColumnSession)
		key.id = core.SessionID(id)
		return e
	})
	read(core.ColumnStreamName, func() (e error) {
		key.streamName, e = talks.String(row, core.ColumnStreamName)
		return
	})
	read(core.ColumnTrackCode, func() (e error) {
		key.trackCode, e = talks.String(row, core.ColumnTrackCode)
		return
	})
	read(core.ColumnStream, func() (e error) {
		key.stream, e = talks.Int(row, core.ColumnStream)
		return
	})
	read(core.ColumnTimeslot, func() (e error) {
		key.timeslot, e = talks.Int(row, core.ColumnTimeslot)
		return
	})
	read(core.ColumnSchedule, func() (e error) {
		key.schedule, e = talks.String(row, core.ColumnSchedule)
		return
	})

	var utility float64
	read(core.ColumnUtility, func() error {
		u, e := talks.Float(row, core.ColumnUtility)
		if e != nil {
			return e
		}
		if math.IsNaN(u) || math.IsInf(u, 0) {
			return fmt.Errorf("row %d: utility %v is not finite", row, u)
		}
		utility = u
		return nil
	})
	return key, utility, err
}
