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

// Package planner runs the attendance planning pipeline: it filters the
// programme, scores the remaining talks, builds and solves the session
// selection model and returns the plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/filter"
	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/internal/metrics"
	"github.com/programme-explorer/session-planner/internal/optimizer"
	"github.com/programme-explorer/session-planner/internal/utility"
	"github.com/programme-explorer/session-planner/pkg/core"
	"github.com/programme-explorer/session-planner/pkg/solver"
)

var (
	// ErrNoFeasiblePlan is returned when no plan satisfies the must-attend
	// sessions.
	ErrNoFeasiblePlan = errors.New("no feasible plan found, consider relaxing the must-attend selection")

	errInvalidTimeLimit = errors.New("time limit must be positive")
)

// Request describes one planning run.
type Request struct {
	// Criteria narrows the programme before optimizing.
	Criteria filter.Criteria

	// MustAttend lists sessions the plan must contain, in addition to the
	// must-attend sessions of the preferences.
	MustAttend []core.SessionID

	// TimeLimit bounds the solve. Zero selects the planner default.
	TimeLimit time.Duration

	// Preferences are the effective preferences used to score talks.
	Preferences config.Preferences
}

// Plan is the outcome of a planning run.
type Plan struct {
	ID     uuid.UUID
	Status solver.Status

	// Sessions are the selected sessions ordered by timeslot.
	Sessions []core.Session

	// MustAttend are the forced sessions of the run.
	MustAttend []core.SessionID

	TotalUtility     float64
	TimeLimitReached bool
	Nodes            int
	Elapsed          time.Duration
	CreatedAt        time.Time

	// Talks are the filtered, scored talks the plan was computed from.
	Talks *core.Table
}

// Planner runs planning requests. It is safe for concurrent use; every run
// builds its own model.
type Planner struct {
	emitter          *metrics.Emitter
	defaultTimeLimit time.Duration
	now              func() time.Time
}

// Option configures a Planner.
type Option func(*Planner) error

// WithEmitter records every solve on emitter.
func WithEmitter(emitter *metrics.Emitter) Option {
	return func(p *Planner) error {
		p.emitter = emitter
		return nil
	}
}

// WithDefaultTimeLimit sets the time limit of requests that do not set one.
func WithDefaultTimeLimit(limit time.Duration) Option {
	return func(p *Planner) error {
		if limit <= 0 {
			return errInvalidTimeLimit
		}
		p.defaultTimeLimit = limit
		return nil
	}
}

// New returns a planner.
func New(opts ...Option) (*Planner, error) {
	p := &Planner{
		defaultTimeLimit: optimizer.DefaultTimeLimit,
		now:              time.Now,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Plan computes an attendance plan for the talks of programme.
//
// Talk utilities are computed from req.Preferences and replace any Utility
// column of programme. A programme that already carries a Utility column
// keeps it when the preferences set no weights.
//
// Schema and unknown session errors of the optimizer are returned unchanged.
// When the solve ends without a selection the plan is returned together with
// an error wrapping ErrNoFeasiblePlan.
func (p *Planner) Plan(ctx context.Context, programme *core.Table, req Request) (*Plan, error) {
	id := uuid.New()
	logger := logging.FromContext(ctx).WithValues("plan", id.String())
	ctx = logging.IntoContext(ctx, logger)

	talks, err := filter.Apply(programme, req.Criteria)
	if err != nil {
		return nil, err
	}
	if !talks.HasColumn(core.ColumnUtility) || req.Preferences.HasWeights() {
		talks, err = utility.NewScorer(req.Preferences).Score(talks)
		if err != nil {
			return nil, err
		}
	}

	model, err := optimizer.Build(ctx, talks)
	if err != nil {
		return nil, err
	}
	mustAttend := mergeSessionIDs(req.MustAttend, req.Preferences.MustAttend)
	model, err = optimizer.ForceSelection(model, mustAttend)
	if err != nil {
		return nil, err
	}

	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = p.defaultTimeLimit
	}
	result := optimizer.Solve(ctx, model, timeLimit)

	plan := &Plan{
		ID:               id,
		Status:           result.Status(),
		MustAttend:       mustAttend,
		TimeLimitReached: result.TimeLimitReached(),
		Nodes:            result.Nodes(),
		Elapsed:          result.Elapsed(),
		CreatedAt:        p.now(),
		Talks:            talks,
	}

	sessions, err := optimizer.SelectedSessions(result)
	if err != nil {
		p.record(plan)
		logger.Info("No feasible plan", "status", plan.Status.String(), "mustAttend", mustAttend)
		return plan, fmt.Errorf("%w: solver finished with status %s", ErrNoFeasiblePlan, plan.Status)
	}

	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.TimeslotID != b.TimeslotID {
			return a.TimeslotID < b.TimeslotID
		}
		if a.Schedule != b.Schedule {
			return a.Schedule < b.Schedule
		}
		return a.ID < b.ID
	})
	plan.Sessions = sessions
	plan.TotalUtility = core.TotalUtility(sessions)
	p.record(plan)

	logger.V(logging.DEBUG).Info("Computed plan",
		"sessions", len(sessions),
		"totalUtility", plan.TotalUtility,
		"timeLimitReached", plan.TimeLimitReached)
	return plan, nil
}

func (p *Planner) record(plan *Plan) {
	if p.emitter == nil {
		return
	}
	p.emitter.RecordSolve(plan.Status, plan.Elapsed, len(plan.Sessions), plan.TotalUtility, plan.Nodes)
}

// mergeSessionIDs concatenates the lists, dropping repeated ids.
func mergeSessionIDs(lists ...[]core.SessionID) []core.SessionID {
	seen := make(map[core.SessionID]bool)
	var out []core.SessionID
	for _, ids := range lists {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// IsMustAttend reports whether the session was forced into the plan.
func (p *Plan) IsMustAttend(id core.SessionID) bool {
	for _, forced := range p.MustAttend {
		if forced == id {
			return true
		}
	}
	return false
}
