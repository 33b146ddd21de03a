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
	"time"

	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/pkg/core"
	"github.com/programme-explorer/session-planner/pkg/solver"
)

const (
	// DefaultTimeLimit bounds a solve when no positive limit is given.
	DefaultTimeLimit = solver.DefaultTimeLimit

	// SelectionThreshold is the variable value from which a session counts
	// as selected.
	SelectionThreshold = 0.99
)

// Result is the outcome of solving a Model.
type Result struct {
	model    Model
	solution *solver.Result
}

// Solve runs the integer solver on the model for at most timeLimit. A
// non-positive limit means DefaultTimeLimit. Solver progress is only logged at
// trace verbosity. The model is not modified and every call returns a new
// Result.
func Solve(ctx context.Context, model Model, timeLimit time.Duration) *Result {
	logger := logging.FromContext(ctx)
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	solution := solver.Solve(model.program(), solver.Options{
		TimeLimit: timeLimit,
		Logger:    logger.WithName("solver"),
	})

	logger.V(logging.DEBUG).Info("Solved session model",
		"status", solution.Status.String(),
		"objective", solution.Objective,
		"nodes", solution.Nodes,
		"forced", len(model.forced),
		"timeLimitReached", solution.TimeLimitReached,
		"elapsed", solution.Elapsed)
	if solution.Cause != nil {
		logger.Error(solution.Cause, "Solver failed on session model")
	}

	return &Result{model: model, solution: solution}
}

// Status returns the terminal status of the solve.
func (r *Result) Status() solver.Status {
	return r.solution.Status
}

// IsOptimal reports whether a selection is available.
func (r *Result) IsOptimal() bool {
	return r.solution.Status == solver.StatusOptimal
}

// IsInfeasible reports whether the forced sessions cannot all be attended.
func (r *Result) IsInfeasible() bool {
	return r.solution.Status == solver.StatusInfeasible
}

// Objective is the total utility of the selection.
func (r *Result) Objective() float64 {
	return r.solution.Objective
}

// TimeLimitReached reports that the solve stopped at its time limit.
func (r *Result) TimeLimitReached() bool {
	return r.solution.TimeLimitReached
}

// Nodes is the number of search nodes the solver evaluated.
func (r *Result) Nodes() int {
	return r.solution.Nodes
}

// Elapsed is the wall-clock duration of the solve.
func (r *Result) Elapsed() time.Duration {
	return r.solution.Elapsed
}

// Model returns the model that was solved.
func (r *Result) Model() Model {
	return r.model
}

// SelectedSessions returns the sessions chosen by an optimal solve, in no
// particular order. It fails with a *ResultsUnavailableError for any other
// status.
func SelectedSessions(result *Result) ([]core.Session, error) {
	if !result.IsOptimal() {
		return nil, &ResultsUnavailableError{Status: result.Status()}
	}
	selected := make([]core.Session, 0)
	for _, s := range result.model.sessions {
		if result.solution.Value(result.model.index[s.ID]) >= SelectionThreshold {
			selected = append(selected, s)
		}
	}
	return selected, nil
}
