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

package solver

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/programme-explorer/session-planner/internal/logging"
)

const (
	// DefaultTimeLimit bounds a solve when Options.TimeLimit is not positive.
	DefaultTimeLimit = 60 * time.Second

	integralityTolerance = 1e-6
	pruneTolerance       = 1e-9
)

// Options configures a solve.
type Options struct {
	// TimeLimit bounds the wall-clock time of the search.
	TimeLimit time.Duration

	// Logger receives search progress at trace verbosity. The zero value
	// discards everything.
	Logger logr.Logger
}

// Result is the outcome of a solve. It is a fresh value per call; the solved
// problem is never modified.
type Result struct {
	// Status is the terminal verdict.
	Status Status

	// Objective is the objective value of Values. Only meaningful when
	// Status is StatusOptimal.
	Objective float64

	// Values holds one value per variable, indexed like the problem's
	// variables. Nil unless Status is StatusOptimal.
	Values []float64

	// Nodes is the number of search nodes whose relaxation was solved. A
	// relaxation cut short by the time limit is not counted.
	Nodes int

	// TimeLimitReached reports that the search stopped at the time limit.
	// An optimal status then refers to the best assignment found so far.
	TimeLimitReached bool

	// Elapsed is the wall-clock duration of the solve.
	Elapsed time.Duration

	// Cause explains a StatusUndefined outcome caused by a numerical failure.
	Cause error
}

// Value returns the solved value of variable v, or 0 when no values exist.
func (r *Result) Value(v int) float64 {
	if v < 0 || v >= len(r.Values) {
		return 0
	}
	return r.Values[v]
}

// Solve runs branch-and-bound on p. It returns once the time limit expires,
// even in the middle of a relaxation; the best assignment found so far is kept.
func Solve(p *Problem, opts Options) *Result {
	start := time.Now()
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	ctx, cancel := context.WithTimeout(context.Background(), limit)
	defer cancel()

	s := newSearch(ctx, p, opts.Logger.V(logging.TRACE))
	s.run(rootBounds(p))

	result := s.result()
	result.Elapsed = time.Since(start)
	s.logger.Info("Search finished",
		"problem", p.name,
		"status", result.Status.String(),
		"nodes", result.Nodes,
		"timeLimitReached", result.TimeLimitReached,
		"elapsed", result.Elapsed)
	return result
}

// rootBounds returns the bounds of the root node: fixed variables keep their
// value, all others are free.
func rootBounds(p *Problem) []int8 {
	root := make([]int8, len(p.variables))
	for j, v := range p.variables {
		root[j] = boundFree
		if v.fixed {
			root[j] = int8(v.value)
		}
	}
	return root
}

// search holds the state of one depth-first branch-and-bound run.
type search struct {
	ctx     context.Context
	problem *Problem
	logger  logr.Logger

	// expired is checked before every node.
	expired func() bool

	nodes     int
	incumbent []float64
	best      float64
	unbounded bool
	timedOut  bool
	cause     error
}

func newSearch(ctx context.Context, p *Problem, logger logr.Logger) *search {
	return &search{
		ctx:     ctx,
		problem: p,
		logger:  logger,
		expired: func() bool { return ctx.Err() != nil },
	}
}

func (s *search) run(root []int8) {
	stack := [][]int8{root}
	for len(stack) > 0 {
		if s.expired() {
			s.timedOut = true
			return
		}

		bounds := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r, err := relax(s.ctx, s.problem, bounds)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.timedOut = true
			return
		}
		if err != nil {
			s.cause = err
			return
		}
		s.nodes++

		switch r.status {
		case StatusInfeasible:
			continue
		case StatusUnbounded:
			s.unbounded = true
			return
		}

		score := s.score(r.objective)
		if s.incumbent != nil && score <= s.best+pruneTolerance {
			continue
		}

		j := mostFractional(r.x, bounds)
		if j < 0 {
			s.incumbent = r.x
			s.best = score
			s.logger.Info("New incumbent", "node", s.nodes, "objective", r.objective)
			continue
		}

		down := append([]int8(nil), bounds...)
		down[j] = 0
		up := append([]int8(nil), bounds...)
		up[j] = 1
		// up is explored first
		stack = append(stack, down, up)
	}
}

// score maps an objective value so that larger is always better.
func (s *search) score(objective float64) float64 {
	if s.problem.sense == Minimize {
		return -objective
	}
	return objective
}

func (s *search) result() *Result {
	r := &Result{Nodes: s.nodes, TimeLimitReached: s.timedOut}
	switch {
	case s.cause != nil:
		r.Status = StatusUndefined
		r.Cause = s.cause
	case s.unbounded:
		r.Status = StatusUnbounded
	case s.incumbent != nil:
		r.Status = StatusOptimal
		r.Values = s.incumbent
		r.Objective = s.problem.objectiveValue(s.incumbent)
	case s.timedOut:
		r.Status = StatusUndefined
	default:
		r.Status = StatusInfeasible
	}
	return r
}

// mostFractional returns the free variable whose value is furthest from
// integral, or -1 when the assignment is integral.
func mostFractional(x []float64, bounds []int8) int {
	branch, dist := -1, integralityTolerance
	for j, v := range x {
		if bounds[j] != boundFree {
			continue
		}
		if d := math.Min(v, 1-v); d > dist {
			branch, dist = j, d
		}
	}
	return branch
}
