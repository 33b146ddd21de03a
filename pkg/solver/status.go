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

// Status is the terminal verdict of a solve.
type Status int

const (
	// StatusNotSolved is the zero value; no solve has run.
	StatusNotSolved Status = iota
	// StatusOptimal means an optimal assignment was found. When the time limit
	// expired it is the best assignment found so far.
	StatusOptimal
	// StatusInfeasible means no assignment satisfies all constraints.
	StatusInfeasible
	// StatusUnbounded means the objective can grow without limit.
	StatusUnbounded
	// StatusUndefined covers every other outcome, such as a time limit expiring
	// before any feasible assignment was found or a numerical failure.
	StatusUndefined
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "NotSolved"
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusUndefined:
		return "Undefined"
	default:
		return "Unknown"
	}
}
