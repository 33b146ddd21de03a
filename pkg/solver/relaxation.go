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
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// boundFree marks a variable whose relaxed domain is [0, 1].
	boundFree int8 = -1

	simplexTolerance     = 1e-10
	feasibilityTolerance = 1e-9
)

// relaxation is the outcome of one LP relaxation.
type relaxation struct {
	status    Status
	objective float64
	x         []float64
}

// reducedRow is a constraint restricted to the free variables. Fixed
// variables are moved into the right-hand side.
type reducedRow struct {
	coefs    []float64
	relation Relation
	rhs      float64
}

// relax solves the LP relaxation of p under the given per-variable bounds.
//
// Only free variables become columns. The relaxation is brought into the
// standard form gonum expects (min cᵀx s.t. Ax = b, x >= 0):
//
//	uncapped x_j:  x_j + u_j = 1
//	<= row:        aᵀx + s_i = rhs
//	>= row:        aᵀx - s_i = rhs
//
// A free variable is capped when some <= row with non-negative coefficients
// already limits it to 1; it gets no bound row. Rows without free variables
// are checked directly and dropped. Every remaining row owns a distinct column
// (u_j, s_i), so A has full row rank and more columns than rows. Rows with a
// negative right-hand side are negated.
//
// gonum's simplex cannot be interrupted. When ctx expires first relax returns
// ctx.Err() and the abandoned simplex finishes in the background.
func relax(ctx context.Context, p *Problem, bounds []int8) (relaxation, error) {
	var free []int
	for j, b := range bounds {
		if b == boundFree {
			free = append(free, j)
		}
	}
	if len(free) == 0 {
		return evaluate(p, bounds), nil
	}
	column := make(map[int]int, len(free))
	for k, j := range free {
		column[j] = k
	}

	rows := make([]reducedRow, 0, len(p.constraints))
	for _, con := range p.constraints {
		row := reducedRow{coefs: make([]float64, len(free)), relation: con.Relation, rhs: con.RHS}
		active := false
		for _, t := range con.Terms {
			if k, ok := column[t.Var]; ok {
				row.coefs[k] += t.Coef
				active = active || row.coefs[k] != 0
				continue
			}
			row.rhs -= t.Coef * float64(bounds[t.Var])
		}
		if !active {
			if !satisfied(0, con.Relation, row.rhs) {
				return relaxation{status: StatusInfeasible}, nil
			}
			continue
		}
		rows = append(rows, row)
	}

	capped := cappedColumns(rows, len(free))
	var uncapped []int
	for k := range free {
		if !capped[k] {
			uncapped = append(uncapped, k)
		}
	}

	numRows := len(uncapped) + len(rows)
	numCols := len(free) + numRows
	a := mat.NewDense(numRows, numCols, nil)
	b := make([]float64, numRows)
	c := make([]float64, numCols)

	for k, j := range free {
		c[k] = p.objective[j]
		if p.sense == Maximize {
			c[k] = -c[k]
		}
	}
	for i, k := range uncapped {
		a.Set(i, k, 1)
		a.Set(i, len(free)+i, 1)
		b[i] = 1
	}
	for i, row := range rows {
		r := len(uncapped) + i
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		for k, coef := range row.coefs {
			if coef != 0 {
				a.Set(r, k, sign*coef)
			}
		}
		slack := 1.0
		if row.relation == GreaterOrEqual {
			slack = -1
		}
		a.Set(r, len(free)+r, sign*slack)
		b[r] = sign * row.rhs
	}

	x, err := simplex(ctx, c, a, b)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return relaxation{status: StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return relaxation{status: StatusUnbounded}, nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return relaxation{}, err
	case err != nil:
		return relaxation{}, fmt.Errorf("lp relaxation of %q: %w", p.name, err)
	}

	values := make([]float64, len(bounds))
	for j, bound := range bounds {
		if bound != boundFree {
			values[j] = float64(bound)
		}
	}
	for k, j := range free {
		values[j] = x[k]
	}
	return relaxation{
		status:    StatusOptimal,
		objective: p.objectiveValue(values),
		x:         values,
	}, nil
}

type simplexOutcome struct {
	x   []float64
	err error
}

func simplex(ctx context.Context, c []float64, a mat.Matrix, b []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	done := make(chan simplexOutcome, 1)
	go func() {
		_, x, err := lp.Simplex(c, a, b, simplexTolerance, nil)
		done <- simplexOutcome{x: x, err: err}
	}()
	select {
	case out := <-done:
		return out.x, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cappedColumns reports the columns some <= row with non-negative
// coefficients bounds by 1.
func cappedColumns(rows []reducedRow, numCols int) []bool {
	capped := make([]bool, numCols)
	for _, row := range rows {
		if row.relation != LessOrEqual || row.rhs < 0 {
			continue
		}
		nonNegative := true
		for _, coef := range row.coefs {
			if coef < 0 {
				nonNegative = false
				break
			}
		}
		if !nonNegative {
			continue
		}
		for k, coef := range row.coefs {
			if coef > 0 && row.rhs <= coef {
				capped[k] = true
			}
		}
	}
	return capped
}

func satisfied(lhs float64, relation Relation, rhs float64) bool {
	if relation == GreaterOrEqual {
		return lhs >= rhs-feasibilityTolerance
	}
	return lhs <= rhs+feasibilityTolerance
}

// evaluate checks a fully fixed assignment directly.
func evaluate(p *Problem, bounds []int8) relaxation {
	x := make([]float64, len(bounds))
	for j, b := range bounds {
		x[j] = float64(b)
	}
	for _, con := range p.constraints {
		var lhs float64
		for _, t := range con.Terms {
			lhs += t.Coef * x[t.Var]
		}
		if !satisfied(lhs, con.Relation, con.RHS) {
			return relaxation{status: StatusInfeasible}
		}
	}
	return relaxation{status: StatusOptimal, objective: p.objectiveValue(x), x: x}
}

func (p *Problem) objectiveValue(x []float64) float64 {
	var obj float64
	for j, coef := range p.objective {
		obj += coef * x[j]
	}
	return obj
}
