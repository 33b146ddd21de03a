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
	"errors"
	"fmt"
	"math"
)

var (
	errUnknownVariable = errors.New("unknown variable")
	errNonFinite       = errors.New("coefficient is not finite")
	errBinaryValue     = errors.New("binary variables can only be fixed to 0 or 1")
)

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// Relation is the comparison of a linear constraint.
type Relation int

const (
	LessOrEqual Relation = iota
	GreaterOrEqual
)

// Term is one coefficient of a linear expression.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a linear inequality over binary variables.
type Constraint struct {
	Name     string
	Terms    []Term
	Relation Relation
	RHS      float64
}

// Variable is a binary decision variable.
type Variable struct {
	Name string

	fixed bool
	value float64
}

// Fixed returns the value the variable is fixed to, if any.
func (v Variable) Fixed() (float64, bool) {
	return v.value, v.fixed
}

// Problem is a binary integer program. Variables are referenced by the index
// returned from AddBinary.
type Problem struct {
	name        string
	sense       Sense
	variables   []Variable
	constraints []Constraint
	objective   []float64
}

// NewProblem creates an empty problem.
func NewProblem(name string, sense Sense) *Problem {
	return &Problem{name: name, sense: sense}
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// Sense returns the optimization direction.
func (p *Problem) Sense() Sense { return p.sense }

// NumVariables returns the number of variables.
func (p *Problem) NumVariables() int { return len(p.variables) }

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.constraints) }

// Variable returns the variable at index v.
func (p *Problem) Variable(v int) Variable { return p.variables[v] }

// Constraints returns a copy of the constraints.
func (p *Problem) Constraints() []Constraint {
	out := make([]Constraint, len(p.constraints))
	copy(out, p.constraints)
	return out
}

// ObjectiveCoefficient returns the objective coefficient of variable v.
func (p *Problem) ObjectiveCoefficient(v int) float64 { return p.objective[v] }

// AddBinary adds a free binary variable and returns its index.
func (p *Problem) AddBinary(name string) int {
	p.variables = append(p.variables, Variable{Name: name})
	p.objective = append(p.objective, 0)
	return len(p.variables) - 1
}

// AddConstraint appends a constraint after checking its terms.
func (p *Problem) AddConstraint(c Constraint) error {
	if !isFinite(c.RHS) {
		return fmt.Errorf("constraint %q: rhs: %w", c.Name, errNonFinite)
	}
	for _, t := range c.Terms {
		if err := p.checkTerm(t); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
	}
	terms := make([]Term, len(c.Terms))
	copy(terms, c.Terms)
	c.Terms = terms
	p.constraints = append(p.constraints, c)
	return nil
}

// SetObjective replaces the objective with the given linear expression.
// Repeated terms for a variable are summed.
func (p *Problem) SetObjective(terms []Term) error {
	objective := make([]float64, len(p.variables))
	for _, t := range terms {
		if err := p.checkTerm(t); err != nil {
			return fmt.Errorf("objective: %w", err)
		}
		objective[t.Var] += t.Coef
	}
	p.objective = objective
	return nil
}

// Fix replaces the {0,1} domain of variable v with the single given value.
func (p *Problem) Fix(v int, value float64) error {
	if v < 0 || v >= len(p.variables) {
		return fmt.Errorf("%w: %d", errUnknownVariable, v)
	}
	if value != 0 && value != 1 {
		return fmt.Errorf("variable %q: %w", p.variables[v].Name, errBinaryValue)
	}
	p.variables[v].fixed = true
	p.variables[v].value = value
	return nil
}

// Clone returns a deep copy of the problem.
func (p *Problem) Clone() *Problem {
	out := &Problem{
		name:        p.name,
		sense:       p.sense,
		variables:   make([]Variable, len(p.variables)),
		constraints: make([]Constraint, len(p.constraints)),
		objective:   make([]float64, len(p.objective)),
	}
	copy(out.variables, p.variables)
	copy(out.objective, p.objective)
	for i, c := range p.constraints {
		terms := make([]Term, len(c.Terms))
		copy(terms, c.Terms)
		c.Terms = terms
		out.constraints[i] = c
	}
	return out
}

func (p *Problem) checkTerm(t Term) error {
	if t.Var < 0 || t.Var >= len(p.variables) {
		return fmt.Errorf("%w: %d", errUnknownVariable, t.Var)
	}
	if !isFinite(t.Coef) {
		return fmt.Errorf("variable %q: %w", p.variables[t.Var].Name, errNonFinite)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
