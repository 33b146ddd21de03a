// Package solver implements a small binary integer programming solver.
//
// The solver package contains the algorithm the session optimizer hands its
// model to: a depth-first branch-and-bound search whose nodes are linear
// programming relaxations solved with gonum's simplex implementation.
//
// Key Components:
//
//   - Problem: binary variables, linear constraints and a linear objective
//   - Solve: branch-and-bound driver bounded by a wall-clock time limit
//   - Result: terminal status, objective value and per-variable values
//
// Search Strategy:
//
//  1. Solve the LP relaxation of the current node over its free variables;
//     fixed variables are substituted into the constraints
//  2. Prune the node when it is infeasible or its bound cannot beat the incumbent
//  3. Accept an integral relaxation as the new incumbent
//  4. Otherwise branch on the most fractional variable, exploring x = 1 first
//
// Example usage:
//
//	p := solver.NewProblem("pick", solver.Maximize)
//	a := p.AddBinary("a")
//	b := p.AddBinary("b")
//	_ = p.SetObjective([]solver.Term{{Var: a, Coef: 5}, {Var: b, Coef: 3}})
//	_ = p.AddConstraint(solver.Constraint{
//	    Name:     "at_most_one",
//	    Terms:    []solver.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}},
//	    Relation: solver.LessOrEqual,
//	    RHS:      1,
//	})
//
//	result := solver.Solve(p, solver.Options{TimeLimit: time.Minute})
//	if result.Status == solver.StatusOptimal {
//	    fmt.Println(result.Value(a), result.Value(b))
//	}
//
// The solver is designed to be:
//   - Deterministic: the same problem always explores the same nodes
//   - Silent: search progress is only visible at trace verbosity
//   - Anytime: when the time limit expires the best incumbent is reported,
//     even if a relaxation is still running
package solver
