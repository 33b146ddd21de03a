// Package optimizer implements the session selection optimizer.
//
// The optimizer chooses which conference sessions to attend: it maximizes the
// summed utility of the chosen sessions while attending at most one session per
// timeslot and always attending the sessions the caller forces.
//
// Architecture:
//
// The optimizer follows an explicit builder pattern; every step returns a new
// value instead of mutating shared state:
//
//	Talk table → Build → Model → ForceSelection → Model → Solve → Result → SelectedSessions
//
// Example usage:
//
//	model, err := optimizer.Build(ctx, talks)
//	if err != nil {
//	    return err // *optimizer.SchemaError
//	}
//
//	model, err = optimizer.ForceSelection(model, []core.SessionID{1203})
//	if err != nil {
//	    return err // *optimizer.UnknownSessionError
//	}
//
//	result := optimizer.Solve(ctx, model, optimizer.DefaultTimeLimit)
//	if result.IsInfeasible() {
//	    log.Info("forced sessions conflict", "status", result.Status())
//	}
//
//	sessions, err := optimizer.SelectedSessions(result)
//	if err != nil {
//	    return err // *optimizer.ResultsUnavailableError
//	}
//
// Model Construction:
//
//  1. Aggregate talks to sessions, averaging utility per session
//  2. Create one binary variable session_<id>_attendance per session
//  3. Add sum(variables) <= 1 for every timeslot (schedule label trimmed of spaces)
//  4. Maximize sum(variable × utility)
//
// Error Handling:
//
//   - Missing or mistyped columns → *SchemaError from Build
//   - Forcing an id that is not in the model → *UnknownSessionError
//   - Forcing two sessions of one timeslot → Infeasible status after Solve
//   - Reading results of a non-optimal solve → *ResultsUnavailableError
//
// A Model is never shared between runs. Solving blocks for at most the time
// limit, which is the only cancellation mechanism.
package optimizer
