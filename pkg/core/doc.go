// Package core provides the fundamental data structures for the session planner.
//
// This package contains the domain models shared by the optimizer, the programme
// loader and the surrounding application:
//
//   - Table: a small column-oriented table holding talk-level programme records
//   - Session: a group of talks sharing stream, track and timeslot identity,
//     the unit the optimizer decides to attend or not
//   - SessionID: the identity key of a session
//
// Column names of the normalized programme table are exported as constants so
// every consumer refers to the same labels.
//
// Example usage:
//
//	table := core.NewTable(core.ColumnSession, core.ColumnSchedule, core.ColumnUtility)
//	if err := table.AppendRow(int64(101), "Mon 08:30-10:00", 4.5); err != nil {
//	    return err
//	}
//
//	for i := 0; i < table.Len(); i++ {
//	    schedule, err := table.String(i, core.ColumnSchedule)
//	    ...
//	}
//
// The core package is designed to be:
//   - Immutable where possible (operations return new tables)
//   - Independent of file formats and transports
//   - Free of any solver dependency
package core
