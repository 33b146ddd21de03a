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
	"fmt"
	"strings"

	"github.com/programme-explorer/session-planner/pkg/core"
	"github.com/programme-explorer/session-planner/pkg/solver"
)

// SchemaError reports a programme table the optimizer cannot read: required
// columns are absent or a required cell holds the wrong kind of value.
type SchemaError struct {
	// Missing lists absent required columns.
	Missing []string
	// Column names the offending column when a value could not be read.
	Column string
	// Err is the underlying read error.
	Err error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing columns %s in programme table", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid column %q in programme table: %v", e.Column, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// UnknownSessionError reports forced session ids absent from the model.
type UnknownSessionError struct {
	IDs []core.SessionID
}

func (e *UnknownSessionError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("cannot force unknown sessions %s", strings.Join(ids, ", "))
}

// ResultsUnavailableError reports an attempt to read the selection of a solve
// that did not end optimal.
type ResultsUnavailableError struct {
	Status solver.Status
}

func (e *ResultsUnavailableError) Error() string {
	return fmt.Sprintf("cannot retrieve results for model with status %s", e.Status)
}
