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

// Package filter narrows the programme down to the talks a visitor is
// interested in and lists the values available for filtering.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/programme-explorer/session-planner/pkg/core"
)

// Criteria selects talks. Empty fields do not filter.
type Criteria struct {
	// Timeslots keeps talks whose schedule label is listed, compared as is.
	Timeslots []string `json:"timeslots,omitempty"`
	// Streams keeps talks whose stream name is listed.
	Streams []string `json:"streams,omitempty"`
	// Keywords keeps talks sharing at least one keyword with the list.
	Keywords []string `json:"keywords,omitempty"`
	// TitleSearch is a case-insensitive pattern matched against titles.
	TitleSearch string `json:"titleSearch,omitempty"`
	// AbstractSearch is a case-insensitive pattern matched against abstracts.
	AbstractSearch string `json:"abstractSearch,omitempty"`
}

// IsEmpty reports whether the criteria keep every talk.
func (c Criteria) IsEmpty() bool {
	return len(c.Timeslots) == 0 && len(c.Streams) == 0 && len(c.Keywords) == 0 &&
		isBlank(c.TitleSearch) && isBlank(c.AbstractSearch)
}

type predicate func(table *core.Table, row int) (bool, error)

// Apply returns the talks of table matching all criteria. The input table is
// not modified.
func Apply(table *core.Table, c Criteria) (*core.Table, error) {
	var predicates []predicate
	if len(c.Timeslots) > 0 {
		predicates = append(predicates, memberOf(core.ColumnSchedule, c.Timeslots))
	}
	if len(c.Streams) > 0 {
		predicates = append(predicates, memberOf(core.ColumnStreamName, c.Streams))
	}
	if len(c.Keywords) > 0 {
		predicates = append(predicates, overlapsWith(core.ColumnKeywords, c.Keywords))
	}
	if !isBlank(c.TitleSearch) {
		predicates = append(predicates, contains(core.ColumnTitle, c.TitleSearch))
	}
	if !isBlank(c.AbstractSearch) {
		predicates = append(predicates, contains(core.ColumnAbstract, c.AbstractSearch))
	}
	if len(predicates) == 0 {
		return table.Clone(), nil
	}

	var err error
	filtered := table.Filter(func(row int) bool {
		if err != nil {
			return false
		}
		for _, keep := range predicates {
			ok, e := keep(table, row)
			if e != nil {
				err = e
				return false
			}
			if !ok {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter programme: %w", err)
	}
	return filtered, nil
}

func memberOf(column string, values []string) predicate {
	allowed := sets.New(values...)
	return func(table *core.Table, row int) (bool, error) {
		v, err := table.String(row, column)
		if err != nil {
			return false, err
		}
		return allowed.Has(v), nil
	}
}

func overlapsWith(column string, values []string) predicate {
	wanted := sets.New(values...)
	return func(table *core.Table, row int) (bool, error) {
		v, err := table.Strings(row, column)
		if err != nil {
			return false, err
		}
		return wanted.HasAny(v...), nil
	}
}

func contains(column, search string) predicate {
	pattern := compileSearch(search)
	return func(table *core.Table, row int) (bool, error) {
		v, err := table.String(row, column)
		if err != nil {
			return false, err
		}
		return pattern.MatchString(v), nil
	}
}

// compileSearch compiles a case-insensitive search. Searches that are not a
// valid regular expression match literally.
func compileSearch(search string) *regexp.Regexp {
	if re, err := regexp.Compile("(?i)" + search); err == nil {
		return re
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(search))
}

func isBlank(s string) bool {
	return strings.Trim(s, " ") == ""
}
