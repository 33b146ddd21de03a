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

package filter

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/programme-explorer/session-planner/pkg/core"
)

// UniqueTimeslots returns the schedule labels of the programme in order of
// first appearance.
func UniqueTimeslots(table *core.Table) ([]string, error) {
	seen := sets.New[string]()
	var labels []string
	for row := 0; row < table.Len(); row++ {
		label, err := table.String(row, core.ColumnSchedule)
		if err != nil {
			return nil, err
		}
		if seen.Has(label) {
			continue
		}
		seen.Insert(label)
		labels = append(labels, label)
	}
	return labels, nil
}

// UniqueStreams returns the sorted stream names of the programme.
func UniqueStreams(table *core.Table) ([]string, error) {
	streams := sets.New[string]()
	for row := 0; row < table.Len(); row++ {
		name, err := table.String(row, core.ColumnStreamName)
		if err != nil {
			return nil, err
		}
		streams.Insert(name)
	}
	return sets.List(streams), nil
}

// UniqueKeywords returns the sorted keywords used by any talk.
func UniqueKeywords(table *core.Table) ([]string, error) {
	keywords := sets.New[string]()
	for row := 0; row < table.Len(); row++ {
		kws, err := table.Strings(row, core.ColumnKeywords)
		if err != nil {
			return nil, err
		}
		keywords.Insert(kws...)
	}
	return sets.List(keywords), nil
}
