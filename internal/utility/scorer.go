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

// Package utility scores talks from visitor preferences.
package utility

import (
	"fmt"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/pkg/core"
)

// Scorer computes per-talk utility from a preferences profile.
type Scorer struct {
	prefs config.Preferences
}

// NewScorer returns a scorer for the effective preferences of a profile.
func NewScorer(prefs config.Preferences) *Scorer {
	return &Scorer{prefs: prefs}
}

// TalkUtility returns the utility of one talk: the paper override when one is
// configured, otherwise the base utility plus the stream weight plus the
// weight of every matching keyword.
func (s *Scorer) TalkUtility(paperID int64, stream string, keywords []string) float64 {
	if u, ok := s.prefs.Papers[paperID]; ok {
		return u
	}
	utility := s.prefs.BaseUtility() + s.prefs.Streams[stream]
	for _, kw := range keywords {
		utility += s.prefs.Keywords[kw]
	}
	return utility
}

// Score returns a copy of talks with the Utility column set.
func (s *Scorer) Score(talks *core.Table) (*core.Table, error) {
	values := make([]any, talks.Len())
	for row := range values {
		paperID, err := talks.Int(row, core.ColumnPaperID)
		if err != nil {
			return nil, fmt.Errorf("failed to score talk %d: %w", row, err)
		}
		stream, err := talks.String(row, core.ColumnStreamName)
		if err != nil {
			return nil, fmt.Errorf("failed to score talk %d: %w", row, err)
		}
		keywords, err := talks.Strings(row, core.ColumnKeywords)
		if err != nil {
			return nil, fmt.Errorf("failed to score talk %d: %w", row, err)
		}
		values[row] = s.TalkUtility(paperID, stream, keywords)
	}
	return talks.WithColumn(core.ColumnUtility, values)
}
