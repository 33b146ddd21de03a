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

package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/pkg/core"
)

func TestScorer_TalkUtility(t *testing.T) {
	scorer := NewScorer(config.Preferences{
		DefaultUtility: ptr.To(1.0),
		Streams:        map[string]float64{"Healthcare": 2},
		Keywords:       map[string]float64{"Scheduling": 1.5, "Simulation": 0.5},
		Papers:         map[int64]float64{1007: 0},
	})

	tests := []struct {
		name     string
		paperID  int64
		stream   string
		keywords []string
		want     float64
	}{
		{name: "Test case 1: base utility only", paperID: 1, stream: "Routing", want: 1},
		{name: "Test case 2: stream weight", paperID: 1, stream: "Healthcare", want: 3},
		{name: "Test case 3: keyword weights add up", paperID: 1, stream: "Healthcare", keywords: []string{"Scheduling", "Simulation", "Other"}, want: 5},
		{name: "Test case 4: paper override wins", paperID: 1007, stream: "Healthcare", keywords: []string{"Simulation"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.TalkUtility(tt.paperID, tt.stream, tt.keywords), 1e-9)
		})
	}
}

func TestScorer_Score(t *testing.T) {
	talks := core.NewTable(core.ColumnPaperID, core.ColumnStreamName, core.ColumnKeywords)
	require.NoError(t, talks.AppendRow(int64(1), "Healthcare", []string{"Scheduling"}))
	require.NoError(t, talks.AppendRow(int64(2), "Routing", []string{}))

	scored, err := NewScorer(config.Preferences{
		Streams:  map[string]float64{"Healthcare": 2},
		Keywords: map[string]float64{"Scheduling": 1},
	}).Score(talks)
	require.NoError(t, err)

	first, err := scored.Float(0, core.ColumnUtility)
	require.NoError(t, err)
	assert.Equal(t, 4.0, first)
	second, err := scored.Float(1, core.ColumnUtility)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTalkUtility, second)
	assert.False(t, talks.HasColumn(core.ColumnUtility))
}

func TestScorer_ScoreMissingColumn(t *testing.T) {
	talks := core.NewTable(core.ColumnPaperID)
	require.NoError(t, talks.AppendRow(int64(1)))

	_, err := NewScorer(config.Preferences{}).Score(talks)
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}
