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

// Package metrics exposes optimizer metrics to Prometheus.
//
// The emitter records one observation set per solve:
//
//	session_planner_solves_total{status="Optimal"} 12
//	session_planner_solve_duration_seconds_bucket{status="Optimal",le="0.1"} 11
//	session_planner_selected_sessions 9
//	session_planner_objective_value 27.5
//	session_planner_search_nodes_bucket{le="1"} 12
//
// Metrics are served on the /metrics endpoint of the HTTP server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/programme-explorer/session-planner/pkg/solver"
)

const (
	namespace = "session_planner"

	labelStatus = "status"
)

// Emitter records optimizer metrics.
type Emitter struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	selected prometheus.Gauge
	utility  prometheus.Gauge
	nodes    prometheus.Histogram
}

// NewEmitter creates the optimizer metrics and registers them on reg.
func NewEmitter(reg prometheus.Registerer) (*Emitter, error) {
	e := &Emitter{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Number of optimizer solves by terminal status.",
		}, []string{labelStatus}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of optimizer solves.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{labelStatus}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_sessions",
			Help:      "Number of sessions selected by the last optimal solve.",
		}),
		utility: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective_value",
			Help:      "Total utility of the last optimal solve.",
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_nodes",
			Help:      "Branch-and-bound nodes evaluated per solve.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{e.solves, e.duration, e.selected, e.utility, e.nodes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RecordSolve records the outcome of one solve. Selection size and objective
// are only updated for optimal solves.
func (e *Emitter) RecordSolve(status solver.Status, duration time.Duration, selected int, objective float64, nodes int) {
	e.solves.WithLabelValues(status.String()).Inc()
	e.duration.WithLabelValues(status.String()).Observe(duration.Seconds())
	e.nodes.Observe(float64(nodes))
	if status == solver.StatusOptimal {
		e.selected.Set(float64(selected))
		e.utility.Set(objective)
	}
}
