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
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/programme-explorer/session-planner/pkg/core"
	"github.com/programme-explorer/session-planner/pkg/solver"
)

type talk struct {
	session  core.SessionID
	timeslot int64
	schedule string
	utility  float64
}

func talkTable(talks ...talk) *core.Table {
	table := core.NewTable(RequiredColumns...)
	for _, t := range talks {
		err := table.AppendRow(
			fmt.Sprintf("Session %d", t.session),
			int64(t.session),
			"Stream",
			"TA-1",
			int64(10),
			t.timeslot,
			t.schedule,
			t.utility,
		)
		if err != nil {
			panic(err)
		}
	}
	return table
}

func ids(sessions []core.Session) []core.SessionID {
	out := make([]core.SessionID, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

// threeSessions is A@T1 (5), B@T1 (3), C@T2 (4).
func threeSessions() *core.Table {
	return talkTable(
		talk{session: 1, timeslot: 1, schedule: "Mon 09:00", utility: 5},
		talk{session: 2, timeslot: 1, schedule: "Mon 09:00", utility: 3},
		talk{session: 3, timeslot: 2, schedule: "Mon 11:00", utility: 4},
	)
}

var _ = Describe("Session selection", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("without forced sessions", func() {
		It("should pick the best session of every timeslot", func() {
			model, err := Build(ctx, threeSessions())
			Expect(err).NotTo(HaveOccurred())

			result := Solve(ctx, model, DefaultTimeLimit)
			Expect(result.Status()).To(Equal(solver.StatusOptimal))
			Expect(result.TimeLimitReached()).To(BeFalse())

			selected, err := SelectedSessions(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(selected)).To(ConsistOf(core.SessionID(1), core.SessionID(3)))
			Expect(core.TotalUtility(selected)).To(BeNumerically("~", 9, 1e-9))
			Expect(result.Objective()).To(BeNumerically("~", 9, 1e-6))
		})

		It("should return the same selection when solved twice", func() {
			model, err := Build(ctx, threeSessions())
			Expect(err).NotTo(HaveOccurred())

			first, err := SelectedSessions(Solve(ctx, model, 0))
			Expect(err).NotTo(HaveOccurred())
			second, err := SelectedSessions(Solve(ctx, model, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("should treat labels differing by surrounding spaces as one timeslot", func() {
			model, err := Build(ctx, talkTable(
				talk{session: 1, timeslot: 1, schedule: "Mon 09:00", utility: 5},
				talk{session: 2, timeslot: 1, schedule: "  Mon 09:00 ", utility: 4},
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(model.Problem().NumConstraints()).To(Equal(1))
			Expect(model.Problem().Constraints()[0].Name).To(Equal("at_most_one_session_in_timeslot_Mon 09:00"))

			selected, err := SelectedSessions(Solve(ctx, model, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(selected)).To(ConsistOf(core.SessionID(1)))
		})

		It("should solve an empty programme to an empty selection", func() {
			model, err := Build(ctx, talkTable())
			Expect(err).NotTo(HaveOccurred())

			result := Solve(ctx, model, 0)
			Expect(result.IsOptimal()).To(BeTrue())
			selected, err := SelectedSessions(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(selected).To(BeEmpty())
		})

		It("should treat the zero model as empty", func() {
			result := Solve(ctx, Model{}, 0)
			Expect(result.IsOptimal()).To(BeTrue())
			selected, err := SelectedSessions(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(selected).To(BeEmpty())
		})
	})

	Context("with forced sessions", func() {
		It("should attend a forced session over a better one", func() {
			model, err := Build(ctx, threeSessions())
			Expect(err).NotTo(HaveOccurred())

			forced, err := ForceSelection(model, []core.SessionID{2})
			Expect(err).NotTo(HaveOccurred())
			Expect(forced.Forced()).To(Equal([]core.SessionID{2}))

			result := Solve(ctx, forced, 0)
			Expect(result.Status()).To(Equal(solver.StatusOptimal))
			selected, err := SelectedSessions(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(selected)).To(ConsistOf(core.SessionID(2), core.SessionID(3)))
		})

		It("should leave the input model untouched", func() {
			model, err := Build(ctx, threeSessions())
			Expect(err).NotTo(HaveOccurred())

			_, err = ForceSelection(model, []core.SessionID{2})
			Expect(err).NotTo(HaveOccurred())
			Expect(model.Forced()).To(BeEmpty())

			selected, err := SelectedSessions(Solve(ctx, model, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(selected)).To(ConsistOf(core.SessionID(1), core.SessionID(3)))
		})

		It("should report infeasibility when two forced sessions share a timeslot", func() {
			model, err := Build(ctx, talkTable(
				talk{session: 1, timeslot: 1, schedule: "Mon 09:00", utility: 5},
				talk{session: 2, timeslot: 1, schedule: "Mon 09:00", utility: 3},
			))
			Expect(err).NotTo(HaveOccurred())

			forced, err := ForceSelection(model, []core.SessionID{1, 2})
			Expect(err).NotTo(HaveOccurred())

			result := Solve(ctx, forced, 0)
			Expect(result.Status()).To(Equal(solver.StatusInfeasible))
			Expect(result.IsInfeasible()).To(BeTrue())

			_, err = SelectedSessions(result)
			var unavailable *ResultsUnavailableError
			Expect(errors.As(err, &unavailable)).To(BeTrue())
			Expect(unavailable.Status).To(Equal(solver.StatusInfeasible))
		})

		It("should list every unknown id", func() {
			model, err := Build(ctx, threeSessions())
			Expect(err).NotTo(HaveOccurred())

			_, err = ForceSelection(model, []core.SessionID{98, 1, 99, 98})
			var unknown *UnknownSessionError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.IDs).To(Equal([]core.SessionID{98, 99}))
			Expect(err.Error()).To(ContainSubstring("98, 99"))
		})
	})

	Context("with a malformed programme", func() {
		It("should fail before solving when the utility column is missing", func() {
			table := core.NewTable(core.SessionLevelColumns...)
			Expect(table.AppendRow("Session 1", int64(1), "Stream", "TA-1", int64(10), int64(1), "Mon 09:00")).To(Succeed())

			model, err := Build(ctx, table)
			var schema *SchemaError
			Expect(errors.As(err, &schema)).To(BeTrue())
			Expect(schema.Missing).To(Equal([]string{core.ColumnUtility}))
			Expect(model.Problem().NumVariables()).To(BeZero())
		})

		It("should reject a utility of the wrong type", func() {
			table := core.NewTable(RequiredColumns...)
			Expect(table.AppendRow("Session 1", int64(1), "Stream", "TA-1", int64(10), int64(1), "Mon 09:00", "high")).To(Succeed())

			_, err := Build(ctx, table)
			var schema *SchemaError
			Expect(errors.As(err, &schema)).To(BeTrue())
			Expect(schema.Column).To(Equal(core.ColumnUtility))
			Expect(errors.Is(err, core.ErrTypeMismatch)).To(BeTrue())
		})

		It("should reject a non-finite utility", func() {
			_, err := Build(ctx, talkTable(talk{session: 1, timeslot: 1, schedule: "Mon 09:00", utility: math.NaN()}))
			var schema *SchemaError
			Expect(errors.As(err, &schema)).To(BeTrue())
			Expect(schema.Column).To(Equal(core.ColumnUtility))
		})
	})

	Context("on random programmes", func() {
		It("should match exhaustive enumeration", func() {
			rng := rand.New(rand.NewSource(42))
			for instance := 0; instance < 40; instance++ {
				n := 1 + rng.Intn(9)
				labels := 1 + rng.Intn(4)
				var talks []talk
				for i := 0; i < n; i++ {
					slot := rng.Intn(labels)
					t := talk{
						session:  core.SessionID(100 + i),
						timeslot: int64(slot),
						schedule: fmt.Sprintf("Day %d", slot),
						utility:  math.Round(rng.Float64()*20) / 2,
					}
					talks = append(talks, t)
					if rng.Intn(3) == 0 {
						t.utility = math.Round(rng.Float64()*20) / 2
						talks = append(talks, t)
					}
				}
				var force []core.SessionID
				for i := 0; i < n; i++ {
					if rng.Intn(5) == 0 {
						force = append(force, core.SessionID(100+i))
					}
				}

				model, err := Build(ctx, talkTable(talks...))
				Expect(err).NotTo(HaveOccurred())
				model, err = ForceSelection(model, force)
				Expect(err).NotTo(HaveOccurred())

				best, feasible := enumerate(model.Sessions(), force)
				result := Solve(ctx, model, 0)
				if !feasible {
					Expect(result.Status()).To(Equal(solver.StatusInfeasible), "instance %d", instance)
					continue
				}
				Expect(result.Status()).To(Equal(solver.StatusOptimal), "instance %d", instance)

				selected, err := SelectedSessions(result)
				Expect(err).NotTo(HaveOccurred())
				Expect(core.TotalUtility(selected)).To(BeNumerically("~", best, 1e-6), "instance %d", instance)

				perSlot := map[string]int{}
				for _, s := range selected {
					perSlot[s.Schedule]++
					Expect(perSlot[s.Schedule]).To(Equal(1), "instance %d", instance)
				}
				if len(force) > 0 {
					Expect(ids(selected)).To(ContainElements(force), "instance %d", instance)
				}
			}
		})
	})
})

// enumerate returns the best total utility over all assignments that attend
// at most one session per timeslot and every forced session.
func enumerate(sessions []core.Session, force []core.SessionID) (float64, bool) {
	best, feasible := math.Inf(-1), false
	for mask := 0; mask < 1<<len(sessions); mask++ {
		slots := map[string]bool{}
		chosen := map[core.SessionID]bool{}
		total, ok := 0.0, true
		for i, s := range sessions {
			if mask&(1<<i) == 0 {
				continue
			}
			label := timeslotLabel(s.Schedule)
			if slots[label] {
				ok = false
				break
			}
			slots[label] = true
			chosen[s.ID] = true
			total += s.Utility
		}
		for _, id := range force {
			ok = ok && chosen[id]
		}
		if ok && total > best {
			best, feasible = total, true
		}
	}
	return best, feasible
}
