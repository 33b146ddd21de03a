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


package e2e

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/internal/calendar"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func postPlan(body string) (int, []byte) {
	resp, err := httpClient.Post(baseURL+"/api/v1/plans", "application/json", bytes.NewBufferString(body))
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp.StatusCode, data
}

func decodePlan(data []byte) v1alpha1.PlanResponse {
	var plan v1alpha1.PlanResponse
	Expect(json.Unmarshal(data, &plan)).To(Succeed())
	return plan
}

func selected(plan v1alpha1.PlanResponse) []int64 {
	ids := []int64{}
	for _, s := range plan.Sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

var _ = Describe("Session planning", Ordered, func() {
	It("lists the filter choices", func() {
		resp, err := httpClient.Get(baseURL + "/api/v1/timeslots")
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var choices v1alpha1.ChoicesResponse
		Expect(json.NewDecoder(resp.Body).Decode(&choices)).To(Succeed())
		Expect(choices.Items).To(HaveLen(3))
	})

	It("selects the best session of every timeslot", func() {
		code, data := postPlan(`{}`)
		Expect(code).To(Equal(http.StatusOK), string(data))

		plan := decodePlan(data)
		Expect(plan.Status).To(Equal("Optimal"))
		Expect(selected(plan)).To(Equal([]int64{102, 202, 302}))
		Expect(plan.TotalUtility).To(BeNumerically("~", 8, 1e-9))
		Expect(plan.Calendar).NotTo(BeNil())
		Expect(plan.Calendar.Events).To(HaveLen(3))
	})

	It("keeps must-attend sessions and marks them", func() {
		code, data := postPlan(`{"mustAttend": [301], "calendarView": "List"}`)
		Expect(code).To(Equal(http.StatusOK), string(data))

		plan := decodePlan(data)
		Expect(selected(plan)).To(Equal([]int64{102, 202, 301}))
		Expect(plan.Sessions[2].MustAttend).To(BeTrue())
		Expect(plan.Calendar.View).To(Equal(v1alpha1.ViewList))
		Expect(plan.Calendar.Events[2].Color).To(Equal(calendar.ColorMustAttend))
	})

	It("reports conflicting must-attend sessions", func() {
		code, data := postPlan(`{"mustAttend": [201, 202]}`)
		Expect(code).To(Equal(http.StatusConflict))

		var errResp v1alpha1.ErrorResponse
		Expect(json.Unmarshal(data, &errResp)).To(Succeed())
		Expect(errResp.Reason).To(Equal(v1alpha1.ReasonInfeasible))
		Expect(errResp.Message).To(ContainSubstring("relaxing the must-attend selection"))
	})

	It("exports solver metrics", func() {
		resp, err := httpClient.Get(baseURL + "/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`session_planner_solves_total{status="Infeasible"}`))
		Expect(string(body)).To(ContainSubstring(`session_planner_solves_total{status="Optimal"}`))
	})

	It("picks up new preference profiles when the config file changes", func() {
		if externalURL != "" {
			Skip("hot reload needs the in-process server")
		}

		code, _ := postPlan(`{"profile": "healthcare"}`)
		Expect(code).To(Equal(http.StatusBadRequest))

		By("adding a profile and touching the config file")
		updated := initialPreferences + `
healthcare:
  streams:
    Healthcare: 5
`
		Expect(os.WriteFile(prefsPath, []byte(updated), 0o600)).To(Succeed())
		Expect(writeConfig("20s")).To(Succeed())

		Eventually(func(g Gomega) {
			code, data := postPlan(`{"profile": "healthcare"}`)
			g.Expect(code).To(Equal(http.StatusOK), string(data))
			g.Expect(selected(decodePlan(data))).To(Equal([]int64{102, 202, 301}))
		}, 15*time.Second, 250*time.Millisecond).Should(Succeed())
	})
})
