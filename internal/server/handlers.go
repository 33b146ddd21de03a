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


package server

import (
	"errors"
	"net/http"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/internal/filter"
	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/internal/optimizer"
	"github.com/programme-explorer/session-planner/internal/planner"
	"github.com/programme-explorer/session-planner/pkg/core"
)

func (s *Server) createPlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	cfg := s.settings.Config()
	if !cfg.Features.OptimizationEnabled() {
		writeError(w, http.StatusNotFound, v1alpha1.ReasonOptimizationDisabled, "optimization is disabled")
		return
	}

	var req v1alpha1.PlanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, v1alpha1.ReasonInvalidRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, v1alpha1.ReasonInvalidRequest, err.Error())
		return
	}

	prefs := s.settings.Preferences()
	if !prefs.HasProfile(req.Profile) {
		writeError(w, http.StatusBadRequest, v1alpha1.ReasonUnknownProfile, "unknown preferences profile "+req.Profile)
		return
	}

	table, ok := s.loadProgramme(w)
	if !ok {
		return
	}

	planReq := planner.RequestFromAPI(&req, prefs.GetProfile(req.Profile))
	if planReq.TimeLimit <= 0 {
		planReq.TimeLimit = cfg.Optimizer.TimeLimit
	}

	plan, err := s.planner.Plan(ctx, table, planReq)
	if err != nil {
		status, reason := classify(err)
		if status == http.StatusInternalServerError {
			logger.Error(err, "Failed to compute plan")
		}
		writeError(w, status, reason, err.Error())
		return
	}

	resp, err := planner.Response(plan, req.CalendarView)
	if err != nil {
		logger.Error(err, "Failed to render plan", "plan", plan.ID.String())
		writeError(w, http.StatusInternalServerError, v1alpha1.ReasonInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) timeslotsHandler(w http.ResponseWriter, _ *http.Request) {
	s.choices(w, filter.UniqueTimeslots)
}

func (s *Server) streamsHandler(w http.ResponseWriter, _ *http.Request) {
	s.choices(w, filter.UniqueStreams)
}

func (s *Server) keywordsHandler(w http.ResponseWriter, _ *http.Request) {
	s.choices(w, filter.UniqueKeywords)
}

func (s *Server) choices(w http.ResponseWriter, unique func(*core.Table) ([]string, error)) {
	table, ok := s.loadProgramme(w)
	if !ok {
		return
	}
	items, err := unique(table)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, v1alpha1.ReasonSchemaMismatch, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v1alpha1.ChoicesResponse{Items: items})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.programme.Programme(); err != nil {
		writeError(w, http.StatusServiceUnavailable, v1alpha1.ReasonProgrammeUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadProgramme(w http.ResponseWriter) (*core.Table, bool) {
	table, err := s.programme.Programme()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, v1alpha1.ReasonProgrammeUnavailable, err.Error())
		return nil, false
	}
	return table, true
}

// classify maps planner errors to a status code and reason.
func classify(err error) (int, string) {
	var schemaErr *optimizer.SchemaError
	var unknownErr *optimizer.UnknownSessionError
	switch {
	case errors.As(err, &schemaErr),
		errors.Is(err, core.ErrColumnNotFound),
		errors.Is(err, core.ErrTypeMismatch):
		return http.StatusUnprocessableEntity, v1alpha1.ReasonSchemaMismatch
	case errors.As(err, &unknownErr):
		return http.StatusNotFound, v1alpha1.ReasonUnknownSession
	case errors.Is(err, planner.ErrNoFeasiblePlan):
		return http.StatusConflict, v1alpha1.ReasonInfeasible
	default:
		return http.StatusInternalServerError, v1alpha1.ReasonInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, v1alpha1.ErrorResponse{Code: status, Reason: reason, Message: message})
}
