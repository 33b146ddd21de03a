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

// Package server exposes the planner over HTTP.
//
// Routes:
//
//	POST /api/v1/plans       compute a plan (v1alpha1.PlanRequest → v1alpha1.PlanResponse)
//	GET  /api/v1/timeslots   schedule labels in programme order
//	GET  /api/v1/streams     sorted stream names
//	GET  /api/v1/keywords    sorted keywords
//	GET  /healthz            200 once the programme is loaded
//	GET  /metrics            Prometheus metrics
//
// Errors are returned as v1alpha1.ErrorResponse documents.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/internal/planner"
	"github.com/programme-explorer/session-planner/internal/programme"
)

const shutdownTimeout = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server is the planner HTTP API.
type Server struct {
	router    *mux.Router
	settings  *config.Store
	programme programme.Reader
	planner   *planner.Planner
	gatherer  prometheus.Gatherer
}

// New returns a server reading live settings from settings. Metrics are
// served from gatherer.
func New(settings *config.Store, prog programme.Reader, pl *planner.Planner, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		settings:  settings,
		programme: prog,
		planner:   pl,
		gatherer:  gatherer,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(loggingMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/plans", s.createPlanHandler).Methods(http.MethodPost)
	api.HandleFunc("/timeslots", s.timeslotsHandler).Methods(http.MethodGet)
	api.HandleFunc("/streams", s.streamsHandler).Methods(http.MethodGet)
	api.HandleFunc("/keywords", s.keywordsHandler).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS handling for the configured
// origins.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.settings.Config().Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	addr := s.settings.Config().Server.Address

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.FromContext(r.Context()).WithValues("method", r.Method, "path", r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(logging.IntoContext(r.Context(), logger)))

		logger.V(logging.DEBUG).Info("Handled request",
			"status", rec.status,
			"duration", time.Since(start))
	})
}
