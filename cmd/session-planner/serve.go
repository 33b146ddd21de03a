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


package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/spf13/cobra"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/internal/metrics"
	"github.com/programme-explorer/session-planner/internal/planner"
	"github.com/programme-explorer/session-planner/internal/programme"
	"github.com/programme-explorer/session-planner/internal/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, root)
		},
	}
	cmd.Flags().String("address", config.DefaultServerAddress, "listen address")
	root.bind(config.KeyServerAddress, cmd.Flags().Lookup("address"))
	return cmd
}

func serve(cmd *cobra.Command, root *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logging.FromContext(ctx)

	store := programme.NewStore(programme.NewCSVSource(root.config.Programme.Path))
	if err := store.Reload(ctx); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector("session_planner"),
	)
	emitter, err := metrics.NewEmitter(registry)
	if err != nil {
		return err
	}
	pl, err := planner.New(
		planner.WithEmitter(emitter),
		planner.WithDefaultTimeLimit(root.config.Optimizer.TimeLimit),
	)
	if err != nil {
		return err
	}

	settings := config.NewStore(root.config, root.preferences)
	if root.viper.ConfigFileUsed() != "" {
		// The programme export is reread with every config change.
		settings.Watch(ctx, root.viper, func(*config.Config) {
			if err := store.Reload(ctx); err != nil {
				logger.Error(err, "Failed to reload programme, keeping previous one")
			}
		})
	}

	return server.New(settings, store, pl, registry).Run(ctx)
}
