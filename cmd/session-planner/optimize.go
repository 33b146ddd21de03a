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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/programme-explorer/session-planner/api/v1alpha1"
	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/planner"
	"github.com/programme-explorer/session-planner/internal/programme"
)

const (
	outputTable    = "table"
	outputJSON     = "json"
	outputCalendar = "calendar"
)

var errOptimizationDisabled = errors.New("optimization is disabled by features.showOptimization")

type optimizeOptions struct {
	request v1alpha1.PlanRequest
	output  string
}

func newOptimizeCommand(root *rootOptions) *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute the plan with the highest total utility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, root)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.request.Timeslots, "timeslot", nil, "only plan the given schedule label (repeatable)")
	flags.StringArrayVar(&opts.request.Streams, "stream", nil, "only plan sessions of the given stream (repeatable)")
	flags.StringArrayVar(&opts.request.Keywords, "keyword", nil, "only plan talks with the given keyword (repeatable)")
	flags.StringVar(&opts.request.TitleSearch, "title", "", "case-insensitive pattern talk titles must match")
	flags.StringVar(&opts.request.AbstractSearch, "abstract", "", "case-insensitive pattern talk abstracts must match")
	flags.Int64SliceVar(&opts.request.MustAttend, "must-attend", nil, "session ids the plan must contain")
	flags.StringVar(&opts.request.Profile, "profile", "", "preferences profile used to score talks")
	flags.StringVar(&opts.request.CalendarView, "view", v1alpha1.ViewWeek, "calendar view: Week or List")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or calendar")
	flags.Duration("time-limit", config.DefaultTimeLimit, "solver time limit")
	root.bind(config.KeyOptimizerTimeLimit, flags.Lookup("time-limit"))

	return cmd
}

func (o *optimizeOptions) run(cmd *cobra.Command, root *rootOptions) error {
	ctx := cmd.Context()

	switch o.output {
	case outputTable, outputJSON, outputCalendar:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
	if !root.config.Features.OptimizationEnabled() {
		return errOptimizationDisabled
	}
	if err := o.request.Validate(); err != nil {
		return err
	}
	if !root.preferences.HasProfile(o.request.Profile) {
		return fmt.Errorf("%w %q", config.ErrUnknownProfile, o.request.Profile)
	}

	table, err := programme.NewCSVSource(root.config.Programme.Path).Load(ctx)
	if err != nil {
		return err
	}
	pl, err := planner.New(planner.WithDefaultTimeLimit(root.config.Optimizer.TimeLimit))
	if err != nil {
		return err
	}

	plan, err := pl.Plan(ctx, table, planner.RequestFromAPI(&o.request, root.preferences.GetProfile(o.request.Profile)))
	if err != nil {
		return err
	}
	resp, err := planner.Response(plan, o.request.CalendarView)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch o.output {
	case outputJSON:
		return writeJSON(out, resp)
	case outputCalendar:
		return writeCalendar(out, resp)
	default:
		return writeTable(out, resp)
	}
}
