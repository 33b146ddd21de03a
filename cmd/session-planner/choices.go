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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/programme-explorer/session-planner/internal/filter"
	"github.com/programme-explorer/session-planner/internal/programme"
	"github.com/programme-explorer/session-planner/pkg/core"
)

var choiceListers = map[string]func(*core.Table) ([]string, error){
	"timeslots": filter.UniqueTimeslots,
	"streams":   filter.UniqueStreams,
	"keywords":  filter.UniqueKeywords,
}

// newChoicesCommand lists the values one filter flag accepts.
func newChoicesCommand(root *rootOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, ok := choiceListers[name]
			if !ok {
				return fmt.Errorf("unknown choice list %q", name)
			}
			table, err := programme.NewCSVSource(root.config.Programme.Path).Load(cmd.Context())
			if err != nil {
				return err
			}
			items, err := list(table)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintln(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}
}
