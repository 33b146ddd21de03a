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

package programme

import (
	"context"
	"fmt"
	"os"

	"github.com/programme-explorer/session-planner/pkg/core"
)

// Source is a pluggable provider of the programme table.
type Source interface {
	// Name identifies the source in logs (e.g. "csv:/data/programme.csv").
	Name() string

	// Load returns the complete normalized programme. Every call reads the
	// underlying data again.
	Load(ctx context.Context) (*core.Table, error)
}

// CSVSource reads the programme export from a CSV file.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Load(ctx context.Context) (*core.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open programme %s: %w", s.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	table, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load programme %s: %w", s.path, err)
	}
	return table, nil
}

// StaticSource serves an already built table.
type StaticSource struct {
	name  string
	table *core.Table
}

// NewStaticSource returns a source that always yields a copy of table.
func NewStaticSource(name string, table *core.Table) *StaticSource {
	return &StaticSource{name: name, table: table}
}

func (s *StaticSource) Name() string {
	return s.name
}

func (s *StaticSource) Load(_ context.Context) (*core.Table, error) {
	if s.table == nil {
		return nil, ErrEmptyProgramme
	}
	return s.table.Clone(), nil
}
