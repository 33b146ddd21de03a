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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/pkg/core"
)

// ErrNotLoaded is returned by a Store that has not loaded a programme yet.
var ErrNotLoaded = errors.New("programme not loaded")

// Reader provides read-only access to the current programme.
// This interface is used by the HTTP server and the CLI.
type Reader interface {
	// Programme returns the current talk table. Callers must not modify it.
	Programme() (*core.Table, error)

	// LoadedAt returns the time of the last successful load.
	LoadedAt() time.Time
}

// Store caches the programme of a Source. It is safe for concurrent use; a
// reload replaces the table atomically and a failed reload keeps the previous
// one.
type Store struct {
	source Source

	mu       sync.RWMutex
	table    *core.Table
	loadedAt time.Time
}

var _ Reader = (*Store)(nil)

// NewStore returns an empty store for source. Call Reload to load it.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Reload loads the programme from the source again.
func (s *Store) Reload(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	table, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload programme from %s: %w", s.source.Name(), err)
	}

	s.mu.Lock()
	s.table = table
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Info("Loaded programme", "source", s.source.Name(), "talks", table.Len())
	return nil
}

func (s *Store) Programme() (*core.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNotLoaded
	}
	return s.table, nil
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
