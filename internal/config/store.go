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

package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/programme-explorer/session-planner/internal/logging"
)

// Store holds the live configuration and preferences of a running server.
// It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	config      *Config
	preferences PreferencesData
}

// NewStore returns a store holding cfg and prefs.
func NewStore(cfg *Config, prefs PreferencesData) *Store {
	if prefs == nil {
		prefs = make(PreferencesData)
	}
	return &Store{config: cfg, preferences: prefs}
}

// Config returns the current configuration. Callers must not modify it.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Preferences returns the current preferences. Callers must not modify them.
func (s *Store) Preferences() PreferencesData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferences
}

// Update replaces configuration and preferences together.
func (s *Store) Update(cfg *Config, prefs PreferencesData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.preferences = prefs
}

// Reload decodes the current values of v and rereads the preferences file.
// On failure the store keeps its previous contents.
func (s *Store) Reload(ctx context.Context, v *viper.Viper) error {
	cfg, err := Unmarshal(v)
	if err != nil {
		return err
	}
	prefs, err := LoadPreferences(ctx, cfg.Preferences.Path)
	if err != nil {
		return err
	}
	s.Update(cfg, prefs)
	return nil
}

// Watch reloads the store whenever the config file of v changes. onReload,
// if set, runs after every successful reload.
func (s *Store) Watch(ctx context.Context, v *viper.Viper, onReload func(*Config)) {
	logger := logging.FromContext(ctx)

	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("Config file changed", "file", e.Name, "op", e.Op.String())
		if err := s.Reload(ctx, v); err != nil {
			logger.Error(err, "Failed to reload config, keeping previous values")
			return
		}
		logger.V(logging.DEBUG).Info("Config reloaded",
			"profiles", s.Preferences().Profiles())
		if onReload != nil {
			onReload(s.Config())
		}
	})
	v.WatchConfig()
}
