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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/ptr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PLANNER_PROGRAMME_PATH", "/data/programme.csv")

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "/data/programme.csv", cfg.Programme.Path)
	assert.Equal(t, DefaultTimeLimit, cfg.Optimizer.TimeLimit)
	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Features.OptimizationEnabled())
	assert.Empty(t, cfg.Preferences.Path)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "planner.yaml", `
programme:
  path: /data/programme.csv
optimizer:
  timeLimit: 30s
server:
  allowedOrigins:
    - https://calendar.example.org
logging:
  level: debug
features:
  showOptimization: false
`)
	v := NewViper()
	v.SetConfigFile(path)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Optimizer.TimeLimit)
	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
	assert.Equal(t, []string{"https://calendar.example.org"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Features.OptimizationEnabled())
	assert.Equal(t, "debug", cfg.LoggingOptions().Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "planner.yaml", "programme:\n  path: /data/programme.csv\noptimizer:\n  timeLimit: 30s\n")
	t.Setenv("PLANNER_OPTIMIZER_TIMELIMIT", "90s")
	t.Setenv("PLANNER_SERVER_ADDRESS", ":9090")

	v := NewViper()
	v.SetConfigFile(path)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Optimizer.TimeLimit)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoad_MissingFile(t *testing.T) {
	v := NewViper()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load(v)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantErrors int
	}{
		{
			name: "Test case 1: valid config",
			config: Config{
				Programme: ProgrammeConfig{Path: "programme.csv"},
				Optimizer: OptimizerConfig{TimeLimit: time.Minute},
				Server:    ServerConfig{Address: ":8080"},
			},
		},
		{
			name: "Test case 2: time limit above maximum",
			config: Config{
				Programme: ProgrammeConfig{Path: "programme.csv"},
				Optimizer: OptimizerConfig{TimeLimit: time.Hour},
				Server:    ServerConfig{Address: ":8080"},
			},
			wantErrors: 1,
		},
		{
			name: "Test case 3: every problem is reported",
			config: Config{
				Logging: LoggingConfig{Level: "verbose"},
			},
			wantErrors: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErrors == 0 {
				assert.NoError(t, err)
				return
			}
			var agg utilerrors.Aggregate
			require.True(t, errors.As(err, &agg))
			assert.Len(t, agg.Errors(), tt.wantErrors)
		})
	}
}

func TestFeatureConfig_OptimizationEnabled(t *testing.T) {
	assert.True(t, FeatureConfig{}.OptimizationEnabled())
	assert.True(t, FeatureConfig{ShowOptimization: ptr.To(true)}.OptimizationEnabled())
	assert.False(t, FeatureConfig{ShowOptimization: ptr.To(false)}.OptimizationEnabled())
}
