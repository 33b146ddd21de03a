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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Concurrency(t *testing.T) {
	store := NewStore(&Config{Optimizer: OptimizerConfig{TimeLimit: time.Minute}}, nil)
	assert.NotNil(t, store.Preferences())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(&Config{Optimizer: OptimizerConfig{TimeLimit: 30 * time.Second}}, PreferencesData{})
			store.Config()
			store.Preferences()
		}()
	}
	wg.Wait()

	assert.Equal(t, 30*time.Second, store.Config().Optimizer.TimeLimit)
}

func TestStore_Reload(t *testing.T) {
	ctx := context.Background()
	prefsPath := writeFile(t, "preferences.yaml", preferencesYAML)

	v := NewViper()
	v.Set(KeyProgrammePath, "programme.csv")
	v.Set(KeyPreferencesPath, prefsPath)

	store := NewStore(&Config{}, nil)
	require.NoError(t, store.Reload(ctx, v))
	assert.Equal(t, "programme.csv", store.Config().Programme.Path)
	assert.Equal(t, []string{"optimizer-fan"}, store.Preferences().Profiles())

	// An invalid configuration keeps the previous values.
	v.Set(KeyOptimizerTimeLimit, "-1s")
	assert.Error(t, store.Reload(ctx, v))
	assert.Equal(t, DefaultTimeLimit, store.Config().Optimizer.TimeLimit)
}
