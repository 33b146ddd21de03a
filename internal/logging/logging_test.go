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

package logging

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "", want: zapcore.InfoLevel},
		{name: "INFO", want: zapcore.InfoLevel},
		{name: "error", want: zapcore.ErrorLevel},
		{name: "debug", want: zapcore.DebugLevel},
		{name: " trace ", want: zapcore.Level(-2)},
		{name: "verbose", want: zapcore.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Options{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.V(DEBUG).Enabled())
	assert.False(t, logger.V(TRACE).Enabled())

	_, err = NewLogger(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	logger := logr.Discard().WithName("planner")
	ctx := IntoContext(context.Background(), logger)
	assert.Equal(t, logger, FromContext(ctx))
}
