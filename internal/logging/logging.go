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

// Package logging configures the process-wide structured logger.
//
// Components obtain their logger from the context with FromContext and log at
// the verbosity constants defined here:
//
//	logger := logging.FromContext(ctx)
//	logger.V(logging.DEBUG).Info("Built session model", "sessions", n)
package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

// Verbosity levels passed to logr.Logger.V.
const (
	DEBUG = 1
	TRACE = 2
)

// Options selects the logger flavour.
type Options struct {
	// Level is one of error, info, debug or trace.
	Level string
	// Development switches to human readable console output.
	Development bool
}

// NewLogger builds a zap-backed logr.Logger.
func NewLogger(opts Options) (logr.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = !opts.Development

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// Setup builds a logger and installs it as the process-wide logger.
func Setup(opts Options) (logr.Logger, error) {
	logger, err := NewLogger(opts)
	if err != nil {
		return logger, err
	}
	logf.SetLogger(logger)
	return logger, nil
}

// NewTestLogger installs a development logger at debug verbosity for test suites.
func NewTestLogger() logr.Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		zl = zap.NewNop()
	}
	logger := zapr.NewLogger(zl)
	logf.SetLogger(logger)
	return logger
}

// ParseLevel maps a level name to the zap level logr verbosities translate to.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "debug":
		return zapcore.Level(-DEBUG), nil
	case "trace":
		return zapcore.Level(-TRACE), nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// FromContext returns the logger stored in ctx, or the process-wide logger.
func FromContext(ctx context.Context, keysAndValues ...any) logr.Logger {
	return logf.FromContext(ctx, keysAndValues...)
}

// IntoContext stores logger in ctx.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logf.IntoContext(ctx, logger)
}
