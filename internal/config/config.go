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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/ptr"

	"github.com/programme-explorer/session-planner/internal/logging"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. PLANNER_SERVER_ADDRESS.
	EnvPrefix = "PLANNER"

	DefaultServerAddress = ":8080"
	DefaultTimeLimit     = 60 * time.Second

	// MaxTimeLimit bounds the time limit of a single solve.
	MaxTimeLimit = 10 * time.Minute
)

// Config keys.
const (
	KeyProgrammePath      = "programme.path"
	KeyOptimizerTimeLimit = "optimizer.timeLimit"
	KeyServerAddress      = "server.address"
	KeyAllowedOrigins     = "server.allowedOrigins"
	KeyLogLevel           = "logging.level"
	KeyLogDevelopment     = "logging.development"
	KeyShowOptimization   = "features.showOptimization"
	KeyPreferencesPath    = "preferences.path"
)

var errNoProgramme = errors.New("programme.path must be set")

// Config is the application configuration.
type Config struct {
	Programme   ProgrammeConfig   `mapstructure:"programme"`
	Optimizer   OptimizerConfig   `mapstructure:"optimizer"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Features    FeatureConfig     `mapstructure:"features"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

type ProgrammeConfig struct {
	// Path of the programme CSV export.
	Path string `mapstructure:"path"`
}

type OptimizerConfig struct {
	// TimeLimit bounds each solve.
	TimeLimit time.Duration `mapstructure:"timeLimit"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// FeatureConfig holds feature toggles.
type FeatureConfig struct {
	// ShowOptimization enables plan computation. Nil means enabled.
	ShowOptimization *bool `mapstructure:"showOptimization"`
}

// OptimizationEnabled reports whether plans may be computed.
func (f FeatureConfig) OptimizationEnabled() bool {
	return ptr.Deref(f.ShowOptimization, true)
}

type PreferencesConfig struct {
	// Path of the YAML preferences file. Empty disables preferences.
	Path string `mapstructure:"path"`
}

// LoggingOptions converts the logging section for logging.NewLogger.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, Development: c.Logging.Development}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Programme.Path == "" {
		errs = append(errs, errNoProgramme)
	}
	if c.Optimizer.TimeLimit <= 0 || c.Optimizer.TimeLimit > MaxTimeLimit {
		errs = append(errs, fmt.Errorf("optimizer.timeLimit must be in (0, %s], got %s", MaxTimeLimit, c.Optimizer.TimeLimit))
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return utilerrors.NewAggregate(errs)
}

// NewViper returns a viper instance with defaults and environment overrides
// registered.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProgrammePath, "")
	v.SetDefault(KeyOptimizerTimeLimit, DefaultTimeLimit)
	v.SetDefault(KeyServerAddress, DefaultServerAddress)
	v.SetDefault(KeyAllowedOrigins, []string{"*"})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyShowOptimization, true)
	v.SetDefault(KeyPreferencesPath, "")
}

// Load reads the config file of v, if one is set, and returns the validated
// configuration.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return Unmarshal(v)
}

// Unmarshal decodes and validates the current values of v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
