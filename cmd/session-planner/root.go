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
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/programme-explorer/session-planner/internal/config"
	"github.com/programme-explorer/session-planner/internal/logging"
)

// rootOptions carries the settings shared by all commands. They are resolved
// once per invocation before the command runs.
type rootOptions struct {
	configFile string

	viper    *viper.Viper
	bindings map[string]*pflag.Flag

	config      *config.Config
	preferences config.PreferencesData
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		viper:    config.NewViper(),
		bindings: map[string]*pflag.Flag{},
	}

	cmd := &cobra.Command{
		Use:          "session-planner",
		Short:        "Plan which conference sessions to attend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.complete(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path of the config file")
	flags.String("programme", "", "path of the programme CSV export")
	flags.String("preferences", "", "path of the preferences YAML file")
	flags.String("log-level", "info", "log level: error, info, debug or trace")
	flags.Bool("log-development", false, "write human readable logs")
	opts.bind(config.KeyProgrammePath, flags.Lookup("programme"))
	opts.bind(config.KeyPreferencesPath, flags.Lookup("preferences"))
	opts.bind(config.KeyLogLevel, flags.Lookup("log-level"))
	opts.bind(config.KeyLogDevelopment, flags.Lookup("log-development"))

	cmd.AddCommand(
		newOptimizeCommand(opts),
		newChoicesCommand(opts, "timeslots", "List the schedule labels of the programme"),
		newChoicesCommand(opts, "streams", "List the streams of the programme"),
		newChoicesCommand(opts, "keywords", "List the keywords of the programme"),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func (o *rootOptions) bind(key string, flag *pflag.Flag) {
	o.bindings[key] = flag
}

// complete loads the configuration, installs the logger and reads the
// preferences file.
func (o *rootOptions) complete(cmd *cobra.Command) error {
	for key, flag := range o.bindings {
		if err := o.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	if o.configFile != "" {
		o.viper.SetConfigFile(o.configFile)
	}

	cfg, err := config.Load(o.viper)
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cfg.LoggingOptions())
	if err != nil {
		return err
	}
	ctx := logging.IntoContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	prefs, err := config.LoadPreferences(ctx, cfg.Preferences.Path)
	if err != nil {
		return err
	}
	o.config = cfg
	o.preferences = prefs

	logger.V(logging.DEBUG).Info("Loaded configuration",
		"programme", cfg.Programme.Path,
		"profiles", prefs.Profiles())
	return nil
}
