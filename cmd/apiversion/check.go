// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rivaas.dev/apiversion/config"
)

// CheckOptions holds the flags of the check command.
type CheckOptions struct {
	Config    string
	EnvPrefix string
}

// NewCheckCommand validates a settings file and prints what it configures.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a settings file",
		Long:  `Load settings from a file and the environment, validate them and build the engine without serving.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	opts.bindFlags(cmd)

	return cmd
}

func (o *CheckOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Config, "config", "", "Path to a YAML, JSON or TOML settings file")
	cmd.Flags().StringVar(&o.EnvPrefix, "env-prefix", config.DefaultEnvPrefix, "Prefix of settings environment variables")
}

func (o *CheckOptions) load(ctx context.Context) (*config.Settings, error) {
	var opts []config.Option
	if o.Config != "" {
		opts = append(opts, config.WithFile(o.Config))
	}
	opts = append(opts, config.WithEnv(o.EnvPrefix), config.WithConsulTree("apiversion/settings"))

	loader, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	return loader.Load(ctx)
}

// Run loads and validates the settings.
func (o *CheckOptions) Run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := o.load(ctx)
	if err != nil {
		return err
	}
	if _, err := settings.Options(); err != nil {
		return err
	}

	fmt.Fprintln(out, "settings OK")
	fmt.Fprintf(out, "  default version: %s\n", settings.DefaultVersion)
	fmt.Fprintf(out, "  assume default:  %t (selector %s)\n", settings.AssumeDefault, settings.Selector.Kind)
	if len(settings.Readers) == 0 {
		fmt.Fprintln(out, "  readers:         query api-version")
	}
	for _, r := range settings.Readers {
		c, _ := r.Carrier()
		fmt.Fprintf(out, "  reader:          %s %s\n", c.Kind(), c.Name())
	}
	fmt.Fprintf(out, "  reporting:       %t\n", settings.Report.Enabled)
	fmt.Fprintf(out, "  sunset policies: %d (enforced %t)\n", len(settings.Sunset), settings.EnforceSunset)
	fmt.Fprintf(out, "  deprecations:    %d\n", len(settings.Deprecation))

	return nil
}
