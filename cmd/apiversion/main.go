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

// Command apiversion inspects API version literals and dry-runs version
// resolution against a settings file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	command := NewRootCommand()
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand returns the apiversion command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apiversion [command]",
		Short:         "API version policy tools",
		Long:          "Parse, format and compare API versions, validate settings and dry-run version resolution.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewParseCommand())
	cmd.AddCommand(NewFormatCommand())
	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewResolveCommand())

	return cmd
}
