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
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rivaas.dev/apiversion/version"
)

// NewParseCommand prints the components of each version literal.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse VERSION...",
		Short: "Parse version literals and print their components",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				v, err := version.Parse(raw)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s\tcanonical=%s", raw, v)
				if g, ok := v.Group(); ok {
					fmt.Fprintf(out, " group=%s", g.Format("2006-01-02"))
				}
				if major, ok := v.Major(); ok {
					fmt.Fprintf(out, " major=%d", major)
				}
				if minor, ok := v.Minor(); ok {
					fmt.Fprintf(out, " minor=%d", minor)
				}
				if v.IsPrerelease() {
					fmt.Fprintf(out, " status=%s", v.Status())
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}
}

// NewFormatCommand renders versions with a format code.
func NewFormatCommand() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "format VERSION...",
		Short: "Render versions with a format code",
		Example: `  apiversion format --code "'v'V" 2.0
  apiversion format --code "yyyy/MM/dd" 2024-01-15`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := version.ParseAll(args...)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v.Format(code))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&code, "code", "c", "F", "Format code")

	return cmd
}

// NewCompareCommand compares two versions, or sorts several.
func NewCompareCommand() *cobra.Command {
	var sortOnly bool

	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Compare two versions, or sort versions with --sort",
		Args: func(cmd *cobra.Command, args []string) error {
			if sortOnly {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := version.ParseAll(args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if sortOnly {
				version.Sort(versions)
				for _, v := range versions {
					fmt.Fprintln(out, v)
				}
				return nil
			}

			c := version.Compare(versions[0], versions[1])
			rel := map[int]string{-1: "<", 0: "==", 1: ">"}[c]
			fmt.Fprintf(out, "%s %s %s\t%s\n", versions[0], rel, versions[1], strconv.Itoa(c))

			return nil
		},
	}

	cmd.Flags().BoolVar(&sortOnly, "sort", false, "Sort the given versions in ascending order")

	return cmd
}
