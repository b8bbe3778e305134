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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"rivaas.dev/apiversion"
	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/middleware/versioning"
	"rivaas.dev/apiversion/reader"
)

var errNoCandidates = errors.New("at least one --candidate is required")

// ResolveOptions holds the flags of the resolve command.
type ResolveOptions struct {
	CheckOptions

	URL        string
	Headers    []string
	Candidates []string
	Now        string
	Output     string
	Trace      bool
}

// Report is the printed outcome of a dry-run resolution.
type Report struct {
	OK        bool              `json:"ok" yaml:"ok"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Candidate *int              `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Defaulted bool              `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
	Neutral   bool              `json:"neutral,omitempty" yaml:"neutral,omitempty"`
	Gone      bool              `json:"gone,omitempty" yaml:"gone,omitempty"`
	Error     *ReportError      `json:"error,omitempty" yaml:"error,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ReportError describes a rejected request.
type ReportError struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// NewResolveCommand dry-runs version resolution for a request against a set
// of candidate endpoints.
func NewResolveCommand() *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the API version of a request against candidate endpoints",
		Example: `  apiversion resolve --url "/orders?api-version=1.0" \
    --candidate "name=orders supports=2.0 deprecates=1.0"
  apiversion resolve --config settings.yaml -H "api-version: 2" \
    --candidate "supports=1.0" --candidate "supports=2.0" -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	opts.bindFlags(cmd)
	cmd.Flags().StringVar(&opts.URL, "url", "/", "Request URL or path")
	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, `Request header as "Name: value" (repeatable)`)
	cmd.Flags().StringArrayVar(&opts.Candidates, "candidate", nil, "Candidate endpoint declaration (repeatable)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "Evaluate policies at this RFC 3339 time")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print the resolution span to stdout")

	return cmd
}

func (o *ResolveOptions) request() (*http.Request, error) {
	req := httptest.NewRequest(http.MethodGet, o.URL, nil)
	for _, h := range o.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q", h)
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return req, nil
}

// Run resolves the request and writes a [Report].
func (o *ResolveOptions) Run(ctx context.Context, out io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(o.Candidates) == 0 {
		return errNoCandidates
	}
	if o.Output != "json" && o.Output != "yaml" {
		return fmt.Errorf("unknown output format %q", o.Output)
	}

	candidates := make([]matcher.Candidate, len(o.Candidates))
	for i, decl := range o.Candidates {
		if candidates[i], err = parseCandidate(decl, i); err != nil {
			return err
		}
	}

	req, err := o.request()
	if err != nil {
		return err
	}

	settings, err := o.load(ctx)
	if err != nil {
		return err
	}
	if o.Trace {
		settings.Tracing.Enabled = true
		settings.Tracing.Provider = "stdout"
	}

	var extra []apiversion.Option
	if o.Now != "" {
		now, perr := time.Parse(time.RFC3339, o.Now)
		if perr != nil {
			return fmt.Errorf("invalid --now: %w", perr)
		}
		extra = append(extra, apiversion.WithClock(func() time.Time { return now }))
	}

	stack, err := settings.Build(ctx, extra...)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, stack.Shutdown(ctx)) }()

	decision := stack.Engine.Resolve(ctx, reader.FromHTTP(req), candidates)

	return o.write(out, newReport(decision))
}

func newReport(d *apiversion.Decision) Report {
	r := Report{
		OK:        d.OK(),
		Name:      d.Name,
		Defaulted: d.Defaulted,
		Neutral:   d.Neutral,
		Gone:      d.Gone(),
	}
	if !d.Version.IsZero() {
		r.Version = d.Version.String()
	}
	if d.OK() {
		if idx, ok := d.Candidate.Handle.(int); ok {
			r.Candidate = &idx
		}
	}
	if err := versioning.Rejection(d); err != nil {
		kind := "sunset"
		if d.Err != nil {
			kind = d.Err.Kind.String()
		}
		r.Error = &ReportError{Kind: kind, Message: err.Error()}
	}

	h := http.Header{}
	d.WriteHeaders(h)
	if len(h) > 0 {
		r.Headers = make(map[string]string, len(h))
		for name := range h {
			r.Headers[name] = strings.Join(h.Values(name), ", ")
		}
	}

	return r
}

func (o *ResolveOptions) write(out io.Writer, r Report) error {
	if o.Output == "yaml" {
		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}
