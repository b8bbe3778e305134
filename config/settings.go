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

package config

import (
	"fmt"
	"time"

	"rivaas.dev/apiversion"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

// Settings is the declarative form of an engine and its observability stack.
//
// Keys are snake_case in every format. A YAML example:
//
//	readers:
//	  - kind: url_segment
//	    pattern: /v{version}/
//	  - kind: header
//	    names: api-version
//	default_version: "1.0"
//	assume_default: true
//	selector:
//	  kind: current
//	report:
//	  enabled: true
//	sunset:
//	  - name: orders
//	    version: "1.0"
//	    effective: 2025-12-31T00:00:00Z
//	    links:
//	      - url: https://example.com/sunset
//	logging:
//	  level: debug
type Settings struct {
	Readers        []ReaderSettings `config:"readers" validate:"dive"`
	DefaultVersion string           `config:"default_version" default:"1.0" validate:"version"`
	Selector       SelectorSettings `config:"selector"`
	AssumeDefault  bool             `config:"assume_default"`
	EnforceSunset  bool             `config:"enforce_sunset"`
	Report         ReportSettings   `config:"report"`
	Sunset         []PolicySettings `config:"sunset" validate:"dive"`
	Deprecation    []PolicySettings `config:"deprecation" validate:"dive"`
	Headers        HeaderSettings   `config:"headers"`
	Logging        LoggingSettings  `config:"logging"`
	Metrics        MetricsSettings  `config:"metrics"`
	Tracing        TracingSettings  `config:"tracing"`
}

// ReaderSettings declares one carrier. Kind selects the carrier and decides
// which of the other fields is read:
//
//	query, header            names (list or comma separated)
//	url_segment              pattern, e.g. /v{version}/
//	route                    name of the route parameter
//	media_type               name of the media type parameter
//	media_template           pattern, e.g. application/vnd.acme.v{version}+json
type ReaderSettings struct {
	Kind    string   `config:"kind" validate:"required,oneof=query header url_segment route media_type media_template"`
	Name    string   `config:"name"`
	Names   []string `config:"names" validate:"dive,required"`
	Pattern string   `config:"pattern"`
}

// SelectorSettings picks the version assumed for unversioned requests.
type SelectorSettings struct {
	Kind           string `config:"kind" default:"constant" validate:"oneof=constant lowest current"`
	SkipPrerelease bool   `config:"skip_prerelease"`
}

// ReportSettings enables the supported and deprecated version headers.
type ReportSettings struct {
	Enabled           bool `config:"enabled"`
	IncludeAdvertised bool `config:"include_advertised"`
}

// PolicySettings declares a sunset or deprecation policy keyed by API name,
// version, or both.
type PolicySettings struct {
	Name      string         `config:"name" validate:"required_without=Version"`
	Version   string         `config:"version" validate:"omitempty,version"`
	Effective time.Time      `config:"effective"`
	Links     []LinkSettings `config:"links" validate:"dive"`
}

// LinkSettings is a documentation link attached to a policy.
type LinkSettings struct {
	URL      string `config:"url" validate:"required,url"`
	Rel      string `config:"rel"`
	Type     string `config:"type"`
	Title    string `config:"title"`
	Language string `config:"language"`
}

// HeaderSettings names the response headers.
type HeaderSettings struct {
	Supported  string `config:"supported" default:"api-supported-versions" validate:"header"`
	Deprecated string `config:"deprecated" default:"api-deprecated-versions" validate:"header"`
	Version    string `config:"version" validate:"omitempty,header"`
	Warning    bool   `config:"warning"`
}

// LoggingSettings configures the [logging] package.
type LoggingSettings struct {
	Handler     string `config:"handler" default:"json" validate:"oneof=json text console"`
	Level       string `config:"level" default:"info" validate:"level"`
	Source      bool   `config:"source"`
	Service     string `config:"service" default:"apiversion"`
	Version     string `config:"version"`
	Environment string `config:"environment"`
}

// MetricsSettings configures the [metrics] recorder. Nothing is recorded
// unless Enabled is set.
type MetricsSettings struct {
	Enabled        bool          `config:"enabled"`
	Provider       string        `config:"provider" default:"prometheus" validate:"oneof=prometheus otlp stdout"`
	Endpoint       string        `config:"endpoint" validate:"required_if=Provider otlp"`
	Service        string        `config:"service" default:"apiversion"`
	ExportInterval time.Duration `config:"export_interval" validate:"gte=0"`
}

// TracingSettings configures the [tracing] provider. A zero sample rate
// means every request is sampled; disable tracing to record nothing.
type TracingSettings struct {
	Enabled    bool    `config:"enabled"`
	Provider   string  `config:"provider" default:"stdout" validate:"oneof=noop stdout otlp-http"`
	Endpoint   string  `config:"endpoint" validate:"required_if=Provider otlp-http"`
	Service    string  `config:"service" default:"apiversion"`
	SampleRate float64 `config:"sample_rate" default:"1" validate:"gte=0,lte=1"`
}

// Carrier returns the reader carrier r declares.
func (r ReaderSettings) Carrier() (reader.Carrier, error) {
	var c reader.Carrier
	switch r.Kind {
	case "query":
		c = reader.Query(r.Names...)
	case "header":
		c = reader.Header(r.Names...)
	case "url_segment":
		c = reader.URLSegment(r.Pattern)
	case "route":
		c = reader.RouteParameter(r.Name)
	case "media_type":
		c = reader.MediaTypeParameter(r.Name)
	case "media_template":
		c = reader.MediaTypeTemplate(r.Pattern)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidReader, r.Kind)
	}
	if _, err := reader.New(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReader, err)
	}

	return c, nil
}

// Policy returns the sunset policy p declares.
func (p PolicySettings) Policy() (sunset.Policy, error) {
	opts := make([]sunset.PolicyOption, 0, len(p.Links)+1)
	if !p.Effective.IsZero() {
		opts = append(opts, sunset.EffectiveAt(p.Effective))
	}
	for _, l := range p.Links {
		var linkOpts []sunset.LinkOption
		if l.Rel != "" {
			linkOpts = append(linkOpts, sunset.LinkRel(l.Rel))
		}
		if l.Type != "" {
			linkOpts = append(linkOpts, sunset.LinkType(l.Type))
		}
		if l.Title != "" {
			linkOpts = append(linkOpts, sunset.LinkTitle(l.Title))
		}
		if l.Language != "" {
			linkOpts = append(linkOpts, sunset.LinkLanguage(l.Language))
		}
		opts = append(opts, sunset.WithLink(l.URL, linkOpts...))
	}

	return sunset.NewPolicy(opts...)
}

// Key returns the manager key of p.
func (p PolicySettings) Key() (sunset.Key, error) {
	key := sunset.Key{Name: p.Name}
	if p.Version != "" {
		v, err := version.Parse(p.Version)
		if err != nil {
			return sunset.Key{}, err
		}
		key.Version = v
	}

	return key, nil
}

func buildManager(field string, policies []PolicySettings) (*sunset.Manager, error) {
	b := sunset.NewBuilder()
	for i, ps := range policies {
		at := fmt.Sprintf("%s[%d]", field, i)
		key, err := ps.Key()
		if err != nil {
			return nil, NewFieldError("settings", at, "build", err)
		}
		p, err := ps.Policy()
		if err != nil {
			return nil, NewFieldError("settings", at, "build", err)
		}
		if err = b.Add(key, p); err != nil {
			return nil, NewFieldError("settings", at, "build", err)
		}
	}

	return b.Build(), nil
}

// Options translates s into engine options. Call [Settings.Validate] first
// when s was not produced by a [Loader].
func (s *Settings) Options() ([]apiversion.Option, error) {
	def, err := version.Parse(s.DefaultVersion)
	if err != nil {
		return nil, NewFieldError("settings", "default_version", "build", err)
	}

	opts := []apiversion.Option{
		apiversion.WithDefaultVersion(def),
		apiversion.WithHeaderNames(s.Headers.Supported, s.Headers.Deprecated),
	}

	if len(s.Readers) > 0 {
		carriers := make([]reader.Carrier, len(s.Readers))
		for i, r := range s.Readers {
			if carriers[i], err = r.Carrier(); err != nil {
				return nil, NewFieldError("settings", fmt.Sprintf("readers[%d]", i), "build", err)
			}
		}
		opts = append(opts, apiversion.WithReader(carriers...))
	}

	if s.AssumeDefault {
		opts = append(opts, apiversion.WithAssumeDefault(), apiversion.WithSelector(s.selector(def)))
	}
	if s.Report.Enabled {
		opts = append(opts, apiversion.WithReporting(s.Report.IncludeAdvertised))
	}

	if len(s.Sunset) > 0 {
		m, err := buildManager("sunset", s.Sunset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, apiversion.WithSunsetPolicies(m))
	}
	if len(s.Deprecation) > 0 {
		m, err := buildManager("deprecation", s.Deprecation)
		if err != nil {
			return nil, err
		}
		opts = append(opts, apiversion.WithDeprecationPolicies(m))
	}

	if s.Headers.Version != "" {
		opts = append(opts, apiversion.WithVersionHeader(s.Headers.Version))
	}
	if s.Headers.Warning {
		opts = append(opts, apiversion.WithWarning299())
	}
	if s.EnforceSunset {
		opts = append(opts, apiversion.WithSunsetEnforcement())
	}

	return opts, nil
}

func (s *Settings) selector(def version.Version) selector.Selector {
	switch s.Selector.Kind {
	case "lowest":
		return selector.LowestImplemented(def)
	case "current":
		var opts []selector.CurrentOption
		if s.Selector.SkipPrerelease {
			opts = append(opts, selector.SkipPrerelease())
		}
		return selector.CurrentImplementation(def, opts...)
	default:
		return selector.Constant(def)
	}
}
