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

package apiversion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/metrics"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

const (
	instrumentationName = "rivaas.dev/apiversion"
	spanName            = "apiversion.Resolve"
)

// Engine resolves the API version of requests and selects the endpoint that
// serves them. An Engine is immutable and safe for concurrent use.
type Engine struct {
	config  *Config
	reader  *reader.Reader
	matcher *matcher.Matcher
	tracer  trace.Tracer
}

// New creates an engine with the given options.
//
// Example:
//
//	engine, err := apiversion.New(
//	    apiversion.WithReader(reader.Header("api-version")),
//	    apiversion.WithAssumeDefault(),
//	    apiversion.WithReporting(false),
//	)
func New(opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	rd, err := reader.New(cfg.carriers...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var matchOpts []matcher.Option
	if cfg.assumeDefault {
		matchOpts = append(matchOpts, matcher.WithDefaultSelection(cfg.selector))
	}
	m, err := matcher.New(matchOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Engine{
		config:  cfg,
		reader:  rd,
		matcher: m,
		tracer:  cfg.tracerProvider.Tracer(instrumentationName),
	}, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("apiversion: %v", err))
	}

	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Reader returns the reader requests are read with.
func (e *Engine) Reader() *reader.Reader {
	return e.reader
}

// Resolve reads the requested version from req and selects one of the
// candidate endpoints. It never panics on request input and always returns
// a non-nil Decision.
func (e *Engine) Resolve(ctx context.Context, req reader.Request, candidates []matcher.Candidate) *Decision {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	read := e.reader.Read(req)
	res := e.matcher.Match(read, candidates)
	models := matcher.Models(candidates)

	d := &Decision{
		Result: res,
		Read:   read,
		Name:   apiName(res, models),
		Vary:   e.reader.VaryHeaders(),
		now:    e.config.now(),
		cfg:    e.config,
	}
	if e.config.report {
		d.SupportedVersions, d.DeprecatedVersions = model.Report(models, e.config.includeAdvertised)
	}
	e.applyPolicies(d)

	e.observe(ctx, d, time.Since(start))
	e.annotate(span, d)

	return d
}

// applyPolicies attaches the sunset and deprecation policies of the
// decision, whether or not it matched. Without a version only name-keyed
// policies apply. Policies never change the match outcome.
func (e *Engine) applyPolicies(d *Decision) {
	v := d.Version
	if v.IsNeutral() {
		v = version.Version{}
	}
	if v.IsZero() && d.Name == "" {
		return
	}

	if p, ok := e.lookup(e.config.sunsets, d.Name, v); ok {
		d.Sunset = &p
	}
	if d.Deprecated {
		p, _ := e.lookup(e.config.deprecations, d.Name, v)
		d.Deprecation = &p
	}
}

func (e *Engine) lookup(m *sunset.Manager, name string, v version.Version) (sunset.Policy, bool) {
	p, ok, err := m.TryGetPolicy(name, v)
	if err != nil {
		e.config.logger.Debug("policy lookup failed", "api", name, "version", v.String(), "error", err)
		return sunset.Policy{}, false
	}

	return p, ok
}

func (e *Engine) observe(ctx context.Context, d *Decision, elapsed time.Duration) {
	cfg := e.config
	carrier := ""
	if src, ok := d.Read.Source(); ok {
		carrier = src.Kind.String()
	}

	if !d.Read.Found() && d.Read.Err == nil {
		e.notifyMissing()
	}

	outcome := "ok"
	if d.OK() {
		e.notifyResolved(d.Version.String(), carrier)
		cfg.logger.LogAttrs(ctx, slog.LevelDebug, "api version resolved",
			slog.String("api", d.Name),
			slog.String("version", d.Version.String()),
			slog.String("carrier", carrier),
			slog.Bool("defaulted", d.Defaulted),
			slog.Bool("neutral", d.Neutral),
		)
		if d.Deprecated {
			e.notifyDeprecatedUse(d.Version.String(), d.Name)
			cfg.logger.LogAttrs(ctx, slog.LevelWarn, "deprecated api version used",
				slog.String("api", d.Name),
				slog.String("version", d.Version.String()),
			)
		}
		if d.Gone() {
			cfg.logger.LogAttrs(ctx, slog.LevelWarn, "api version past sunset",
				slog.String("api", d.Name),
				slog.String("version", d.Version.String()),
				slog.Time("sunset", d.Sunset.Effective),
			)
		}
	} else {
		kind := matcher.KindNoCandidates
		if d.Err != nil {
			kind = d.Err.Kind
		}
		outcome = kind.String()
		e.notifyRejected(kind)
		cfg.logger.LogAttrs(ctx, slog.LevelWarn, "api version rejected",
			slog.String("api", d.Name),
			slog.String("reason", outcome),
			slog.String("requested", strings.Join(d.Read.Raw(), ",")),
		)
	}

	cfg.recorder.RecordResolution(ctx, metrics.Outcome{
		Result:     outcome,
		Version:    d.Version.String(),
		Carrier:    carrier,
		Deprecated: d.Deprecated,
		Defaulted:  d.Defaulted,
		Neutral:    d.Neutral,
		Gone:       d.Gone(),
		Duration:   elapsed,
	})
}

func (e *Engine) annotate(span trace.Span, d *Decision) {
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.StringSlice("apiversion.requested", d.Read.Raw()),
		attribute.Bool("apiversion.defaulted", d.Defaulted),
		attribute.Bool("apiversion.deprecated", d.Deprecated),
	)
	if d.Name != "" {
		span.SetAttributes(attribute.String("apiversion.api", d.Name))
	}
	if d.OK() {
		span.SetAttributes(attribute.String("apiversion.version", d.Version.String()))
		if d.Gone() {
			span.AddEvent("sunset")
		}
		return
	}

	kind := matcher.KindNoCandidates
	if d.Err != nil {
		kind = d.Err.Kind
	}
	span.SetAttributes(attribute.String("apiversion.rejected", kind.String()))
	switch kind {
	case matcher.KindAmbiguousMatch, matcher.KindNoCandidates:
		span.SetStatus(codes.Error, kind.String())
	}
}

func (e *Engine) notifyResolved(v, carrier string) {
	if e.config.observer != nil && e.config.observer.OnResolved != nil {
		e.config.observer.OnResolved(v, carrier)
	}
}

func (e *Engine) notifyMissing() {
	if e.config.observer != nil && e.config.observer.OnMissing != nil {
		e.config.observer.OnMissing()
	}
}

func (e *Engine) notifyRejected(kind matcher.Kind) {
	if e.config.observer != nil && e.config.observer.OnRejected != nil {
		e.config.observer.OnRejected(kind)
	}
}

func (e *Engine) notifyDeprecatedUse(v, name string) {
	if e.config.observer != nil && e.config.observer.OnDeprecatedUse != nil {
		e.config.observer.OnDeprecatedUse(v, name)
	}
}

// apiName returns the name of the selected model, or the first named
// candidate model.
func apiName(res matcher.Result, models []*model.Model) string {
	if res.Candidate != nil && res.Candidate.Model != nil && res.Candidate.Model.Name() != "" {
		return res.Candidate.Model.Name()
	}
	for _, m := range models {
		if m.Name() != "" {
			return m.Name()
		}
	}

	return ""
}
