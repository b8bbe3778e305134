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
	"context"
	"errors"

	"rivaas.dev/apiversion"
	"rivaas.dev/apiversion/logging"
	"rivaas.dev/apiversion/metrics"
	"rivaas.dev/apiversion/tracing"
)

// Stack is an engine together with the observability components built
// from the same [Settings].
type Stack struct {
	Engine  *apiversion.Engine
	Logger  *logging.Logger
	Metrics *metrics.Recorder // nil unless metrics are enabled
	Tracer  *tracing.Tracer   // nil unless tracing is enabled
}

// Logger builds the logger described by s.Logging. opts are applied after
// the settings, so they can redirect output in tests.
func (s *Settings) Logger(opts ...logging.Option) (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Logging.Level)
	if err != nil {
		return nil, NewFieldError("settings", "logging.level", "build", err)
	}

	base := []logging.Option{
		logging.WithHandlerType(logging.HandlerType(s.Logging.Handler)),
		logging.WithLevel(level),
		logging.WithSource(s.Logging.Source),
		logging.WithServiceName(s.Logging.Service),
		logging.WithServiceVersion(s.Logging.Version),
		logging.WithEnvironment(s.Logging.Environment),
	}
	l, err := logging.New(append(base, opts...)...)
	if err != nil {
		return nil, NewError("logging", "build", err)
	}

	return l, nil
}

// Recorder builds the metrics recorder, or returns nil when metrics are
// disabled.
func (s *Settings) Recorder(opts ...metrics.Option) (*metrics.Recorder, error) {
	if !s.Metrics.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	base := []metrics.Option{metrics.WithServiceName(s.Metrics.Service)}
	switch s.Metrics.Provider {
	case "otlp":
		base = append(base, metrics.WithOTLP(s.Metrics.Endpoint))
	case "stdout":
		base = append(base, metrics.WithStdout())
	default:
		base = append(base, metrics.WithPrometheus())
	}
	if s.Metrics.ExportInterval > 0 {
		base = append(base, metrics.WithExportInterval(s.Metrics.ExportInterval))
	}

	r, err := metrics.New(append(base, opts...)...)
	if err != nil {
		return nil, NewError("metrics", "build", err)
	}

	return r, nil
}

// Tracer builds the tracer, or returns nil when tracing is disabled.
func (s *Settings) Tracer(ctx context.Context, opts ...tracing.Option) (*tracing.Tracer, error) {
	if !s.Tracing.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	base := []tracing.Option{tracing.WithServiceName(s.Tracing.Service)}
	switch s.Tracing.Provider {
	case "noop":
		base = append(base, tracing.WithNoop())
	case "otlp-http":
		base = append(base, tracing.WithOTLPHTTP(s.Tracing.Endpoint))
	default:
		base = append(base, tracing.WithStdout())
	}
	if s.Tracing.SampleRate > 0 {
		base = append(base, tracing.WithSampleRate(s.Tracing.SampleRate))
	}

	t, err := tracing.New(ctx, append(base, opts...)...)
	if err != nil {
		return nil, NewError("tracing", "build", err)
	}

	return t, nil
}

// Build constructs the whole stack. extra engine options are applied last.
// Components built before a failure are shut down.
func (s *Settings) Build(ctx context.Context, extra ...apiversion.Option) (*Stack, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}

	st := &Stack{}
	if st.Logger, err = s.Logger(); err != nil {
		return nil, err
	}
	logger := st.Logger.Logger()
	opts = append(opts, apiversion.WithLogger(logger))

	if st.Metrics, err = s.Recorder(metrics.WithLogger(logger)); err != nil {
		return nil, err
	}
	if st.Metrics != nil {
		opts = append(opts, apiversion.WithMetrics(st.Metrics))
	}

	if st.Tracer, err = s.Tracer(ctx, tracing.WithLogger(logger)); err != nil {
		return nil, errors.Join(err, st.Shutdown(ctx))
	}
	if st.Tracer != nil {
		opts = append(opts, apiversion.WithTracerProvider(st.Tracer.TracerProvider()))
	}

	if st.Engine, err = apiversion.New(append(opts, extra...)...); err != nil {
		return nil, errors.Join(NewError("settings", "build", err), st.Shutdown(ctx))
	}

	return st, nil
}

// Shutdown flushes and stops the metrics and tracing exporters.
func (st *Stack) Shutdown(ctx context.Context) error {
	var errs []error
	if st.Metrics != nil {
		errs = append(errs, st.Metrics.Shutdown(ctx))
	}
	if st.Tracer != nil {
		errs = append(errs, st.Tracer.Shutdown(ctx))
	}

	return errors.Join(errs...)
}
