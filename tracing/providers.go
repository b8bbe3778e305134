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

package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.customTracerProvider {
		t.emitDebug("Using custom user-provided tracer provider")
		return nil
	}

	var exporter sdktrace.SpanExporter
	switch t.provider {
	case NoopProvider:
	case StdoutProvider:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		exporter = exp
	case OTLPHTTPProvider:
		exp, err := otlptracehttp.New(ctx, otlpHTTPOptions(t.otlpEndpoint)...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		exporter = exp
	default:
		return fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	t.sdkProvider = tp
	t.tracerProvider = tp

	t.emitInfo("Tracing initialized", "provider", t.provider, "service", t.serviceName)

	return nil
}

// otlpHTTPOptions turns an endpoint such as "http://collector:4318/v1/traces"
// into exporter options.
func otlpHTTPOptions(endpoint string) []otlptracehttp.Option {
	if endpoint == "" {
		return nil
	}

	insecure := false
	if trimmed, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = trimmed
		insecure = true
	} else if trimmed, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = trimmed
	}
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return opts
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
