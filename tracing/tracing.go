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
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export spans).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event (e.g., tracing initialized).
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event of the tracing package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to logger.
// If logger is nil, the handler discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

const (
	// DefaultServiceName is the service name used when none is provided.
	DefaultServiceName = "apiversion"

	// DefaultServiceVersion is the service version used when none is provided.
	DefaultServiceVersion = "1.0.0"

	// DefaultSampleRate samples every resolution.
	DefaultSampleRate = 1.0
)

// Static errors for tracer configuration.
var (
	ErrConflictingProviders = errors.New("only one of WithNoop, WithStdout or WithOTLPHTTP can be used")
	ErrEmptyServiceName     = errors.New("service name cannot be empty")
	ErrInvalidSampleRate    = errors.New("sample rate must be between 0.0 and 1.0")
	ErrNilTracerProvider    = errors.New("custom tracer provider is nil")
)

// Provider represents the available tracing providers.
type Provider string

const (
	// NoopProvider records nothing (default).
	NoopProvider Provider = "noop"
	// StdoutProvider prints spans to stdout (development/testing).
	StdoutProvider Provider = "stdout"
	// OTLPHTTPProvider exports spans to an OTLP HTTP collector.
	OTLPHTTPProvider Provider = "otlp-http"
)

// Tracer owns the OpenTelemetry tracer provider used for version resolution
// spans. Hand [Tracer.TracerProvider] to the engine.
//
// The global OpenTelemetry tracer provider is never replaced unless
// [WithGlobalTracerProvider] is used.
type Tracer struct {
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	eventHandler   EventHandler

	serviceName    string
	serviceVersion string
	sampleRate     float64
	otlpEndpoint   string

	provider             Provider
	providerSetCount     int
	customTracerProvider bool
	registerGlobal       bool
	isShuttingDown       atomic.Bool
}

// New creates a [Tracer] with the given options.
// OTLP exporters are created with ctx.
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
		sampleRate:     DefaultSampleRate,
		provider:       NoopProvider,
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := t.initializeProvider(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if t.registerGlobal {
		t.emitDebug("Setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(t.tracerProvider)
	}

	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(ctx context.Context, opts ...Option) *Tracer {
	t, err := New(ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}

	return t
}

func (t *Tracer) validate() error {
	if t.providerSetCount > 1 {
		return ErrConflictingProviders
	}
	if t.serviceName == "" {
		return ErrEmptyServiceName
	}
	if t.sampleRate < 0 || t.sampleRate > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidSampleRate, t.sampleRate)
	}
	if t.customTracerProvider && t.tracerProvider == nil {
		return ErrNilTracerProvider
	}

	return nil
}

// TracerProvider returns the provider spans are created from.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	if t == nil || t.tracerProvider == nil {
		return noop.NewTracerProvider()
	}

	return t.tracerProvider
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// ServiceName returns the service name.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// IsEnabled reports whether spans are exported anywhere.
func (t *Tracer) IsEnabled() bool {
	return t.customTracerProvider || t.provider != NoopProvider
}

// Shutdown flushes pending spans and shuts the provider down.
// A custom tracer provider is left to its owner. Shutdown is idempotent.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if t.customTracerProvider || t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		t.emitError("tracer provider shutdown failed", "error", err)
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}

	return nil
}

// TraceID returns the trace ID of the span in ctx, or "" if there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}

func (t *Tracer) emitError(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (t *Tracer) emitInfo(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}

func (t *Tracer) emitDebug(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
