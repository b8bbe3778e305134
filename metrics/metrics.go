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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// meterName is the instrumentation scope of every instrument.
const meterName = "rivaas.dev/apiversion"

// DefaultDurationBuckets are histogram boundaries for resolution time in seconds.
// Resolution is in-memory work, so the buckets start in the microseconds.
var DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.005, 0.01}

// Static errors for recorder configuration.
var (
	ErrConflictingProviders = errors.New("only one of WithPrometheus, WithOTLP or WithStdout can be used")
	ErrEmptyServiceName     = errors.New("service name cannot be empty")
	ErrNilMeterProvider     = errors.New("custom meter provider is nil")
	ErrNotPrometheus        = errors.New("handler is only available with the Prometheus provider")
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event of the metrics package.
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

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider exposes metrics through [Recorder.Handler] (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder records API version resolution metrics.
// All methods are safe for concurrent use.
//
// The global OpenTelemetry meter provider is never replaced unless
// [WithGlobalMeterProvider] is used.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	resolutions      metric.Int64Counter
	deprecatedUses   metric.Int64Counter
	sunsetRejections metric.Int64Counter
	duration         metric.Float64Histogram

	durationBuckets []float64
	exportInterval  time.Duration

	serviceName    string
	serviceVersion string
	otlpEndpoint   string

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	provider            Provider
	providerSetCount    int
	isShuttingDown      atomic.Bool
	customMeterProvider bool
	registerGlobal      bool
}

// New creates a [Recorder] with the given options.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:     "apiversion",
		serviceVersion:  "1.0.0",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return r
}

func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return ErrConflictingProviders
	}
	if r.serviceName == "" {
		return ErrEmptyServiceName
	}
	if r.customMeterProvider && r.meterProvider == nil {
		return ErrNilMeterProvider
	}
	if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
		r.otlpEndpoint = "http://localhost:4318"
	}

	return nil
}

// Handler returns the Prometheus scrape handler.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, ErrNotPrometheus
	}

	return r.prometheusHandler, nil
}

// Provider returns the configured provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// Shutdown flushes pending metrics and shuts the meter provider down.
// A custom meter provider is left to its owner. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		r.emitDebug("Skipping shutdown of custom meter provider (managed by user)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}

// ForceFlush exports pending metric data without shutting down.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

func (r *Recorder) emitError(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
