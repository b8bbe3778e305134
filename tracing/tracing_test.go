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

//go:build !integration

package tracing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	tracer, err := New(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	assert.Equal(t, NoopProvider, tracer.Provider())
	assert.Equal(t, DefaultServiceName, tracer.ServiceName())
	assert.False(t, tracer.IsEnabled())
	assert.NotNil(t, tracer.TracerProvider())
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name:    "conflicting providers",
			opts:    []Option{WithStdout(), WithOTLPHTTP("http://localhost:4318")},
			wantErr: ErrConflictingProviders,
		},
		{
			name:    "empty service name",
			opts:    []Option{WithServiceName("")},
			wantErr: ErrEmptyServiceName,
		},
		{
			name:    "sample rate above one",
			opts:    []Option{WithSampleRate(1.5)},
			wantErr: ErrInvalidSampleRate,
		},
		{
			name:    "negative sample rate",
			opts:    []Option{WithSampleRate(-0.1)},
			wantErr: ErrInvalidSampleRate,
		},
		{
			name:    "nil custom provider",
			opts:    []Option{WithTracerProvider(nil)},
			wantErr: ErrNilTracerProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(t.Context(), tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustNew(t.Context(), WithServiceName(""))
	})
}

func TestStdoutProvider(t *testing.T) {
	t.Parallel()

	tracer, err := New(t.Context(), WithStdout(), WithServiceName("orders"))
	require.NoError(t, err)

	assert.Equal(t, StdoutProvider, tracer.Provider())
	assert.True(t, tracer.IsEnabled())
	require.NoError(t, tracer.Shutdown(t.Context()))
	require.NoError(t, tracer.Shutdown(t.Context()), "second shutdown is a no-op")
}

func TestOTLPHTTPOptions(t *testing.T) {
	t.Parallel()

	assert.Nil(t, otlpHTTPOptions(""))
	assert.Len(t, otlpHTTPOptions("http://collector:4318/v1/traces"), 2)
	assert.Len(t, otlpHTTPOptions("https://collector:4318"), 1)
	assert.Len(t, otlpHTTPOptions("collector:4318"), 1)
}

func TestTestingTracer_RecordsSpans(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)

	ctx, span := tracer.TracerProvider().Tracer("test").Start(t.Context(), "resolve")
	assert.NotEmpty(t, TraceID(ctx))
	span.End()

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "resolve", ended[0].Name())
}

func TestShutdown_LeavesCustomProviderRunning(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer, err := New(t.Context(), WithTracerProvider(tp))
	require.NoError(t, err)
	require.NoError(t, tracer.Shutdown(t.Context()))

	_, span := tp.Tracer("test").Start(t.Context(), "after")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestTraceID_NoSpan(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TraceID(t.Context()))
}

func TestWithLogger_ReceivesEvents(t *testing.T) {
	t.Parallel()

	var events []Event
	tracer, err := New(t.Context(),
		WithStdout(),
		WithEventHandler(func(e Event) { events = append(events, e) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	require.NotEmpty(t, events)
	assert.Equal(t, EventInfo, events[len(events)-1].Type)

	assert.NotPanics(t, func() {
		DefaultEventHandler(nil)(Event{Type: EventError, Message: "dropped"})
		DefaultEventHandler(slog.New(slog.DiscardHandler))(Event{Type: EventWarning, Message: "kept"})
	})
}

func TestNew_DoesNotReplaceGlobal(t *testing.T) {
	t.Parallel()

	before := otel.GetTracerProvider()
	tracer, err := New(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	assert.Equal(t, before, otel.GetTracerProvider())
}
