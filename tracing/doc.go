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

// Package tracing builds the OpenTelemetry tracer provider used for API
// version resolution spans.
//
// # Basic Usage
//
//	tracer, err := tracing.New(ctx,
//	    tracing.WithServiceName("orders"),
//	    tracing.WithOTLPHTTP("http://collector:4318"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	engine, err := apiversion.New(
//	    apiversion.WithTracerProvider(tracer.TracerProvider()),
//	)
//
// # Providers
//
//   - NoopProvider (default): spans are sampled but never exported
//   - StdoutProvider: pretty-printed spans on stdout
//   - OTLPHTTPProvider: spans pushed to an OTLP HTTP collector
//
// # Global State
//
// The global OpenTelemetry tracer provider is left untouched unless
// [WithGlobalTracerProvider] is passed.
package tracing
