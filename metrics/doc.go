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

// Package metrics records OpenTelemetry metrics about API version resolution.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(),
//	    metrics.WithServiceName("orders-api"),
//	)
//	defer recorder.Shutdown(context.Background())
//
//	handler, _ := recorder.Handler()
//	mux.Handle("GET /metrics", handler)
//
//	engine, _ := apiversion.New(apiversion.WithMetrics(recorder))
//
// # Instruments
//
//   - apiversion_resolutions_total: resolutions by result and carrier
//   - apiversion_deprecated_requests_total: requests served by deprecated versions
//   - apiversion_sunset_rejections_total: requests refused after a sunset date
//   - apiversion_resolution_duration_seconds: time spent resolving
//
// The version attribute is only set for successful resolutions, so
// malformed client input cannot create new time series.
//
// # Providers
//
// Three providers are supported:
//   - [PrometheusProvider] (default): serves metrics through [Recorder.Handler]
//   - [OTLPProvider]: pushes metrics to an OTLP collector
//   - [StdoutProvider]: prints metrics to stdout (for development/testing)
//
// By default, this package does NOT set the global OpenTelemetry meter provider.
package metrics
