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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome describes one version resolution.
type Outcome struct {
	// Result is "ok" for a selected endpoint, otherwise the failure kind.
	Result string

	// Version is the resolved version. It is only recorded for successful
	// resolutions, so request input never creates new time series.
	Version string

	// Carrier is the kind of carrier the version came from, if any.
	Carrier string

	Deprecated bool
	Defaulted  bool
	Neutral    bool
	Gone       bool

	Duration time.Duration
}

func (r *Recorder) initializeInstruments() error {
	var err error

	r.resolutions, err = r.meter.Int64Counter(
		"apiversion_resolutions_total",
		metric.WithDescription("Total number of API version resolutions by result"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resolutions counter: %w", err)
	}

	r.deprecatedUses, err = r.meter.Int64Counter(
		"apiversion_deprecated_requests_total",
		metric.WithDescription("Total number of requests served by a deprecated API version"),
	)
	if err != nil {
		return fmt.Errorf("failed to create deprecated requests counter: %w", err)
	}

	r.sunsetRejections, err = r.meter.Int64Counter(
		"apiversion_sunset_rejections_total",
		metric.WithDescription("Total number of requests rejected because their API version is past its sunset date"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sunset rejections counter: %w", err)
	}

	r.duration, err = r.meter.Float64Histogram(
		"apiversion_resolution_duration_seconds",
		metric.WithDescription("Time spent resolving the API version of a request"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create resolution duration histogram: %w", err)
	}

	return nil
}

// RecordResolution records one resolution outcome.
func (r *Recorder) RecordResolution(ctx context.Context, o Outcome) {
	if r == nil || r.isShuttingDown.Load() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 7)
	attrs = append(attrs,
		r.serviceNameAttr,
		r.serviceVersionAttr,
		attribute.String("result", o.Result),
	)
	if o.Result == "ok" {
		attrs = append(attrs,
			attribute.String("api.version", o.Version),
			attribute.Bool("defaulted", o.Defaulted),
			attribute.Bool("neutral", o.Neutral),
		)
	}
	if o.Carrier != "" {
		attrs = append(attrs, attribute.String("carrier", o.Carrier))
	}
	set := metric.WithAttributes(attrs...)

	r.resolutions.Add(ctx, 1, set)
	r.duration.Record(ctx, o.Duration.Seconds(), set)

	if o.Result != "ok" {
		return
	}
	versionAttrs := metric.WithAttributes(r.serviceNameAttr, attribute.String("api.version", o.Version))
	if o.Deprecated {
		r.deprecatedUses.Add(ctx, 1, versionAttrs)
	}
	if o.Gone {
		r.sunsetRejections.Add(ctx, 1, versionAttrs)
	}
}
