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

package apiversion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/metrics"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/tracing"
	"rivaas.dev/apiversion/version"
)

var (
	v1   = version.New(1, 0)
	v2   = version.New(2, 0)
	v3   = version.New(3, 0)
	june = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

func ordersCandidates() []matcher.Candidate {
	return []matcher.Candidate{
		{
			Model: model.MustNew(
				model.Named("orders"),
				model.Supports(v2),
				model.Deprecates(v1),
				model.Advertises(v3),
			),
			Specificity: matcher.Explicit,
			Handle:      "orders",
		},
	}
}

func request(target string, headers ...string) reader.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Add(headers[i], headers[i+1])
	}

	return reader.FromHTTP(req)
}

func TestResolve_Query(t *testing.T) {
	t.Parallel()

	var resolved, carrier string
	e := MustNew(
		WithReporting(false),
		WithObserver(OnResolved(func(v, c string) { resolved, carrier = v, c })),
	)

	d := e.Resolve(t.Context(), request("/orders?api-version=2.0"), ordersCandidates())

	require.True(t, d.OK())
	assert.Equal(t, "orders", d.Candidate.Handle)
	assert.True(t, v2.Equal(d.Version))
	assert.Equal(t, "orders", d.Name)
	assert.Equal(t, "2.0", resolved)
	assert.Equal(t, "query", carrier)
	assert.False(t, d.Gone())

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Equal(t, "2.0", h.Get(DefaultSupportedHeader))
	assert.Equal(t, "1.0", h.Get(DefaultDeprecatedHeader))
	assert.Empty(t, h.Get("Deprecation"))
}

func TestResolve_ReportingIncludesAdvertised(t *testing.T) {
	t.Parallel()

	e := MustNew(WithReporting(true), WithHeaderNames("x-supported", "x-deprecated"))
	d := e.Resolve(t.Context(), request("/orders?api-version=2.0"), ordersCandidates())

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Equal(t, "2.0, 3.0", h.Get("x-supported"))
	assert.Equal(t, "1.0", h.Get("x-deprecated"))

	supported, deprecated := d.Reported()
	assert.Equal(t, []string{"2.0", "3.0"}, supported)
	assert.Equal(t, []string{"1.0"}, deprecated)
}

func TestResolve_ReportingOff(t *testing.T) {
	t.Parallel()

	e := MustNew()
	d := e.Resolve(t.Context(), request("/orders?api-version=2.0"), ordersCandidates())

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Empty(t, h.Get(DefaultSupportedHeader))
	assert.Empty(t, d.SupportedVersions)
}

func TestResolve_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		target   string
		headers  []string
		wantKind matcher.Kind
	}{
		{
			name:     "unspecified without default",
			target:   "/orders",
			wantKind: matcher.KindUnspecified,
		},
		{
			name:     "malformed version",
			target:   "/orders?api-version=abc",
			wantKind: matcher.KindInvalid,
		},
		{
			name:     "conflicting carriers",
			opts:     []Option{WithReader(reader.Query("api-version"), reader.Header("api-version"))},
			target:   "/orders?api-version=1.0",
			headers:  []string{"api-version", "2.0"},
			wantKind: matcher.KindAmbiguous,
		},
		{
			name:     "advertised but not implemented",
			target:   "/orders?api-version=3.0",
			wantKind: matcher.KindUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var rejected matcher.Kind
			opts := append([]Option{
				WithReporting(false),
				WithObserver(OnRejected(func(k matcher.Kind) { rejected = k })),
			}, tt.opts...)
			e := MustNew(opts...)

			d := e.Resolve(t.Context(), request(tt.target, tt.headers...), ordersCandidates())

			require.False(t, d.OK())
			require.NotNil(t, d.Err)
			assert.Equal(t, tt.wantKind, d.Err.Kind)
			assert.Equal(t, tt.wantKind, rejected)
			assert.False(t, d.Gone())

			h := http.Header{}
			d.WriteHeaders(h)
			assert.Equal(t, "2.0", h.Get(DefaultSupportedHeader), "rejections still report versions")
		})
	}
}

func TestResolve_NoCandidates(t *testing.T) {
	t.Parallel()

	d := MustNew().Resolve(t.Context(), request("/orders?api-version=1.0"), nil)

	require.NotNil(t, d.Err)
	assert.Equal(t, matcher.KindNoCandidates, d.Err.Kind)
	assert.Empty(t, d.Name)
}

func TestResolve_AssumeDefault(t *testing.T) {
	t.Parallel()

	t.Run("default version", func(t *testing.T) {
		t.Parallel()

		var missing atomic.Int32
		e := MustNew(
			WithAssumeDefault(),
			WithDefaultVersion(v2),
			WithObserver(OnMissing(func() { missing.Add(1) })),
		)
		d := e.Resolve(t.Context(), request("/orders"), ordersCandidates())

		require.True(t, d.OK())
		assert.True(t, d.Defaulted)
		assert.True(t, v2.Equal(d.Version))
		assert.Equal(t, int32(1), missing.Load())
	})

	t.Run("current implementation", func(t *testing.T) {
		t.Parallel()

		e := MustNew(WithAssumeDefault(), WithSelector(selector.CurrentImplementation(v1)))
		d := e.Resolve(t.Context(), request("/orders"), ordersCandidates())

		require.True(t, d.OK())
		assert.True(t, v2.Equal(d.Version))
	})

	t.Run("lowest implemented is deprecated", func(t *testing.T) {
		t.Parallel()

		e := MustNew(WithAssumeDefault(), WithSelector(selector.LowestImplemented(v3)))
		d := e.Resolve(t.Context(), request("/orders"), ordersCandidates())

		require.True(t, d.OK())
		assert.True(t, v1.Equal(d.Version))
		assert.True(t, d.Deprecated)
	})

	t.Run("selector ignored without assume", func(t *testing.T) {
		t.Parallel()

		e := MustNew(WithSelector(selector.Constant(v2)))
		d := e.Resolve(t.Context(), request("/orders"), ordersCandidates())

		require.NotNil(t, d.Err)
		assert.Equal(t, matcher.KindUnspecified, d.Err.Kind)
	})
}

func TestResolve_DeprecatedVersion(t *testing.T) {
	t.Parallel()

	deprecations := sunset.NewBuilder()
	policy, err := sunset.NewPolicy(
		sunset.EffectiveAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		sunset.WithLink("https://docs.example.com/orders/v1"),
	)
	require.NoError(t, err)
	require.NoError(t, deprecations.Add(sunset.Key{Name: "orders", Version: v1}, policy))

	sunsets := sunset.NewBuilder()
	sunsetAt := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sunsets.Add(sunset.Key{Name: "orders"}, sunset.Policy{Effective: sunsetAt}))

	var used []string
	e := MustNew(
		WithDeprecationPolicies(deprecations.Build()),
		WithSunsetPolicies(sunsets.Build()),
		WithWarning299(),
		WithVersionHeader("X-API-Version"),
		WithClock(func() time.Time { return june }),
		WithObserver(OnDeprecatedUse(func(v, name string) { used = append(used, name+"@"+v) })),
	)

	d := e.Resolve(t.Context(), request("/orders?api-version=1"), ordersCandidates())
	require.True(t, d.OK())
	assert.True(t, d.Deprecated)
	assert.Equal(t, []string{"orders@1"}, used)
	assert.Equal(t, june, d.ResolvedAt())

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Equal(t, "1", h.Get("X-API-Version"))
	assert.Equal(t, "@1735689600", h.Get("Deprecation"))
	assert.Equal(t, "Wed, 31 Dec 2025 00:00:00 GMT", h.Get("Sunset"))
	assert.Contains(t, h.Values("Link"), `<https://docs.example.com/orders/v1>; rel="deprecation"`)
	assert.Equal(t,
		`299 - "API 1 is deprecated and will be removed on 2025-12-31T00:00:00Z. Please upgrade to a supported version."`,
		h.Get("Warning"),
	)
}

func TestResolve_DeprecatedWithoutPolicy(t *testing.T) {
	t.Parallel()

	e := MustNew()
	d := e.Resolve(t.Context(), request("/orders?api-version=1.0"), ordersCandidates())

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Equal(t, "true", h.Get("Deprecation"))
	assert.Empty(t, h.Get("Warning"), "warning is opt-in")
}

func TestResolve_SunsetEnforcement(t *testing.T) {
	t.Parallel()

	b := sunset.NewBuilder()
	require.NoError(t, b.Add(sunset.Key{Version: v1}, sunset.Policy{Effective: june.AddDate(0, -1, 0)}))
	sunsets := b.Build()

	t.Run("enforced", func(t *testing.T) {
		t.Parallel()

		e := MustNew(WithSunsetPolicies(sunsets), WithSunsetEnforcement(), WithClock(func() time.Time { return june }))
		d := e.Resolve(t.Context(), request("/orders?api-version=1.0"), ordersCandidates())

		require.True(t, d.OK())
		assert.True(t, d.Gone())
	})

	t.Run("not enforced", func(t *testing.T) {
		t.Parallel()

		e := MustNew(WithSunsetPolicies(sunsets), WithClock(func() time.Time { return june }))
		d := e.Resolve(t.Context(), request("/orders?api-version=1.0"), ordersCandidates())

		assert.False(t, d.Gone())
		h := http.Header{}
		d.WriteHeaders(h)
		assert.NotEmpty(t, h.Get("Sunset"))
	})

	t.Run("before sunset", func(t *testing.T) {
		t.Parallel()

		early := func() time.Time { return june.AddDate(0, -2, 0) }
		e := MustNew(WithSunsetPolicies(sunsets), WithSunsetEnforcement(), WithClock(early))
		d := e.Resolve(t.Context(), request("/orders?api-version=1.0"), ordersCandidates())

		assert.False(t, d.Gone())
	})
}

func TestResolve_PoliciesOnRejection(t *testing.T) {
	t.Parallel()

	b := sunset.NewBuilder()
	policy, err := sunset.NewPolicy(
		sunset.EffectiveAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		sunset.WithLink("https://docs.example.com/orders/retirement"),
	)
	require.NoError(t, err)
	require.NoError(t, b.Add(sunset.Key{Name: "orders"}, policy))
	e := MustNew(WithSunsetPolicies(b.Build()))

	tests := []struct {
		name   string
		target string
		kind   matcher.Kind
	}{
		{name: "unsupported", target: "/orders?api-version=3.0", kind: matcher.KindUnsupported},
		{name: "malformed", target: "/orders?api-version=x", kind: matcher.KindInvalid},
		{name: "ambiguous", target: "/orders?api-version=1.0&api-version=2.0", kind: matcher.KindAmbiguous},
		{name: "unspecified", target: "/orders", kind: matcher.KindUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := e.Resolve(t.Context(), request(tt.target), ordersCandidates())
			require.NotNil(t, d.Err)
			assert.Equal(t, tt.kind, d.Err.Kind)
			require.NotNil(t, d.Sunset)

			h := http.Header{}
			d.WriteHeaders(h)
			assert.Equal(t, "Sun, 01 Mar 2026 00:00:00 GMT", h.Get("Sunset"))
			assert.Contains(t, h.Values("Link"), `<https://docs.example.com/orders/retirement>; rel="sunset"`)
			assert.Empty(t, h.Get("Deprecation"))
		})
	}

	t.Run("unnamed candidates", func(t *testing.T) {
		t.Parallel()

		unnamed := []matcher.Candidate{{Model: model.MustNew(model.Supports(v2)), Specificity: matcher.Explicit}}
		d := e.Resolve(t.Context(), request("/orders"), unnamed)
		require.NotNil(t, d.Err)
		assert.Nil(t, d.Sunset)
	})
}

func TestResolve_Vary(t *testing.T) {
	t.Parallel()

	e := MustNew(WithReader(reader.Header("X-Api-Version"), reader.MediaTypeParameter("v")))
	d := e.Resolve(t.Context(), request("/orders", "X-Api-Version", "2.0"), ordersCandidates())
	require.True(t, d.OK())

	h := http.Header{}
	h.Set("Vary", "accept")
	d.WriteHeaders(h)
	assert.Equal(t, []string{"accept", "X-Api-Version", "Content-Type"}, h.Values("Vary"))
}

func TestResolve_NeutralEndpoint(t *testing.T) {
	t.Parallel()

	candidates := []matcher.Candidate{
		{Model: model.MustNew(model.Named("health"), model.VersionNeutral()), Handle: "health"},
	}
	d := MustNew(WithVersionHeader("X-API-Version")).Resolve(t.Context(), request("/health"), candidates)

	require.True(t, d.OK())
	assert.True(t, d.Neutral)

	h := http.Header{}
	d.WriteHeaders(h)
	assert.Empty(t, h.Get("X-API-Version"))
}

func TestResolve_Metrics(t *testing.T) {
	t.Parallel()

	recorder, rd := metrics.TestingRecorder(t)
	e := MustNew(WithMetrics(recorder))

	e.Resolve(t.Context(), request("/orders?api-version=2.0"), ordersCandidates())
	e.Resolve(t.Context(), request("/orders?api-version=1.0"), ordersCandidates())
	e.Resolve(t.Context(), request("/orders?api-version=9.0"), ordersCandidates())

	var rm metricdata.ResourceMetrics
	require.NoError(t, rd.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(3), totals["apiversion_resolutions_total"])
	assert.Equal(t, int64(1), totals["apiversion_deprecated_requests_total"])
}

func TestResolve_Tracing(t *testing.T) {
	t.Parallel()

	tracer, spans := tracing.TestingTracer(t)
	e := MustNew(WithTracerProvider(tracer.TracerProvider()))

	e.Resolve(t.Context(), request("/orders?api-version=2.0"), ordersCandidates())
	e.Resolve(t.Context(), request("/orders?api-version=2.0"), nil)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, spanName, ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("apiversion.version", "2.0"))
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Contains(t, ended[1].Attributes(), attribute.String("apiversion.rejected", "no_candidates"))
	assert.Equal(t, codes.Error, ended[1].Status().Code)
}

func TestResolve_Concurrent(t *testing.T) {
	t.Parallel()

	e := MustNew(WithAssumeDefault(), WithReporting(false))
	candidates := ordersCandidates()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := "/orders?api-version=2.0"
			if i%2 == 0 {
				target = "/orders"
			}
			d := e.Resolve(context.Background(), request(target), candidates)
			assert.True(t, d.OK())
		}()
	}
	wg.Wait()
}
