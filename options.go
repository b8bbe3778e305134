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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/metrics"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

// Option configures the engine.
type Option func(*Config) error

// ═══════════════════════════════════════════════════════════════════════════════
// Reading & Defaults
// ═══════════════════════════════════════════════════════════════════════════════

// WithReader sets the carriers the requested version is read from, in order.
// Without this option the "api-version" query parameter is read.
//
// Example:
//
//	apiversion.WithReader(
//	    reader.URLSegment("/v{version}/"),
//	    reader.Header("api-version"),
//	)
func WithReader(carriers ...reader.Carrier) Option {
	return func(cfg *Config) error {
		if _, err := reader.New(carriers...); err != nil {
			return err
		}
		cfg.carriers = carriers

		return nil
	}
}

// WithDefaultVersion sets the version assumed for unversioned requests when
// no other selector is configured. The default is 1.0.
func WithDefaultVersion(v version.Version) Option {
	return func(cfg *Config) error {
		if v.IsZero() || v.IsNeutral() {
			return ErrInvalidDefault
		}
		cfg.defaultVersion = v

		return nil
	}
}

// WithSelector sets how the version of an unversioned request is chosen.
// It only applies together with [WithAssumeDefault].
//
// Example:
//
//	apiversion.WithAssumeDefault(),
//	apiversion.WithSelector(selector.CurrentImplementation(version.New(1, 0))),
func WithSelector(s selector.Selector) Option {
	return func(cfg *Config) error {
		if s == nil {
			return ErrNilSelector
		}
		cfg.selector = s

		return nil
	}
}

// WithAssumeDefault serves unversioned requests with a selected version
// instead of rejecting them.
func WithAssumeDefault() Option {
	return func(cfg *Config) error {
		cfg.assumeDefault = true
		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Policies & Response Headers
// ═══════════════════════════════════════════════════════════════════════════════

// WithSunsetPolicies sets the sunset policy table.
func WithSunsetPolicies(m *sunset.Manager) Option {
	return func(cfg *Config) error {
		if m == nil {
			return ErrNilManager
		}
		cfg.sunsets = m

		return nil
	}
}

// WithDeprecationPolicies sets the deprecation policy table.
func WithDeprecationPolicies(m *sunset.Manager) Option {
	return func(cfg *Config) error {
		if m == nil {
			return ErrNilManager
		}
		cfg.deprecations = m

		return nil
	}
}

// WithReporting sends the supported and deprecated versions of the candidate
// endpoints with every response. When includeAdvertised is set, versions
// implemented elsewhere are reported too.
func WithReporting(includeAdvertised bool) Option {
	return func(cfg *Config) error {
		cfg.report = true
		cfg.includeAdvertised = includeAdvertised

		return nil
	}
}

// WithHeaderNames renames the supported and deprecated version headers.
func WithHeaderNames(supported, deprecated string) Option {
	return func(cfg *Config) error {
		if supported == "" || deprecated == "" {
			return ErrEmptyHeaderName
		}
		cfg.supportedHeader = supported
		cfg.deprecatedHeader = deprecated

		return nil
	}
}

// WithVersionHeader sends the resolved version in the named response header.
//
// Example:
//
//	apiversion.WithVersionHeader("X-API-Version")
func WithVersionHeader(name string) Option {
	return func(cfg *Config) error {
		if name == "" {
			return ErrEmptyHeaderName
		}
		cfg.versionHeader = name

		return nil
	}
}

// WithWarning299 adds a "Warning: 299" header to responses served by a
// deprecated version.
func WithWarning299() Option {
	return func(cfg *Config) error {
		cfg.sendWarning299 = true
		return nil
	}
}

// WithSunsetEnforcement marks resolutions of a version past its sunset date
// as gone. Hosts answer them with 410 Gone.
func WithSunsetEnforcement() Option {
	return func(cfg *Config) error {
		cfg.enforceSunset = true
		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Observability
// ═══════════════════════════════════════════════════════════════════════════════

// ObserverOption configures an [Observer].
type ObserverOption func(*Observer)

// WithObserver configures observability hooks for resolution events.
//
// Example:
//
//	apiversion.WithObserver(
//	    apiversion.OnResolved(func(v, carrier string) {
//	        usage.Add(v)
//	    }),
//	    apiversion.OnDeprecatedUse(func(v, name string) {
//	        log.Warn("deprecated API", "version", v, "api", name)
//	    }),
//	)
func WithObserver(opts ...ObserverOption) Option {
	return func(cfg *Config) error {
		obs := &Observer{}
		for _, opt := range opts {
			opt(obs)
		}
		cfg.observer = obs

		return nil
	}
}

// OnResolved sets the callback for selected endpoints.
func OnResolved(fn func(version, carrier string)) ObserverOption {
	return func(o *Observer) {
		o.OnResolved = fn
	}
}

// OnMissing sets the callback for requests without a version.
func OnMissing(fn func()) ObserverOption {
	return func(o *Observer) {
		o.OnMissing = fn
	}
}

// OnRejected sets the callback for rejected requests.
func OnRejected(fn func(kind matcher.Kind)) ObserverOption {
	return func(o *Observer) {
		o.OnRejected = fn
	}
}

// OnDeprecatedUse sets the callback for deprecated version usage.
func OnDeprecatedUse(fn func(version, name string)) ObserverOption {
	return func(o *Observer) {
		o.OnDeprecatedUse = fn
	}
}

// WithLogger sets the logger. Successful resolutions are logged at Debug,
// rejections and deprecated use at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) error {
		if logger == nil {
			return ErrNilLogger
		}
		cfg.logger = logger

		return nil
	}
}

// WithMetrics records every resolution with r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(cfg *Config) error {
		if r == nil {
			return ErrNilRecorder
		}
		cfg.recorder = r

		return nil
	}
}

// WithTracerProvider creates an "apiversion.Resolve" span per resolution.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *Config) error {
		if tp == nil {
			return ErrNilTracerProvider
		}
		cfg.tracerProvider = tp

		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Testing Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithClock sets a custom clock function for testing.
//
// Example:
//
//	apiversion.WithClock(func() time.Time {
//	    return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
//	})
func WithClock(nowFn func() time.Time) Option {
	return func(cfg *Config) error {
		if nowFn == nil {
			return ErrNilClock
		}
		cfg.now = nowFn

		return nil
	}
}
