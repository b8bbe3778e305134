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
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/metrics"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

// Default response header names for version reporting.
const (
	DefaultSupportedHeader  = "api-supported-versions"
	DefaultDeprecatedHeader = "api-deprecated-versions"
)

// noopLogger discards all log messages.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Config holds the engine configuration.
// It is built by [New] from functional options and never changes afterwards.
type Config struct {
	carriers []reader.Carrier

	// Version assumed for unversioned requests
	defaultVersion version.Version
	selector       selector.Selector
	assumeDefault  bool

	// Policy tables
	sunsets      *sunset.Manager
	deprecations *sunset.Manager

	// Response headers
	report            bool
	includeAdvertised bool
	supportedHeader   string
	deprecatedHeader  string
	versionHeader     string
	sendWarning299    bool
	enforceSunset     bool

	observer       *Observer
	logger         *slog.Logger
	recorder       *metrics.Recorder
	tracerProvider trace.TracerProvider

	// Clock function for testing
	now func() time.Time
}

// Observer receives resolution events. Any callback may be nil.
// Callbacks run on the request goroutine and must be safe for concurrent use.
type Observer struct {
	// OnResolved is called when an endpoint was selected.
	// The carrier is empty when the version was assumed.
	OnResolved func(version, carrier string)

	// OnMissing is called when the request carried no version.
	OnMissing func()

	// OnRejected is called when no endpoint was selected.
	OnRejected func(kind matcher.Kind)

	// OnDeprecatedUse is called when a deprecated version was selected.
	OnDeprecatedUse func(version, name string)
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		defaultVersion:   version.New(1, 0),
		supportedHeader:  DefaultSupportedHeader,
		deprecatedHeader: DefaultDeprecatedHeader,
		logger:           noopLogger,
		tracerProvider:   noop.NewTracerProvider(),
		now:              time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if cfg.selector == nil {
		cfg.selector = selector.Constant(cfg.defaultVersion)
	}

	return cfg, nil
}

// DefaultVersion returns the configured default version.
func (c *Config) DefaultVersion() version.Version {
	return c.defaultVersion
}

// AssumesDefault reports whether unversioned requests get a default version.
func (c *Config) AssumesDefault() bool {
	return c.assumeDefault
}

// Selector returns the selector used for unversioned requests.
func (c *Config) Selector() selector.Selector {
	return c.selector
}

// Reporting reports whether supported and deprecated versions are sent.
func (c *Config) Reporting() bool {
	return c.report
}

// EnforcesSunset reports whether requests past their sunset date are gone.
func (c *Config) EnforcesSunset() bool {
	return c.enforceSunset
}

// Now returns the current time from the configured clock.
func (c *Config) Now() time.Time {
	return c.now()
}
