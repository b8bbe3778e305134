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

package versioning

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "rivaas.dev/apiversion/errors"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures the versioning middleware.
type Option func(*config)

type config struct {
	formatter apierrors.Formatter
	logger    *slog.Logger
	route     func(r *http.Request, name string) (string, bool)
}

func defaultConfig() *config {
	return &config{
		formatter: apierrors.NewRFC9457(""),
		logger:    noopLogger,
	}
}

// WithFormatter sets how rejected requests are rendered.
// Default: RFC 9457 problem details with relative type URIs.
//
// Example:
//
//	versioning.WithFormatter(apierrors.NewRFC9457("https://errors.example.com"))
func WithFormatter(f apierrors.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.formatter = f
		}
	}
}

// WithLogger logs rejected requests. Configuration problems, such as two
// endpoints claiming the same version, are logged at Error; client errors
// at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithoutLogging discards middleware log records.
func WithoutLogging() Option {
	return func(cfg *config) { cfg.logger = noopLogger }
}

// WithRouteValues sets how route parameters are looked up for
// reader.RouteParameter carriers. By default [http.Request.PathValue] is used.
func WithRouteValues(fn func(r *http.Request, name string) (string, bool)) Option {
	return func(cfg *config) { cfg.route = fn }
}

// WithChiRouteValues reads route parameters with chi.URLParam. Mount the
// middleware on the route (r.With or a route group) so chi has matched the
// parameters before the version is read.
func WithChiRouteValues() Option {
	return WithRouteValues(func(r *http.Request, name string) (string, bool) {
		if chi.RouteContext(r.Context()) == nil {
			return "", false
		}
		v := chi.URLParam(r, name)
		return v, v != ""
	})
}
