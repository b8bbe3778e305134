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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"rivaas.dev/apiversion"
	apierrors "rivaas.dev/apiversion/errors"
	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/middleware/requestid"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/version"
)

// Static errors returned at construction.
var (
	ErrNilEngine   = errors.New("engine cannot be nil")
	ErrNoEndpoints = errors.New("at least one endpoint is required")
	ErrNilHandler  = errors.New("endpoint handler cannot be nil")
)

// Endpoint is one versioned implementation of a route.
type Endpoint struct {
	Model       *model.Model
	Specificity matcher.Specificity
	Handler     http.Handler
}

type contextKey struct{}

// Dispatcher routes a request to the endpoint implementing the requested
// API version. It is safe for concurrent use.
type Dispatcher struct {
	engine     *apiversion.Engine
	candidates []matcher.Candidate
	cfg        *config
}

// Dispatch returns a handler that serves every endpoint of one route.
//
// For each request it resolves the version, writes the version headers and
// then either calls the matching endpoint's handler or answers with a
// problem response: 400 for malformed, ambiguous, missing or unsupported
// versions, 410 for versions past an enforced sunset and 500 when the
// endpoints themselves are ambiguous.
//
//	orders, err := versioning.Dispatch(engine, []versioning.Endpoint{
//	    {Model: v1Model, Specificity: matcher.Explicit, Handler: ordersV1},
//	    {Model: v2Model, Specificity: matcher.Explicit, Handler: ordersV2},
//	})
//	mux.Handle("GET /orders", orders)
func Dispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) (*Dispatcher, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	candidates := make([]matcher.Candidate, len(endpoints))
	for i, ep := range endpoints {
		if ep.Handler == nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, ErrNilHandler)
		}
		candidates[i] = matcher.Candidate{Model: ep.Model, Specificity: ep.Specificity, Handle: ep.Handler}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Dispatcher{engine: engine, candidates: candidates, cfg: cfg}, nil
}

// MustDispatch is like [Dispatch] but panics on error.
func MustDispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) *Dispatcher {
	d, err := Dispatch(engine, endpoints, opts...)
	if err != nil {
		panic(err)
	}

	return d
}

// New returns middleware for a single endpoint declaring m. Requests for
// versions m does not implement are rejected before next runs.
// New panics if engine is nil.
//
//	r := chi.NewRouter()
//	r.With(versioning.New(engine, ordersModel)).Get("/orders", listOrders)
func New(engine *apiversion.Engine, m *model.Model, opts ...Option) func(http.Handler) http.Handler {
	if engine == nil {
		panic(ErrNilEngine)
	}

	return func(next http.Handler) http.Handler {
		return MustDispatch(engine, []Endpoint{{Model: m, Specificity: matcher.Explicit, Handler: next}}, opts...)
	}
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := reader.HTTPRequest{Request: r}
	if d.cfg.route != nil {
		req.Route = func(name string) (string, bool) { return d.cfg.route(r, name) }
	}

	decision := d.engine.Resolve(r.Context(), req, d.candidates)
	decision.WriteHeaders(w.Header())

	if err := Rejection(decision); err != nil {
		d.reject(w, r, err)
		return
	}

	handler, _ := decision.Candidate.Handle.(http.Handler)
	handler.ServeHTTP(w, r.WithContext(NewContext(r.Context(), decision)))
}

// Rejection returns the error a host should answer decision with, or nil
// when the request may proceed. The error implements the status, code and
// details interfaces of the errors package.
func Rejection(decision *apiversion.Decision) error {
	switch {
	case decision == nil:
		return nil
	case !decision.OK():
		return apierrors.FromMatch(decision.Err)
	case decision.Gone():
		return &apierrors.SunsetError{Version: decision.Version}
	default:
		return nil
	}
}

func (d *Dispatcher) reject(w http.ResponseWriter, r *http.Request, err error) {
	resp := d.cfg.formatter.Format(r, err)

	level := slog.LevelDebug
	if resp.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", resp.Status),
		slog.String("error", err.Error()),
	}
	if id := requestid.FromContext(r.Context()); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
		if p, ok := resp.Body.(apierrors.ProblemDetail); ok && p.Extensions != nil {
			p.Extensions["request_id"] = id
		}
	}
	d.cfg.logger.LogAttrs(r.Context(), level, "api version rejected", attrs...)

	if werr := resp.Write(w); werr != nil {
		d.cfg.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed to write problem response",
			slog.String("error", werr.Error()))
	}
}

// NewContext returns a copy of ctx carrying decision.
func NewContext(ctx context.Context, decision *apiversion.Decision) context.Context {
	return context.WithValue(ctx, contextKey{}, decision)
}

// FromContext returns the decision that selected the current handler.
func FromContext(ctx context.Context) (*apiversion.Decision, bool) {
	decision, ok := ctx.Value(contextKey{}).(*apiversion.Decision)
	return decision, ok && decision != nil
}

// VersionFromContext returns the API version the current handler serves.
// It is zero for a neutral endpoint serving an unversioned request.
func VersionFromContext(ctx context.Context) (version.Version, bool) {
	decision, ok := FromContext(ctx)
	if !ok {
		return version.Version{}, false
	}

	return decision.Version, true
}
