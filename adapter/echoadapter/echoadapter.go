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

// Package echoadapter plugs API version resolution into echo.
//
//	e := echo.New()
//	e.GET("/orders", echoadapter.MustDispatch(engine, []echoadapter.Endpoint{
//	    {Model: ordersV1, Specificity: matcher.Explicit, Handler: listOrdersV1},
//	    {Model: ordersV2, Specificity: matcher.Explicit, Handler: listOrdersV2},
//	}))
//	e.GET("/invoices", listInvoices, echoadapter.New(engine, invoicesModel))
package echoadapter

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"rivaas.dev/apiversion"
	apierrors "rivaas.dev/apiversion/errors"
	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/middleware/versioning"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
)

// DecisionKey is the echo context key holding the *apiversion.Decision.
const DecisionKey = "apiversion.decision"

// Option configures the echo middleware.
type Option func(*config)

type config struct {
	formatter apierrors.Formatter
}

// WithFormatter sets how rejected requests are rendered.
func WithFormatter(f apierrors.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.formatter = f
		}
	}
}

// Endpoint is one versioned implementation of an echo route.
type Endpoint struct {
	Model       *model.Model
	Specificity matcher.Specificity
	Handler     echo.HandlerFunc
}

// Request returns a reader.Request view of c. Route values come from the
// echo path parameters.
func Request(c echo.Context) reader.Request {
	return reader.HTTPRequest{
		Request: c.Request(),
		Route: func(name string) (string, bool) {
			for _, n := range c.ParamNames() {
				if n == name {
					return c.Param(name), true
				}
			}
			return "", false
		},
	}
}

// Dispatch returns a handler that selects among the endpoints of one route.
// Reported versions cover every endpoint.
func Dispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) (echo.HandlerFunc, error) {
	if engine == nil {
		return nil, versioning.ErrNilEngine
	}
	if len(endpoints) == 0 {
		return nil, versioning.ErrNoEndpoints
	}

	candidates := make([]matcher.Candidate, len(endpoints))
	for i, ep := range endpoints {
		if ep.Handler == nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, versioning.ErrNilHandler)
		}
		candidates[i] = matcher.Candidate{Model: ep.Model, Specificity: ep.Specificity, Handle: ep.Handler}
	}
	cfg := newConfig(opts)

	return func(c echo.Context) error {
		decision, err := cfg.resolve(c, engine, candidates)
		if decision == nil {
			return err
		}
		handler, _ := decision.Candidate.Handle.(echo.HandlerFunc)

		return handler(c)
	}, nil
}

// MustDispatch is like [Dispatch] but panics on error.
func MustDispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) echo.HandlerFunc {
	h, err := Dispatch(engine, endpoints, opts...)
	if err != nil {
		panic(err)
	}

	return h
}

// New returns echo middleware for a route with a single implementation
// declaring m. Reported versions cover m only.
// Rejections are written directly; echo's error handler is not involved.
func New(engine *apiversion.Engine, m *model.Model, opts ...Option) echo.MiddlewareFunc {
	if engine == nil {
		panic(versioning.ErrNilEngine)
	}

	cfg := newConfig(opts)
	candidates := []matcher.Candidate{{Model: m, Specificity: matcher.Explicit}}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := cfg.resolve(c, engine, candidates)
			if decision == nil {
				return err
			}

			return next(c)
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{formatter: apierrors.NewRFC9457("")}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// resolve returns the decision when the request may proceed. Otherwise it
// writes the problem response and returns a nil decision with the write
// error. Server-side failures are also logged through the echo logger.
func (cfg *config) resolve(c echo.Context, engine *apiversion.Engine, candidates []matcher.Candidate) (*apiversion.Decision, error) {
	req := c.Request()
	decision := engine.Resolve(req.Context(), Request(c), candidates)
	decision.WriteHeaders(c.Response().Header())

	if err := versioning.Rejection(decision); err != nil {
		resp := cfg.formatter.Format(req, err)
		if resp.Status >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}
		return nil, resp.Write(c.Response())
	}

	c.Set(DecisionKey, decision)
	c.SetRequest(req.WithContext(versioning.NewContext(req.Context(), decision)))

	return decision, nil
}

// Decision returns the decision stored by the middleware.
func Decision(c echo.Context) (*apiversion.Decision, bool) {
	d, ok := c.Get(DecisionKey).(*apiversion.Decision)
	return d, ok && d != nil
}
