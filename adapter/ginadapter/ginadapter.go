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

// Package ginadapter plugs API version resolution into gin.
//
// [Dispatch] serves every versioned implementation of one route and reports
// the versions of all of them. [New] is middleware for a route with a single
// implementation. Both write the version headers and either abort with a
// problem response or store the decision on the gin context and the request
// context.
//
//	r := gin.New()
//	r.GET("/orders", ginadapter.MustDispatch(engine, []ginadapter.Endpoint{
//	    {Model: ordersV1, Specificity: matcher.Explicit, Handler: listOrdersV1},
//	    {Model: ordersV2, Specificity: matcher.Explicit, Handler: listOrdersV2},
//	}))
package ginadapter

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"rivaas.dev/apiversion"
	apierrors "rivaas.dev/apiversion/errors"
	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/middleware/versioning"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
)

// DecisionKey is the gin context key holding the *apiversion.Decision.
const DecisionKey = "apiversion.decision"

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures the gin middleware.
type Option func(*config)

type config struct {
	formatter apierrors.Formatter
	logger    *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{formatter: apierrors.NewRFC9457(""), logger: noopLogger}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithFormatter sets how rejected requests are rendered.
func WithFormatter(f apierrors.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.formatter = f
		}
	}
}

// WithLogger logs rejected requests.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Endpoint is one versioned implementation of a gin route.
type Endpoint struct {
	Model       *model.Model
	Specificity matcher.Specificity
	Handler     gin.HandlerFunc
}

// Request returns a reader.Request view of c. Route values come from the
// gin path parameters.
func Request(c *gin.Context) reader.Request {
	return reader.HTTPRequest{
		Request: c.Request,
		Route:   c.Params.Get,
	}
}

// Dispatch returns a handler that selects among the endpoints of one route.
// It returns the construction errors of the versioning package.
func Dispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) (gin.HandlerFunc, error) {
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

	return func(c *gin.Context) {
		decision, ok := cfg.resolve(c, engine, candidates)
		if !ok {
			return
		}
		handler, _ := decision.Candidate.Handle.(gin.HandlerFunc)
		handler(c)
	}, nil
}

// MustDispatch is like [Dispatch] but panics on error.
func MustDispatch(engine *apiversion.Engine, endpoints []Endpoint, opts ...Option) gin.HandlerFunc {
	h, err := Dispatch(engine, endpoints, opts...)
	if err != nil {
		panic(err)
	}

	return h
}

// New returns gin middleware for a route with a single implementation
// declaring m. Reported versions cover m only; use [Dispatch] when the
// route has several implementations.
// New panics if engine is nil.
func New(engine *apiversion.Engine, m *model.Model, opts ...Option) gin.HandlerFunc {
	if engine == nil {
		panic(versioning.ErrNilEngine)
	}

	cfg := newConfig(opts)
	candidates := []matcher.Candidate{{Model: m, Specificity: matcher.Explicit}}

	return func(c *gin.Context) {
		if _, ok := cfg.resolve(c, engine, candidates); ok {
			c.Next()
		}
	}
}

// resolve writes the version headers and either stores the decision on c or
// aborts with a problem response.
func (cfg *config) resolve(c *gin.Context, engine *apiversion.Engine, candidates []matcher.Candidate) (*apiversion.Decision, bool) {
	decision := engine.Resolve(c.Request.Context(), Request(c), candidates)
	decision.WriteHeaders(c.Writer.Header())

	if err := versioning.Rejection(decision); err != nil {
		resp := cfg.formatter.Format(c.Request, err)
		level := slog.LevelDebug
		if resp.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		cfg.logger.LogAttrs(c.Request.Context(), level, "api version rejected",
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", resp.Status),
			slog.String("error", err.Error()))

		c.Abort()
		if werr := resp.Write(c.Writer); werr != nil {
			_ = c.Error(werr)
		}
		return nil, false
	}

	c.Set(DecisionKey, decision)
	c.Request = c.Request.WithContext(versioning.NewContext(c.Request.Context(), decision))

	return decision, true
}

// Decision returns the decision stored by the middleware.
func Decision(c *gin.Context) (*apiversion.Decision, bool) {
	v, ok := c.Get(DecisionKey)
	if !ok {
		return nil, false
	}
	d, ok := v.(*apiversion.Decision)

	return d, ok
}
