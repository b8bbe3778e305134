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

package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// DefaultHeader carries the request ID in both directions.
const DefaultHeader = "X-Request-ID"

type contextKey struct{}

// Option configures the middleware.
type Option func(*config)

type config struct {
	header        string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		header:        DefaultHeader,
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// WithHeader changes the header name.
func WithHeader(name string) Option {
	return func(cfg *config) { cfg.header = name }
}

// WithULID generates 26-character ULIDs instead of UUIDv7 strings.
func WithULID() Option {
	return func(cfg *config) { cfg.generator = generateULID }
}

// WithGenerator sets a custom ID generator.
func WithGenerator(fn func() string) Option {
	return func(cfg *config) { cfg.generator = fn }
}

// WithAllowClientID controls whether an incoming header value is reused.
// Default: true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) { cfg.allowClientID = allow }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

var (
	ulidEntropy   = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyMu sync.Mutex
)

func generateULID() string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns middleware that assigns every request an ID, echoes it in the
// response header and stores it in the request context.
//
//	r := chi.NewRouter()
//	r.Use(requestid.New())
//	r.Use(versioning.New(engine, ordersModel))
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.allowClientID {
				id = r.Header.Get(cfg.header)
			}
			if id == "" {
				id = cfg.generator()
			}

			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID, or "" when none was assigned.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
