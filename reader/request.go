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

package reader

import (
	"net/http"
	"slices"
	"strings"
)

// Request is a read-only view of an incoming request.
// Host frameworks adapt their own request type to it.
type Request interface {
	// Query returns all values of the named query parameter.
	Query(name string) []string

	// Header returns all values of the named header.
	Header(name string) []string

	// Path returns the request path.
	Path() string

	// RouteValue returns a value captured by the host's route template.
	RouteValue(name string) (string, bool)
}

// HTTPRequest adapts a *http.Request.
//
// Query parameter names match case-insensitively. Route values come from
// Route when set, otherwise from [http.Request.PathValue].
type HTTPRequest struct {
	Request *http.Request
	Route   func(name string) (string, bool)
}

// FromHTTP returns a Request view of r.
func FromHTTP(r *http.Request) Request {
	return HTTPRequest{Request: r}
}

// Query implements Request.
func (h HTTPRequest) Query(name string) []string {
	if h.Request == nil || h.Request.URL == nil || h.Request.URL.RawQuery == "" {
		return nil
	}

	query := h.Request.URL.Query()
	if values, ok := query[name]; ok && len(query) == 1 {
		return values
	}

	var keys []string
	for key := range query {
		if strings.EqualFold(key, name) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	var values []string
	for _, key := range keys {
		values = append(values, query[key]...)
	}

	return values
}

// Header implements Request.
func (h HTTPRequest) Header(name string) []string {
	if h.Request == nil {
		return nil
	}

	return h.Request.Header.Values(name)
}

// Path implements Request.
func (h HTTPRequest) Path() string {
	if h.Request == nil || h.Request.URL == nil {
		return ""
	}

	return h.Request.URL.Path
}

// RouteValue implements Request.
func (h HTTPRequest) RouteValue(name string) (string, bool) {
	if h.Route != nil {
		return h.Route(name)
	}
	if h.Request == nil {
		return "", false
	}
	v := h.Request.PathValue(name)

	return v, v != ""
}
