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

// Package apiversion resolves which API version a request asks for and which
// endpoint serves it.
//
// An [Engine] composes the building blocks in the sub-packages:
//
//   - version: parse, format and compare API versions
//   - model: the versions an endpoint supports, deprecates and advertises
//   - reader: read the requested version from query, header, path or media type
//   - selector: choose a version for requests that carry none
//   - matcher: pick one candidate endpoint or classify the failure
//   - sunset: sunset and deprecation policies per API name and version
//
// # Basic Usage
//
//	engine, err := apiversion.New(
//	    apiversion.WithReader(reader.Query("api-version"), reader.Header("api-version")),
//	    apiversion.WithAssumeDefault(),
//	    apiversion.WithReporting(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	orders := model.MustNew(
//	    model.Named("orders"),
//	    model.Supports(version.New(2, 0)),
//	    model.Deprecates(version.New(1, 0)),
//	)
//
//	d := engine.Resolve(ctx, reader.FromHTTP(r), []matcher.Candidate{
//	    {Model: orders, Specificity: matcher.Explicit, Handle: ordersHandler},
//	})
//	d.WriteHeaders(w.Header())
//	if !d.OK() {
//	    // d.Err.Kind says why
//	}
//
// The middleware package wires an Engine into net/http, and the adapter
// packages provide request views for Gin and Echo.
//
// # Thread Safety
//
// An Engine is immutable after [New]. Resolve only reads shared state, so
// one Engine serves all requests concurrently.
package apiversion
