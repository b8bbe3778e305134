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

// Package versioning serves API-versioned endpoints over net/http.
//
// A [Dispatcher] holds every implementation of one route and picks the one
// that implements the requested version; [New] is the single-endpoint
// middleware form for routers such as chi. Both write the api-supported-versions,
// api-deprecated-versions, Sunset, Deprecation, Link and Vary headers the
// engine decides on, and render rejections through the errors package.
//
// Handlers find the resolved version with [VersionFromContext]:
//
//	func listOrders(w http.ResponseWriter, r *http.Request) {
//	    v, _ := versioning.VersionFromContext(r.Context())
//	    ...
//	}
package versioning
