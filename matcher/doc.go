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

// Package matcher selects the endpoint that serves a request's API version.
//
// The host supplies the candidate endpoints that matched a route together
// with the [reader.Result] for the request. [Matcher.Match] returns either
// one selected candidate or an [*Error] whose [Kind] tells the host how to
// respond:
//
//   - KindInvalid and KindAmbiguous: the request carried a bad version
//   - KindUnspecified: a version is required
//   - KindUnsupported: no candidate implements the version
//   - KindAmbiguousMatch: the endpoints are misconfigured
//
// An explicitly mapped candidate wins over one that inherits its model from
// a group. Version-neutral candidates serve requests no other candidate
// claims.
package matcher
