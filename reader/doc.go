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

// Package reader extracts the requested API version from a request.
//
// A [Reader] walks an ordered list of carriers (query parameters, headers,
// URL segments and media types) and collects every raw value. Values that
// denote different versions make the request ambiguous; a value that does
// not parse makes it malformed. Both outcomes are reported in [Result.Err]
// rather than returned as Go errors, because they describe the request and
// not a failure of the reader.
package reader
