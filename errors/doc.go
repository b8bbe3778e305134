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

// Package errors formats API version failures as HTTP error responses.
//
// Two formatters are provided:
//   - RFC9457: RFC 9457 Problem Details (application/problem+json)
//   - Simple: plain JSON objects (application/json)
//
// Errors control the response through optional interfaces: [ErrorType] for
// the status code, [ErrorCode] for a machine-readable code and [ErrorDetails]
// for structured details. [VersionError] and [SunsetError] implement all
// three for match failures and sunset versions.
//
// # Quick Start
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//
//	d := engine.Resolve(ctx, reader.FromHTTP(r), candidates)
//	if !d.OK() {
//	    _ = formatter.Format(r, errors.FromMatch(d.Err)).Write(w)
//	    return
//	}
//
// An unsupported version renders as:
//
//	{
//	  "type": "https://api.example.com/problems/unsupported-api-version",
//	  "title": "Bad Request",
//	  "status": 400,
//	  "detail": "unsupported API version: \"3.0\" is not implemented by the matched endpoints",
//	  "instance": "/orders",
//	  "code": "unsupported-api-version",
//	  "errors": {"requested": ["3.0"], "known": true},
//	  "error_id": "err-..."
//	}
package errors
