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

// Package version defines the API version value used throughout apiversion.
//
// A [Version] combines an optional group version (a calendar date), an
// optional major and minor number, and an optional status label:
//
//	v := version.MustParse("2.1-beta")
//	major, _ := v.Major()       // 2
//	v.Format("VV")              // "2.1"
//	v.Less(version.New(2, 1))   // true, a status sorts before the release
//
// Versions compare group first, then major, then minor, then status. Two
// versions are equal exactly when [Compare] returns 0, so "1" and "1.0" are
// the same version.
//
// [Parse] returns a *[ParseError] for malformed input and never panics.
package version
