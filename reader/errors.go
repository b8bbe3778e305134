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

import "errors"

// Request-time errors reported in [Result.Err].
var (
	ErrMalformed = errors.New("malformed API version")
	ErrAmbiguous = errors.New("ambiguous API version")
)

// Static errors for reader configuration.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	ErrNilCarrier                = errors.New("carrier cannot be nil")
	ErrEmptyName                 = errors.New("carrier name cannot be empty")
	ErrEmptyPattern              = errors.New("pattern cannot be empty")
	ErrMissingVersionPlaceholder = errors.New("pattern must contain {version} placeholder")
	ErrInvalidPattern            = errors.New("path pattern must start with /")
)
