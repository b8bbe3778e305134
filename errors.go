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

package apiversion

import "errors"

// Static errors for engine configuration.
// These errors are wrapped with fmt.Errorf and %w by [New].
var (
	ErrNilSelector       = errors.New("selector cannot be nil")
	ErrNilManager        = errors.New("policy manager cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrNilRecorder       = errors.New("metrics recorder cannot be nil")
	ErrNilTracerProvider = errors.New("tracer provider cannot be nil")
	ErrNilClock          = errors.New("clock function cannot be nil")
	ErrEmptyHeaderName   = errors.New("header name cannot be empty")
	ErrInvalidDefault    = errors.New("default version must be a concrete version")
)
