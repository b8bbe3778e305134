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

package config

import (
	"errors"
	"fmt"
)

// Static errors returned by the loader.
var (
	ErrNilSource     = errors.New("source cannot be nil")
	ErrNilValidator  = errors.New("validator cannot be nil")
	ErrNilContext    = errors.New("context cannot be nil")
	ErrUnknownFormat = errors.New("unknown settings format")
	ErrInvalidReader = errors.New("invalid reader settings")
	ErrNotLoaded     = errors.New("settings have not been loaded")
)

// Error describes a failure while loading or checking settings.
type Error struct {
	Source    string // "source[1]", "json-schema", "settings"
	Field     string // dotted settings key, when known
	Operation string // "load", "merge", "validate", "bind", "build"
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s %s at %s: %v", e.Operation, e.Source, e.Field, e.Err)
	}

	return fmt.Sprintf("config: %s %s: %v", e.Operation, e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// NewError returns an [Error] without a field.
func NewError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// NewFieldError returns an [Error] for a single settings key.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
