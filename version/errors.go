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

package version

import (
	"errors"
	"fmt"
)

// Static errors for version parsing.
// These errors are wrapped in a *ParseError that carries the offending input.
var (
	ErrEmpty               = errors.New("version cannot be empty")
	ErrInvalidFormat       = errors.New("invalid version format")
	ErrEmptySegment        = errors.New("version contains an empty segment")
	ErrOutOfRange          = errors.New("version number out of range")
	ErrInvalidStatus       = errors.New("status must start with a letter and contain only letters and digits")
	ErrInvalidGroupVersion = errors.New("group version must be a valid yyyy-MM-dd date")
)

// ParseError describes a version literal that could not be parsed.
type ParseError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse version %q: %v", e.Raw, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
