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

package errors

import (
	"errors"
	"net/http"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/version"
)

// Problem codes for API version failures.
const (
	CodeInvalid        = "invalid-api-version"
	CodeAmbiguous      = "ambiguous-api-version"
	CodeUnspecified    = "unspecified-api-version"
	CodeUnsupported    = "unsupported-api-version"
	CodeAmbiguousMatch = "ambiguous-endpoint-match"
	CodeNoCandidates   = "no-candidate-endpoints"
	CodeSunset         = "api-version-sunset"
)

// ErrSunset is reported for requests whose API version is past its sunset date.
var ErrSunset = errors.New("API version is no longer supported")

// VersionError adapts a match failure to the [ErrorType], [ErrorCode] and
// [ErrorDetails] interfaces.
//
// Client mistakes (invalid, ambiguous, unspecified and unsupported versions)
// are 400 Bad Request. Ambiguous endpoint matches and empty candidate lists
// are server configuration problems and map to 500.
type VersionError struct {
	Match *matcher.Error
}

// FromMatch wraps a match failure. It returns nil for a nil error.
func FromMatch(err *matcher.Error) error {
	if err == nil {
		return nil
	}

	return &VersionError{Match: err}
}

// Error implements the error interface.
func (e *VersionError) Error() string { return e.Match.Error() }

// Unwrap returns the match failure.
func (e *VersionError) Unwrap() error { return e.Match }

// HTTPStatus implements [ErrorType].
func (e *VersionError) HTTPStatus() int {
	switch e.Match.Kind {
	case matcher.KindAmbiguousMatch, matcher.KindNoCandidates:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Code implements [ErrorCode].
func (e *VersionError) Code() string {
	switch e.Match.Kind {
	case matcher.KindInvalid:
		return CodeInvalid
	case matcher.KindAmbiguous:
		return CodeAmbiguous
	case matcher.KindUnspecified:
		return CodeUnspecified
	case matcher.KindUnsupported:
		return CodeUnsupported
	case matcher.KindAmbiguousMatch:
		return CodeAmbiguousMatch
	default:
		return CodeNoCandidates
	}
}

// Details implements [ErrorDetails]. Endpoint handles are never exposed.
func (e *VersionError) Details() any {
	d := map[string]any{}
	if len(e.Match.Raw) > 0 {
		d["requested"] = e.Match.Raw
	}

	switch e.Match.Kind {
	case matcher.KindInvalid:
		if perr, ok := reader.ParseError(e.Match.Err); ok {
			d["reason"] = perr.Err.Error()
		}
	case matcher.KindUnsupported:
		d["known"] = e.Match.Known
	case matcher.KindAmbiguousMatch:
		d["candidates"] = len(e.Match.Candidates)
	}

	if len(d) == 0 {
		return nil
	}

	return d
}

// SunsetError reports a request for a version past its sunset date.
type SunsetError struct {
	Version version.Version
}

// Error implements the error interface.
func (e *SunsetError) Error() string {
	return "API version " + e.Version.String() + " is no longer supported"
}

// Is reports whether target is [ErrSunset].
func (e *SunsetError) Is(target error) bool { return target == ErrSunset }

// HTTPStatus implements [ErrorType].
func (e *SunsetError) HTTPStatus() int { return http.StatusGone }

// Code implements [ErrorCode].
func (e *SunsetError) Code() string { return CodeSunset }
