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

package matcher

import (
	"errors"
	"fmt"
	"strings"

	"rivaas.dev/apiversion/version"
)

// Kind classifies why no endpoint was selected.
type Kind uint8

// Failure kinds.
const (
	// KindNone means the match succeeded.
	KindNone Kind = iota
	// KindNoCandidates means the host supplied no candidates.
	KindNoCandidates
	// KindInvalid means the requested version was malformed.
	KindInvalid
	// KindAmbiguous means the request carried conflicting versions.
	KindAmbiguous
	// KindUnspecified means no version was given and none may be assumed.
	KindUnspecified
	// KindUnsupported means no candidate implements the requested version.
	KindUnsupported
	// KindAmbiguousMatch means several equally specific candidates qualify.
	KindAmbiguousMatch
)

// String returns the kind name used in logs, metrics and problem codes.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNoCandidates:
		return "no_candidates"
	case KindInvalid:
		return "invalid"
	case KindAmbiguous:
		return "ambiguous"
	case KindUnspecified:
		return "unspecified"
	case KindUnsupported:
		return "unsupported"
	case KindAmbiguousMatch:
		return "ambiguous_match"
	default:
		return "unknown"
	}
}

// Sentinels matched by [Error.Is].
var (
	ErrNoCandidates   = errors.New("no candidate endpoints")
	ErrInvalid        = errors.New("invalid API version")
	ErrAmbiguous      = errors.New("ambiguous API version")
	ErrUnspecified    = errors.New("API version required")
	ErrUnsupported    = errors.New("unsupported API version")
	ErrAmbiguousMatch = errors.New("ambiguous endpoint match")
)

// ErrNilSelector is returned by [WithDefaultSelection] when given nil.
var ErrNilSelector = errors.New("selector cannot be nil")

func (k Kind) sentinel() error {
	switch k {
	case KindNoCandidates:
		return ErrNoCandidates
	case KindInvalid:
		return ErrInvalid
	case KindAmbiguous:
		return ErrAmbiguous
	case KindUnspecified:
		return ErrUnspecified
	case KindUnsupported:
		return ErrUnsupported
	case KindAmbiguousMatch:
		return ErrAmbiguousMatch
	default:
		return nil
	}
}

// Error is a classified match failure.
type Error struct {
	Kind Kind

	// Version is the requested or assumed version, if any.
	Version version.Version

	// Raw holds the raw strings the request carried.
	Raw []string

	// Candidates lists the tied candidates of an ambiguous match.
	Candidates []*Candidate

	// Known is set for unsupported versions that some candidate declares
	// or advertises.
	Known bool

	// Err is the underlying reader error for invalid and ambiguous requests.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	sentinel := e.Kind.sentinel()
	if sentinel == nil {
		return "match failed: " + e.Kind.String()
	}

	var b strings.Builder
	b.WriteString(sentinel.Error())

	switch e.Kind {
	case KindUnsupported:
		fmt.Fprintf(&b, ": %q", e.Version.String())
		if e.Known {
			b.WriteString(" is not implemented by the matched endpoints")
		}
	case KindAmbiguousMatch:
		fmt.Fprintf(&b, ": %d candidates", len(e.Candidates))
		if !e.Version.IsZero() {
			fmt.Fprintf(&b, " for %q", e.Version.String())
		}
	case KindInvalid, KindAmbiguous:
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	}

	return b.String()
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Unwrap returns the underlying reader error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Handles returns the handles of the tied candidates.
func (e *Error) Handles() []any {
	out := make([]any, len(e.Candidates))
	for i, c := range e.Candidates {
		out[i] = c.Handle
	}

	return out
}
