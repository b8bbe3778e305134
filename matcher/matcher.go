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

	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/version"
)

// Specificity ranks how a candidate acquired its version model.
type Specificity uint8

const (
	// Inherited models come from an enclosing group.
	Inherited Specificity = iota
	// Explicit models are mapped on the endpoint itself.
	Explicit
)

// String returns the specificity name.
func (s Specificity) String() string {
	if s == Explicit {
		return "explicit"
	}

	return "inherited"
}

// Candidate is one endpoint that matched the request's route.
// Handle is opaque to the matcher and returned unchanged. Candidates
// without a model never match.
type Candidate struct {
	Model       *model.Model
	Specificity Specificity
	Handle      any
}

// Result is the outcome of a match. Exactly one of Candidate and Err is set.
type Result struct {
	Candidate *Candidate

	// Version is the requested version, or the assumed one when Defaulted.
	// It is zero for a neutral match of an unversioned request.
	Version version.Version

	Deprecated bool
	Defaulted  bool
	Neutral    bool

	Err *Error
}

// OK reports whether an endpoint was selected.
func (r Result) OK() bool { return r.Err == nil && r.Candidate != nil }

// Matcher selects one candidate endpoint for a request.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	selector selector.Selector
}

// Option configures a Matcher.
type Option func(*Matcher) error

// New returns a Matcher. By default a request without a version is
// rejected unless a version-neutral candidate can serve it.
func New(opts ...Option) (*Matcher, error) {
	m := &Matcher{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return m, nil
}

// WithDefaultSelection assumes the version chosen by s when a request does
// not specify one.
func WithDefaultSelection(s selector.Selector) Option {
	return func(m *Matcher) error {
		if s == nil {
			return ErrNilSelector
		}
		m.selector = s

		return nil
	}
}

// AssumesDefault reports whether unversioned requests get a default version.
func (m *Matcher) AssumesDefault() bool { return m.selector != nil }

// Match selects the candidate for the version read from a request.
//
// The returned Candidate points into candidates. Match never panics on
// request input.
func (m *Matcher) Match(read reader.Result, candidates []Candidate) Result {
	if len(candidates) == 0 {
		return failure(&Error{Kind: KindNoCandidates, Raw: read.Raw()})
	}

	if read.Err != nil {
		kind := KindInvalid
		if errors.Is(read.Err, reader.ErrAmbiguous) {
			kind = KindAmbiguous
		}
		return failure(&Error{Kind: kind, Raw: read.Raw(), Err: read.Err})
	}

	requested := read.Version
	defaulted := false
	if requested.IsZero() {
		if m.selector == nil {
			return m.matchUnversioned(candidates)
		}
		requested = m.selector.Select(Models(candidates))
		defaulted = true
	}

	res := m.matchVersion(requested, candidates)
	res.Defaulted = defaulted && res.Err == nil
	if res.Err != nil {
		res.Err.Raw = read.Raw()
	}

	return res
}

func (m *Matcher) matchUnversioned(candidates []Candidate) Result {
	neutral := filter(candidates, isNeutral)

	switch {
	case len(neutral) == 1:
		return Result{Candidate: neutral[0], Neutral: true}
	case len(neutral) > 1:
		return failure(&Error{Kind: KindAmbiguousMatch, Candidates: neutral})
	default:
		return failure(&Error{Kind: KindUnspecified})
	}
}

func (m *Matcher) matchVersion(v version.Version, candidates []Candidate) Result {
	if v.IsZero() {
		return m.matchUnversioned(candidates)
	}

	matches := filter(candidates, func(c *Candidate) bool {
		return c.Model != nil && !c.Model.IsNeutral() && c.Model.Implements(v)
	})

	switch len(matches) {
	case 0:
		neutral := filter(candidates, isNeutral)
		switch {
		case len(neutral) == 1:
			return Result{Candidate: neutral[0], Version: v, Neutral: true}
		case len(neutral) > 1:
			return failure(&Error{Kind: KindAmbiguousMatch, Version: v, Candidates: neutral})
		}

		known := false
		for i := range candidates {
			if c := &candidates[i]; c.Model != nil && c.Model.Mentions(v) {
				known = true
				break
			}
		}
		return failure(&Error{Kind: KindUnsupported, Version: v, Known: known})

	case 1:
		return selected(matches[0], v)
	}

	best := matches[0].Specificity
	for _, c := range matches[1:] {
		best = max(best, c.Specificity)
	}
	var top []*Candidate
	for _, c := range matches {
		if c.Specificity == best {
			top = append(top, c)
		}
	}
	if len(top) == 1 {
		return selected(top[0], v)
	}

	return failure(&Error{Kind: KindAmbiguousMatch, Version: v, Candidates: top})
}

func selected(c *Candidate, v version.Version) Result {
	return Result{
		Candidate:  c,
		Version:    v,
		Deprecated: c.Model.IsDeprecated(v),
	}
}

func failure(err *Error) Result {
	return Result{Err: err, Version: err.Version}
}

func isNeutral(c *Candidate) bool {
	return c.Model != nil && c.Model.IsNeutral()
}

func filter(candidates []Candidate, keep func(*Candidate) bool) []*Candidate {
	var out []*Candidate
	for i := range candidates {
		if keep(&candidates[i]) {
			out = append(out, &candidates[i])
		}
	}

	return out
}

// Models returns the distinct models of candidates.
func Models(candidates []Candidate) []*model.Model {
	return model.Models(candidates, func(c Candidate) *model.Model { return c.Model })
}
