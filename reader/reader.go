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

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/apiversion/version"
)

// DefaultQueryParameter is read when a Reader is built without carriers.
const DefaultQueryParameter = "api-version"

// Value is one raw version string and the carrier that produced it.
type Value struct {
	Kind    Kind
	Carrier string
	Raw     string
}

// Result is the outcome of reading a request.
//
// When no carrier produced a value, Values is empty and Version is zero.
// Err is nil, or wraps [ErrMalformed] or [ErrAmbiguous].
type Result struct {
	Values  []Value
	Version version.Version
	Err     error
}

// Found reports whether any carrier produced a value.
func (r Result) Found() bool { return len(r.Values) > 0 }

// Raw returns the raw strings in carrier order.
func (r Result) Raw() []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		out[i] = v.Raw
	}

	return out
}

// Source returns the value the version was taken from.
func (r Result) Source() (Value, bool) {
	if r.Err != nil || len(r.Values) == 0 {
		return Value{}, false
	}

	return r.Values[0], true
}

// Reader reads the requested API version from a request using an ordered
// list of carriers. A Reader is immutable and safe for concurrent use.
type Reader struct {
	carriers []Carrier
}

// New returns a Reader for the given carriers.
// Without carriers it reads the [DefaultQueryParameter] query parameter.
//
// Example:
//
//	r, err := reader.New(
//	    reader.Query("api-version"),
//	    reader.Header("Api-Version"),
//	    reader.URLSegment("/api/v{version}/"),
//	)
func New(carriers ...Carrier) (*Reader, error) {
	if len(carriers) == 0 {
		carriers = []Carrier{Query(DefaultQueryParameter)}
	}

	for i, c := range carriers {
		if c == nil {
			return nil, fmt.Errorf("carrier %d: %w", i, ErrNilCarrier)
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("%s carrier %d: %w", c.Kind(), i, err)
		}
	}

	return &Reader{carriers: slices.Clone(carriers)}, nil
}

// MustNew is like [New] but panics on error.
func MustNew(carriers ...Carrier) *Reader {
	r, err := New(carriers...)
	if err != nil {
		panic(err)
	}

	return r
}

// Carriers returns the configured carriers in order.
func (r *Reader) Carriers() []Carrier {
	return slices.Clone(r.carriers)
}

// VaryHeaders returns the request headers that influence the version.
func (r *Reader) VaryHeaders() []string {
	var out []string
	for _, c := range r.carriers {
		switch c := c.(type) {
		case *headerCarrier:
			out = append(out, c.names...)
		case *mediaParamCarrier, *mediaTemplateCarrier:
			out = append(out, "Accept", "Content-Type")
		}
	}

	return uniqueFold(out)
}

// Read extracts the requested version.
//
// Raw strings are collected in carrier order and de-duplicated. Raw strings
// that parse to the same version are not a conflict. Read never panics and
// does not inspect candidates.
func (r *Reader) Read(req Request) Result {
	if req == nil {
		return Result{}
	}

	var values []Value
	seen := make(map[string]struct{})
	for _, c := range r.carriers {
		for _, raw := range nonEmpty(c.read(req)) {
			if _, dup := seen[raw]; dup {
				continue
			}
			seen[raw] = struct{}{}
			values = append(values, Value{Kind: c.Kind(), Carrier: c.Name(), Raw: raw})
		}
	}

	if len(values) == 0 {
		return Result{}
	}

	result := Result{Values: values}
	var (
		chosen   version.Version
		distinct []version.Version
	)
	for i, v := range values {
		parsed, err := version.Parse(v.Raw)
		if err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrMalformed, err)
			return result
		}
		if i == 0 {
			chosen = parsed
		}
		if !version.Contains(distinct, parsed) {
			distinct = append(distinct, parsed)
		}
	}

	if len(distinct) > 1 {
		result.Err = &AmbiguousError{Values: values}
		return result
	}
	result.Version = chosen

	return result
}

// AmbiguousError lists raw values that denote different versions.
type AmbiguousError struct {
	Values []Value
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = v.Kind.String() + " " + strconv.Quote(v.Raw)
	}

	return ErrAmbiguous.Error() + ": " + strings.Join(parts, ", ")
}

// Is reports whether target is [ErrAmbiguous].
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// ParseError returns the version parse error behind a malformed result.
func ParseError(err error) (*version.ParseError, bool) {
	var perr *version.ParseError
	ok := errors.As(err, &perr)

	return perr, ok
}

func uniqueFold(names []string) []string {
	var out []string
	for _, n := range names {
		if !slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, n) }) {
			out = append(out, n)
		}
	}

	return out
}
