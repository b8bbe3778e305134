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

//go:build !integration

package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/selector"
	"rivaas.dev/apiversion/version"
)

func requested(raw string) reader.Result {
	return reader.Result{
		Values:  []reader.Value{{Kind: reader.KindQuery, Carrier: "api-version", Raw: raw}},
		Version: version.MustParse(raw),
	}
}

func supports(raws ...string) *model.Model {
	opts := make([]model.Option, 0, len(raws))
	for _, raw := range raws {
		opts = append(opts, model.Supports(version.MustParse(raw)))
	}

	return model.MustNew(opts...)
}

func TestMatchSelectsImplementingCandidate(t *testing.T) {
	t.Parallel()

	m, err := New()
	require.NoError(t, err)

	candidates := []Candidate{
		{Model: supports("1.0"), Handle: "A"},
		{Model: supports("2.0"), Handle: "B"},
	}

	res := m.Match(requested("2.0"), candidates)
	require.True(t, res.OK())
	assert.Equal(t, "B", res.Candidate.Handle)
	assert.Same(t, &candidates[1], res.Candidate)
	assert.Equal(t, "2.0", res.Version.String())
	assert.False(t, res.Deprecated)
	assert.False(t, res.Defaulted)
}

func TestMatchDeprecated(t *testing.T) {
	t.Parallel()

	m, _ := New()
	legacy := model.MustNew(
		model.Supports(version.New(2, 0)),
		model.Deprecates(version.New(1, 0)),
	)

	res := m.Match(requested("1"), []Candidate{{Model: legacy, Handle: "A"}})
	require.True(t, res.OK())
	assert.True(t, res.Deprecated)
}

func TestMatchUnsupported(t *testing.T) {
	t.Parallel()

	m, _ := New()
	a := model.MustNew(model.Supports(version.New(1, 0)), model.Advertises(version.New(3, 0)))
	candidates := []Candidate{{Model: a, Handle: "A"}, {Model: supports("2.0"), Handle: "B"}}

	res := m.Match(requested("3.0"), candidates)
	require.False(t, res.OK())
	assert.Equal(t, KindUnsupported, res.Err.Kind)
	assert.True(t, res.Err.Known)
	assert.ErrorIs(t, res.Err, ErrUnsupported)
	assert.Equal(t, []string{"3.0"}, res.Err.Raw)

	res = m.Match(requested("9.0"), candidates)
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUnsupported, res.Err.Kind)
	assert.False(t, res.Err.Known)
	assert.Contains(t, res.Err.Error(), `"9.0"`)
}

func TestMatchUnspecified(t *testing.T) {
	t.Parallel()

	m, _ := New()
	res := m.Match(reader.Result{}, []Candidate{{Model: supports("1.0"), Handle: "A"}})
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUnspecified, res.Err.Kind)
	assert.ErrorIs(t, res.Err, ErrUnspecified)
	assert.False(t, m.AssumesDefault())
}

func TestMatchAssumeDefault(t *testing.T) {
	t.Parallel()

	m, err := New(WithDefaultSelection(selector.CurrentImplementation(version.New(1, 0))))
	require.NoError(t, err)
	assert.True(t, m.AssumesDefault())

	candidates := []Candidate{
		{Model: supports("1.0"), Handle: "A"},
		{Model: supports("2.0"), Handle: "B"},
	}
	res := m.Match(reader.Result{}, candidates)
	require.True(t, res.OK())
	assert.Equal(t, "B", res.Candidate.Handle)
	assert.True(t, res.Defaulted)
	assert.Equal(t, "2.0", res.Version.String())

	constant, _ := New(WithDefaultSelection(selector.Constant(version.New(5, 0))))
	res = constant.Match(reader.Result{}, candidates)
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUnsupported, res.Err.Kind)
	assert.False(t, res.Defaulted)

	_, err = New(WithDefaultSelection(nil))
	assert.ErrorIs(t, err, ErrNilSelector)
}

func TestMatchSpecificity(t *testing.T) {
	t.Parallel()

	m, _ := New()
	group := supports("1.0", "2.0")

	t.Run("explicit wins", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{
			{Model: group, Specificity: Inherited, Handle: "inherited"},
			{Model: supports("2.0"), Specificity: Explicit, Handle: "explicit"},
		}
		res := m.Match(requested("2.0"), candidates)
		require.True(t, res.OK())
		assert.Equal(t, "explicit", res.Candidate.Handle)
	})

	t.Run("tie is ambiguous", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{
			{Model: group, Specificity: Inherited, Handle: "first"},
			{Model: group, Specificity: Inherited, Handle: "second"},
			{Model: supports("1.0"), Specificity: Inherited, Handle: "other"},
		}
		res := m.Match(requested("2.0"), candidates)
		require.NotNil(t, res.Err)
		assert.Equal(t, KindAmbiguousMatch, res.Err.Kind)
		assert.ElementsMatch(t, []any{"first", "second"}, res.Err.Handles())
		assert.ErrorIs(t, res.Err, ErrAmbiguousMatch)
	})

	t.Run("explicit tie is ambiguous", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{
			{Model: group, Specificity: Inherited, Handle: "inherited"},
			{Model: supports("2.0"), Specificity: Explicit, Handle: "x"},
			{Model: supports("2.0"), Specificity: Explicit, Handle: "y"},
		}
		res := m.Match(requested("2.0"), candidates)
		require.NotNil(t, res.Err)
		assert.ElementsMatch(t, []any{"x", "y"}, res.Err.Handles())
	})
}

func TestMatchNeutral(t *testing.T) {
	t.Parallel()

	m, _ := New()
	neutral := model.MustNew(model.VersionNeutral())

	t.Run("unversioned request", func(t *testing.T) {
		t.Parallel()
		res := m.Match(reader.Result{}, []Candidate{{Model: neutral, Handle: "N"}})
		require.True(t, res.OK())
		assert.True(t, res.Neutral)
		assert.True(t, res.Version.IsZero())
	})

	t.Run("claimed version prefers versioned candidate", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{{Model: neutral, Handle: "N"}, {Model: supports("1.0"), Handle: "A"}}
		res := m.Match(requested("1.0"), candidates)
		require.True(t, res.OK())
		assert.Equal(t, "A", res.Candidate.Handle)
		assert.False(t, res.Neutral)
	})

	t.Run("unclaimed version", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{{Model: neutral, Handle: "N"}, {Model: supports("1.0"), Handle: "A"}}
		res := m.Match(requested("7.0"), candidates)
		require.True(t, res.OK())
		assert.Equal(t, "N", res.Candidate.Handle)
		assert.True(t, res.Neutral)
		assert.Equal(t, "7.0", res.Version.String())
	})

	t.Run("several neutral", func(t *testing.T) {
		t.Parallel()
		candidates := []Candidate{{Model: neutral, Handle: "N1"}, {Model: neutral, Handle: "N2"}}
		res := m.Match(requested("1.0"), candidates)
		require.NotNil(t, res.Err)
		assert.Equal(t, KindAmbiguousMatch, res.Err.Kind)

		res = m.Match(reader.Result{}, candidates)
		require.NotNil(t, res.Err)
		assert.Equal(t, KindAmbiguousMatch, res.Err.Kind)
	})
}

func TestMatchReaderErrors(t *testing.T) {
	t.Parallel()

	m, _ := New()
	candidates := []Candidate{{Model: supports("1.0"), Handle: "A"}}
	r := reader.MustNew(reader.Query("api-version"), reader.Header("Api-Version"))

	malformed := reader.Result{
		Values: []reader.Value{{Kind: reader.KindQuery, Raw: "abc"}},
		Err:    reader.ErrMalformed,
	}
	res := m.Match(malformed, candidates)
	require.NotNil(t, res.Err)
	assert.Equal(t, KindInvalid, res.Err.Kind)
	assert.ErrorIs(t, res.Err, ErrInvalid)
	assert.ErrorIs(t, res.Err, reader.ErrMalformed)
	assert.Equal(t, []string{"abc"}, res.Err.Raw)

	ambiguous := r.Read(fakeRequest{query: "1.0", header: "2.0"})
	res = m.Match(ambiguous, candidates)
	require.NotNil(t, res.Err)
	assert.Equal(t, KindAmbiguous, res.Err.Kind)
	assert.ErrorIs(t, res.Err, ErrAmbiguous)
	assert.ErrorIs(t, res.Err, reader.ErrAmbiguous)
	assert.Equal(t, []string{"1.0", "2.0"}, res.Err.Raw)
}

func TestMatchNoCandidates(t *testing.T) {
	t.Parallel()

	m, _ := New()
	res := m.Match(requested("1.0"), nil)
	require.NotNil(t, res.Err)
	assert.Equal(t, KindNoCandidates, res.Err.Kind)

	res = m.Match(requested("1.0"), []Candidate{{Handle: "no model"}})
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUnsupported, res.Err.Kind)
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindNoCandidates, KindInvalid, KindAmbiguous, KindUnspecified, KindUnsupported, KindAmbiguousMatch} {
		err := &Error{Kind: kind}
		assert.NotEmpty(t, err.Error())
		assert.True(t, errors.Is(err, kind.sentinel()), kind.String())
		assert.NotEqual(t, "unknown", kind.String())
	}
	assert.Equal(t, "match failed: none", (&Error{}).Error())
	assert.Equal(t, "explicit", Explicit.String())
	assert.Equal(t, "inherited", Inherited.String())
}

type fakeRequest struct {
	query  string
	header string
}

func (f fakeRequest) Query(string) []string            { return []string{f.query} }
func (f fakeRequest) Header(string) []string           { return []string{f.header} }
func (f fakeRequest) Path() string                     { return "/" }
func (f fakeRequest) RouteValue(string) (string, bool) { return "", false }
