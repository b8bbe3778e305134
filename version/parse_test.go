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

package version

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		major     int
		hasMajor  bool
		minor     int
		hasMinor  bool
		status    string
		group     string
		canonical string
	}{
		{name: "major only", raw: "1", major: 1, hasMajor: true, canonical: "1"},
		{name: "major minor", raw: "1.0", major: 1, hasMajor: true, hasMinor: true, canonical: "1.0"},
		{name: "status", raw: "2.1-beta", major: 2, hasMajor: true, minor: 1, hasMinor: true, status: "beta", canonical: "2.1-beta"},
		{name: "major with status", raw: "3-rc1", major: 3, hasMajor: true, status: "rc1", canonical: "3-rc1"},
		{name: "leading v", raw: "v2", major: 2, hasMajor: true, canonical: "2"},
		{name: "leading upper V", raw: "V2.5", major: 2, hasMajor: true, minor: 5, hasMinor: true, canonical: "2.5"},
		{name: "group", raw: "2024-01-15", group: "2024-01-15", canonical: "2024-01-15"},
		{name: "group with status", raw: "2024-01-15-preview", group: "2024-01-15", status: "preview", canonical: "2024-01-15-preview"},
		{name: "group with numbers", raw: "2024-01-15.1.0", group: "2024-01-15", major: 1, hasMajor: true, hasMinor: true, canonical: "2024-01-15.1.0"},
		{name: "group with major and status", raw: "2024-01-15.2-beta", group: "2024-01-15", major: 2, hasMajor: true, status: "beta", canonical: "2024-01-15.2-beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := Parse(tt.raw)
			require.NoError(t, err)

			major, hasMajor := v.Major()
			minor, hasMinor := v.Minor()
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.hasMajor, hasMajor)
			assert.Equal(t, tt.minor, minor)
			assert.Equal(t, tt.hasMinor, hasMinor)
			assert.Equal(t, tt.status, v.Status())

			group, hasGroup := v.Group()
			if tt.group == "" {
				assert.False(t, hasGroup)
			} else {
				assert.True(t, hasGroup)
				assert.Equal(t, tt.group, group.Format(time.DateOnly))
			}
			assert.Equal(t, tt.canonical, v.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw string
		err error
	}{
		{raw: "", err: ErrEmpty},
		{raw: "1.", err: ErrEmptySegment},
		{raw: ".1", err: ErrEmptySegment},
		{raw: "1..0", err: ErrInvalidFormat},
		{raw: "1.0-", err: ErrEmptySegment},
		{raw: "-beta", err: ErrEmptySegment},
		{raw: "1.0-1beta", err: ErrInvalidStatus},
		{raw: "1.0-be ta", err: ErrInvalidStatus},
		{raw: "1.0-beta.1", err: ErrInvalidStatus},
		{raw: "1.2.3", err: ErrInvalidFormat},
		{raw: "abc", err: ErrInvalidFormat},
		{raw: " 1.0", err: ErrInvalidFormat},
		{raw: "v", err: ErrInvalidFormat},
		{raw: "vv1", err: ErrInvalidFormat},
		{raw: "99999999999999999999", err: ErrOutOfRange},
		{raw: "2024-13-01", err: ErrInvalidGroupVersion},
		{raw: "2024-02-30", err: ErrInvalidGroupVersion},
		{raw: "2024-01-15-", err: ErrEmptySegment},
		{raw: "2024-01-15.", err: ErrEmptySegment},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.raw, perr.Raw)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	literals := []string{
		"0", "1", "1.0", "10.42", "1-alpha", "1.0-Beta2",
		"2023-06-01", "2023-06-01-rc", "2023-06-01.3", "2023-06-01.3.1-preview",
	}
	for _, raw := range literals {
		v := MustParse(raw)
		again, err := Parse(v.Format("F"))
		require.NoError(t, err, raw)
		assert.True(t, v.Equal(again), raw)
		assert.Equal(t, raw, again.String())
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParse("x") })
	assert.NotPanics(t, func() { MustParse("1.0") })
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	vs, err := ParseAll("1.0", "2.0")
	require.NoError(t, err)
	assert.Len(t, vs, 2)

	_, err = ParseAll("1.0", "nope")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
