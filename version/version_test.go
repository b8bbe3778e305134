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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOrdering(t *testing.T) {
	t.Parallel()

	ascending := []string{
		"0.9",
		"1.0-alpha",
		"1.0-Beta",
		"1.0",
		"1.1",
		"2-rc",
		"2",
		"10.0",
		"2020-01-01",
		"2020-01-01.1.0",
		"2021-06-30-preview",
		"2021-06-30",
	}

	for i := range ascending {
		for j := range ascending {
			a, b := MustParse(ascending[i]), MustParse(ascending[j])
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			assert.Equal(t, want, Compare(a, b), "%s vs %s", ascending[i], ascending[j])
		}
	}
}

func TestEqualConsistentWithCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b  string
		equal bool
	}{
		{a: "1", b: "1.0", equal: true},
		{a: "v1", b: "1.0", equal: true},
		{a: "1.0-beta", b: "1.0-BETA", equal: true},
		{a: "1.0-beta", b: "1.0", equal: false},
		{a: "2020-01-01", b: "2020-01-01.0.0", equal: true},
		{a: "2020-01-01", b: "2020-01-02", equal: false},
		{a: "1.0", b: "1.1", equal: false},
	}

	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		assert.Equal(t, tt.equal, a.Equal(b), "%s == %s", tt.a, tt.b)
		assert.Equal(t, tt.equal, Compare(a, b) == 0, "%s cmp %s", tt.a, tt.b)
		assert.Equal(t, tt.equal, a.Key() == b.Key(), "%s key %s", tt.a, tt.b)
	}
}

func TestNeutralAndZero(t *testing.T) {
	t.Parallel()

	var zero Version
	one := New(1, 0)

	assert.True(t, zero.IsZero())
	assert.False(t, Neutral.IsZero())
	assert.True(t, Neutral.IsNeutral())

	assert.Equal(t, -1, Compare(zero, one))
	assert.Equal(t, 1, Compare(Neutral, one))
	assert.Equal(t, 1, Compare(Neutral, Date(2099, time.December, 31)))
	assert.True(t, Neutral.Equal(Neutral))
	assert.False(t, zero.Equal(New(0, 0)))

	assert.Empty(t, zero.String())
	assert.Equal(t, "neutral", Neutral.String())
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2", New(1, 2).String())
	assert.Equal(t, "3", Major(3).String())
	assert.Equal(t, "2024-03-01", Date(2024, time.March, 1).String())

	beta, err := New(1, 0).WithStatus("beta")
	require.NoError(t, err)
	assert.Equal(t, "1.0-beta", beta.String())
	assert.True(t, beta.IsPrerelease())

	_, err = New(1, 0).WithStatus("9x")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = Version{}.WithStatus("beta")
	require.ErrorIs(t, err, ErrInvalidFormat)

	assert.Panics(t, func() { New(-1, 0) })
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	vs := []Version{MustParse("2.0"), MustParse("1.0-beta"), MustParse("1.0")}
	Sort(vs)
	assert.Equal(t, "1.0-beta, 1.0, 2.0", Join(vs, ", "))
	assert.Equal(t, "2.0", Max(vs).String())
	assert.Equal(t, "1.0-beta", Min(vs).String())
	assert.True(t, Contains(vs, Major(1)))
	assert.False(t, Contains(vs, Major(3)))
	assert.True(t, Max(nil).IsZero())
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()

	text, err := MustParse("2.1-rc").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.1-rc", string(text))

	var v Version
	require.NoError(t, v.UnmarshalText([]byte("2024-05-01")))
	assert.Equal(t, "2024-05-01", v.String())

	require.NoError(t, v.UnmarshalText(nil))
	assert.True(t, v.IsZero())

	assert.Error(t, v.UnmarshalText([]byte("1.x")))
}
