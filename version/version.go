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
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Version is an immutable API version.
//
// A version has an optional group version (a calendar date), an optional
// major and minor number, and an optional status label such as "beta".
// The zero Version is unspecified. [Neutral] is a sentinel that applies to
// every version.
type Version struct {
	group    time.Time
	major    int
	minor    int
	status   string
	hasMajor bool
	hasMinor bool
	neutral  bool
}

// Neutral is the version of endpoints that serve any requested version.
var Neutral = Version{neutral: true}

// New returns the version major.minor. Both numbers must be non-negative.
func New(major, minor int) Version {
	if major < 0 || minor < 0 {
		panic("version: negative version number")
	}

	return Version{major: major, minor: minor, hasMajor: true, hasMinor: true}
}

// Major returns a version with only a major number.
func Major(major int) Version {
	if major < 0 {
		panic("version: negative version number")
	}

	return Version{major: major, hasMajor: true}
}

// Date returns a group version for the given calendar date.
func Date(year int, month time.Month, day int) Version {
	return Version{group: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// WithStatus returns a copy of v labeled with status.
// An empty status removes the label.
func (v Version) WithStatus(status string) (Version, error) {
	if v.IsZero() || v.neutral {
		return Version{}, &ParseError{Raw: status, Err: ErrInvalidFormat}
	}
	if status != "" && !validStatus(status) {
		return Version{}, &ParseError{Raw: status, Err: ErrInvalidStatus}
	}
	v.status = status

	return v, nil
}

// Major returns the major number and whether it is set.
func (v Version) Major() (int, bool) { return v.major, v.hasMajor }

// Minor returns the minor number and whether it is set.
func (v Version) Minor() (int, bool) { return v.minor, v.hasMinor }

// Status returns the status label, or "" when there is none.
func (v Version) Status() string { return v.status }

// Group returns the group version date and whether it is set.
func (v Version) Group() (time.Time, bool) { return v.group, !v.group.IsZero() }

// IsNeutral reports whether v is the [Neutral] sentinel.
func (v Version) IsNeutral() bool { return v.neutral }

// IsZero reports whether v is unspecified.
func (v Version) IsZero() bool {
	return !v.neutral && !v.hasMajor && v.group.IsZero()
}

// IsPrerelease reports whether v carries a status label.
func (v Version) IsPrerelease() bool { return v.status != "" }

// rank orders the unspecified version, real versions and the neutral sentinel.
func (v Version) rank() int {
	switch {
	case v.neutral:
		return 2
	case v.IsZero():
		return 0
	default:
		return 1
	}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
//
// Group versions compare first and a missing group sorts first. Missing major
// and minor numbers compare as 0. A version without a status sorts after the
// same version with any status, and statuses compare case-insensitively.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 || a.rank() != 1 {
		return c
	}

	ag, bg := a.group.IsZero(), b.group.IsZero()
	switch {
	case ag && !bg:
		return -1
	case !ag && bg:
		return 1
	}
	if c := a.group.Compare(b.group); c != 0 {
		return c
	}
	if c := cmp.Compare(a.major, b.major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.minor, b.minor); c != 0 {
		return c
	}

	switch {
	case a.status == "" && b.status == "":
		return 0
	case a.status == "":
		return 1
	case b.status == "":
		return -1
	}

	return strings.Compare(strings.ToLower(a.status), strings.ToLower(b.status))
}

// Compare compares v with o. See [Compare].
func (v Version) Compare(o Version) int { return Compare(v, o) }

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool { return Compare(v, o) == 0 }

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return Compare(v, o) < 0 }

// Key returns a normalized representation of v. Two versions have the same
// key exactly when they are [Version.Equal].
func (v Version) Key() string {
	switch v.rank() {
	case 0:
		return ""
	case 2:
		return "*"
	}

	var b strings.Builder
	if !v.group.IsZero() {
		b.WriteString(v.group.Format(dateLayout))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(v.major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.minor))
	if v.status != "" {
		b.WriteByte('-')
		b.WriteString(strings.ToLower(v.status))
	}

	return b.String()
}

// String returns the canonical form of v.
func (v Version) String() string {
	switch v.rank() {
	case 0:
		return ""
	case 2:
		return "neutral"
	}

	var b strings.Builder
	if !v.group.IsZero() {
		b.WriteString(v.group.Format(dateLayout))
	}
	if v.hasMajor {
		if !v.group.IsZero() {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(v.major))
		if v.hasMinor {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(v.minor))
		}
	}
	if v.status != "" {
		b.WriteByte('-')
		b.WriteString(v.status)
	}

	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Empty input yields the zero Version.
func (v *Version) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*v = Version{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed

	return nil
}

// Sort sorts versions in ascending order.
func Sort(versions []Version) {
	slices.SortFunc(versions, Compare)
}

// Contains reports whether versions holds a version equal to v.
func Contains(versions []Version, v Version) bool {
	return slices.ContainsFunc(versions, v.Equal)
}

// Max returns the greatest version, or the zero Version when versions is empty.
func Max(versions []Version) Version {
	if len(versions) == 0 {
		return Version{}
	}

	return slices.MaxFunc(versions, Compare)
}

// Min returns the least version, or the zero Version when versions is empty.
func Min(versions []Version) Version {
	if len(versions) == 0 {
		return Version{}
	}

	return slices.MinFunc(versions, Compare)
}

// Join formats versions with sep.
func Join(versions []Version, sep string) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = v.String()
	}

	return strings.Join(parts, sep)
}
