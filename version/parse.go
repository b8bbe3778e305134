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
	"strconv"
	"strings"
	"time"
)

// Parse parses a version literal.
//
// Accepted forms:
//
//	1              major
//	1.0            major.minor
//	1.0-beta       major.minor-status
//	1-beta         major-status
//	v2, V2.1       numeric forms with a leading v
//	2024-01-15     group version
//	2024-01-15-rc  group version with status
//	2024-01-15.1.0 group version with major.minor (and optional status)
//
// Parse never panics; malformed input returns a *ParseError.
func Parse(raw string) (Version, error) {
	v, err := parse(raw)
	if err != nil {
		return Version{}, &ParseError{Raw: raw, Err: err}
	}

	return v, nil
}

// MustParse is like [Parse] but panics on error.
// It is intended for static declarations at startup.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return v
}

// ParseAll parses every literal, stopping at the first error.
func ParseAll(raws ...string) ([]Version, error) {
	out := make([]Version, 0, len(raws))
	for _, raw := range raws {
		v, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmpty
	}

	if looksLikeDate(s) {
		return parseGroup(s)
	}

	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && isDigit(s[1]) {
		s = s[1:]
	}

	var v Version
	if err := parseNumeric(s, &v); err != nil {
		return Version{}, err
	}

	return v, nil
}

func parseGroup(s string) (Version, error) {
	group, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return Version{}, ErrInvalidGroupVersion
	}

	v := Version{group: group}
	rest := s[len(dateLayout):]
	switch {
	case rest == "":
		return v, nil
	case rest[0] == '.':
		if err := parseNumeric(rest[1:], &v); err != nil {
			return Version{}, err
		}
		return v, nil
	case rest[0] == '-':
		status := rest[1:]
		if status == "" {
			return Version{}, ErrEmptySegment
		}
		if !validStatus(status) {
			return Version{}, ErrInvalidStatus
		}
		v.status = status
		return v, nil
	default:
		return Version{}, ErrInvalidFormat
	}
}

// parseNumeric parses major[.minor][-status] into v.
func parseNumeric(s string, v *Version) error {
	num, status, hasStatus := strings.Cut(s, "-")
	if hasStatus {
		if status == "" {
			return ErrEmptySegment
		}
		if !validStatus(status) {
			return ErrInvalidStatus
		}
	}

	parts := strings.Split(num, ".")
	if len(parts) > 2 {
		return ErrInvalidFormat
	}

	numbers := make([]int, len(parts))
	for i, p := range parts {
		n, err := parseNumber(p)
		if err != nil {
			return err
		}
		numbers[i] = n
	}

	v.major, v.hasMajor = numbers[0], true
	if len(numbers) == 2 {
		v.minor, v.hasMinor = numbers[1], true
	}
	v.status = status

	return nil
}

func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, ErrEmptySegment
	}
	for i := range len(s) {
		if !isDigit(s[i]) {
			return 0, ErrInvalidFormat
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrOutOfRange
		}
		return 0, ErrInvalidFormat
	}

	return n, nil
}

// looksLikeDate reports whether s starts with a dddd-dd-dd prefix that is
// either the whole input or followed by '.' or '-'.
func looksLikeDate(s string) bool {
	if len(s) < len(dateLayout) {
		return false
	}
	for i := range len(dateLayout) {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if !isDigit(s[i]) {
				return false
			}
		}
	}
	if len(s) == len(dateLayout) {
		return true
	}

	next := s[len(dateLayout)]
	return next == '.' || next == '-'
}

func validStatus(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
