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

package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"rivaas.dev/apiversion/version"
)

// Model is the immutable version model of one endpoint.
//
// Supported and deprecated versions are implemented by the endpoint.
// Advertised versions are implemented elsewhere but reported by it.
// A neutral model accepts any version and declares none.
type Model struct {
	name                 string
	neutral              bool
	supported            []version.Version
	deprecated           []version.Version
	advertised           []version.Version
	deprecatedAdvertised []version.Version
}

// Option configures a Model.
type Option func(*Model) error

// New builds a Model and checks its invariants.
//
// Example:
//
//	m, err := model.New(
//	    model.Named("orders"),
//	    model.Supports(version.New(2, 0)),
//	    model.Deprecates(version.New(1, 0)),
//	)
func New(opts ...Option) (*Model, error) {
	m := &Model{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.supported = normalize(m.supported)
	m.deprecated = normalize(m.deprecated)
	m.advertised = normalize(m.advertised)
	m.deprecatedAdvertised = normalize(m.deprecatedAdvertised)

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	return m, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Model {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return m
}

func (m *Model) validate() error {
	all := slices.Concat(m.supported, m.deprecated, m.advertised, m.deprecatedAdvertised)
	for _, v := range all {
		if v.IsZero() || v.IsNeutral() {
			return fmt.Errorf("%w: %q", ErrInvalidVersion, v.String())
		}
	}

	if m.neutral {
		if len(all) > 0 {
			return ErrNeutralWithVersions
		}
		return nil
	}

	if len(m.supported) == 0 && len(m.deprecated) == 0 {
		return ErrNoVersions
	}

	if overlap := intersect(m.supported, m.deprecated); len(overlap) > 0 {
		return fmt.Errorf("%w: %s", ErrOverlap, version.Join(overlap, ", "))
	}

	implemented := m.Implemented()
	advertised := slices.Concat(m.advertised, m.deprecatedAdvertised)
	if overlap := intersect(implemented, advertised); len(overlap) > 0 {
		return fmt.Errorf("%w: %s", ErrAdvertisedImplemented, version.Join(overlap, ", "))
	}

	return nil
}

// Named sets the logical API name used for policy lookup.
func Named(name string) Option {
	return func(m *Model) error {
		m.name = name
		return nil
	}
}

// Supports adds supported versions.
func Supports(versions ...version.Version) Option {
	return func(m *Model) error {
		m.supported = append(m.supported, versions...)
		return nil
	}
}

// Deprecates adds deprecated versions. They are still implemented.
func Deprecates(versions ...version.Version) Option {
	return func(m *Model) error {
		m.deprecated = append(m.deprecated, versions...)
		return nil
	}
}

// Advertises adds supported versions implemented elsewhere.
func Advertises(versions ...version.Version) Option {
	return func(m *Model) error {
		m.advertised = append(m.advertised, versions...)
		return nil
	}
}

// AdvertisesDeprecated adds deprecated versions implemented elsewhere.
func AdvertisesDeprecated(versions ...version.Version) Option {
	return func(m *Model) error {
		m.deprecatedAdvertised = append(m.deprecatedAdvertised, versions...)
		return nil
	}
}

// VersionNeutral marks the model as accepting any version.
func VersionNeutral() Option {
	return func(m *Model) error {
		m.neutral = true
		return nil
	}
}

// Name returns the logical API name, or "" when none is set.
func (m *Model) Name() string { return m.name }

// IsNeutral reports whether the model accepts any version.
func (m *Model) IsNeutral() bool { return m.neutral }

// Supported returns the supported versions in ascending order.
func (m *Model) Supported() []version.Version { return slices.Clone(m.supported) }

// Deprecated returns the deprecated versions in ascending order.
func (m *Model) Deprecated() []version.Version { return slices.Clone(m.deprecated) }

// Advertised returns the advertised supported versions in ascending order.
func (m *Model) Advertised() []version.Version { return slices.Clone(m.advertised) }

// DeprecatedAdvertised returns the advertised deprecated versions in ascending order.
func (m *Model) DeprecatedAdvertised() []version.Version {
	return slices.Clone(m.deprecatedAdvertised)
}

// Implemented returns supported and deprecated versions in ascending order.
func (m *Model) Implemented() []version.Version {
	return normalize(slices.Concat(m.supported, m.deprecated))
}

// Declared returns the versions the endpoint declares for itself: supported
// and deprecated. Advertised versions are not declared; see [Model.Mentions].
func (m *Model) Declared() []version.Version {
	return m.Implemented()
}

// Implements reports whether the endpoint itself serves v.
func (m *Model) Implements(v version.Version) bool {
	return version.Contains(m.supported, v) || version.Contains(m.deprecated, v)
}

// IsDeprecated reports whether v is implemented but deprecated.
func (m *Model) IsDeprecated(v version.Version) bool {
	return version.Contains(m.deprecated, v)
}

// Mentions reports whether v is declared by the model in any role.
func (m *Model) Mentions(v version.Version) bool {
	return m.Implements(v) || version.Contains(m.advertised, v) ||
		version.Contains(m.deprecatedAdvertised, v)
}

// Map derives the model of an endpoint that explicitly maps a subset of
// this group model's versions. Versions of the group that are not mapped
// become advertised on the result.
func (m *Model) Map(versions ...version.Version) (*Model, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if m.neutral {
		return nil, ErrNeutralWithVersions
	}
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}

	for _, v := range versions {
		if !m.Implements(v) {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedVersion, v.String())
		}
	}

	mapped := func(v version.Version, _ int) bool { return version.Contains(versions, v) }

	return New(
		Named(m.name),
		Supports(lo.Filter(m.supported, mapped)...),
		Deprecates(lo.Filter(m.deprecated, mapped)...),
		Advertises(slices.Concat(lo.Reject(m.supported, mapped), m.advertised)...),
		AdvertisesDeprecated(slices.Concat(lo.Reject(m.deprecated, mapped), m.deprecatedAdvertised)...),
	)
}

func normalize(vs []version.Version) []version.Version {
	if len(vs) == 0 {
		return nil
	}
	out := lo.UniqBy(vs, version.Version.Key)
	version.Sort(out)

	return out
}

func intersect(a, b []version.Version) []version.Version {
	return lo.Filter(a, func(v version.Version, _ int) bool {
		return version.Contains(b, v)
	})
}

func subtract(a, b []version.Version) []version.Version {
	return lo.Reject(a, func(v version.Version, _ int) bool {
		return version.Contains(b, v)
	})
}
