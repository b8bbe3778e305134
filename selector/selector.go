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

// Package selector chooses the version to assume when a request does not
// specify one.
//
// Three policies are available: [Constant], [LowestImplemented] and
// [CurrentImplementation]. Selectors are pure and safe for concurrent use.
package selector

import (
	"github.com/samber/lo"

	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/version"
)

// Selector picks a default version from the models of the candidate
// endpoints of a request.
type Selector interface {
	// Select returns the version to assume. It never returns the zero
	// Version unless the configured fallback is zero.
	Select(models []*model.Model) version.Version

	// Name identifies the policy in logs and configuration.
	Name() string

	sealed()
}

// ═══════════════════════════════════════════════════════════════════════════════
// Constant
// ═══════════════════════════════════════════════════════════════════════════════

type constant struct {
	v version.Version
}

// Constant always selects v.
func Constant(v version.Version) Selector {
	return constant{v: v}
}

func (s constant) Select([]*model.Model) version.Version { return s.v }
func (constant) Name() string                            { return "constant" }
func (constant) sealed()                                 {}

// ═══════════════════════════════════════════════════════════════════════════════
// Lowest Implemented
// ═══════════════════════════════════════════════════════════════════════════════

type lowest struct {
	fallback version.Version
}

// LowestImplemented selects the smallest supported or deprecated version
// across the models, or fallback when they implement none.
func LowestImplemented(fallback version.Version) Selector {
	return lowest{fallback: fallback}
}

func (s lowest) Select(models []*model.Model) version.Version {
	implemented := append(collect(models, (*model.Model).Supported), collect(models, (*model.Model).Deprecated)...)
	if len(implemented) == 0 {
		return s.fallback
	}

	return version.Min(implemented)
}

func (lowest) Name() string { return "lowest" }
func (lowest) sealed()      {}

// ═══════════════════════════════════════════════════════════════════════════════
// Current Implementation
// ═══════════════════════════════════════════════════════════════════════════════

type current struct {
	fallback       version.Version
	skipPrerelease bool
}

// CurrentOption configures [CurrentImplementation].
type CurrentOption func(*current)

// SkipPrerelease ignores versions with a status label unless no other
// version is implemented.
func SkipPrerelease() CurrentOption {
	return func(c *current) { c.skipPrerelease = true }
}

// CurrentImplementation selects the greater of the maximum supported and the
// maximum deprecated version. When both are equal the supported one wins.
// With no implemented versions it selects fallback.
func CurrentImplementation(fallback version.Version, opts ...CurrentOption) Selector {
	c := current{fallback: fallback}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (s current) Select(models []*model.Model) version.Version {
	supported := collect(models, (*model.Model).Supported)
	deprecated := collect(models, (*model.Model).Deprecated)

	if s.skipPrerelease {
		stable := func(v version.Version, _ int) bool { return !v.IsPrerelease() }
		stableSupported, stableDeprecated := lo.Filter(supported, stable), lo.Filter(deprecated, stable)
		if len(stableSupported)+len(stableDeprecated) > 0 {
			supported, deprecated = stableSupported, stableDeprecated
		}
	}

	switch {
	case len(supported) == 0 && len(deprecated) == 0:
		return s.fallback
	case len(deprecated) == 0:
		return version.Max(supported)
	case len(supported) == 0:
		return version.Max(deprecated)
	}

	maxSupported, maxDeprecated := version.Max(supported), version.Max(deprecated)
	if maxDeprecated.Compare(maxSupported) > 0 {
		return maxDeprecated
	}

	return maxSupported
}

func (current) Name() string { return "current" }
func (current) sealed()      {}

func collect(models []*model.Model, fn func(*model.Model) []version.Version) []version.Version {
	return lo.FlatMap(models, func(m *model.Model, _ int) []version.Version {
		if m == nil || m.IsNeutral() {
			return nil
		}
		return fn(m)
	})
}
