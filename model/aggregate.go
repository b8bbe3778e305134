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
	"slices"

	"github.com/samber/lo"

	"rivaas.dev/apiversion/version"
)

// Aggregate merges models into one reporting view.
//
// The result is the union of all non-neutral models. A version that is
// supported anywhere is never reported as deprecated, and an implemented
// version is never reported as advertised. The result may be empty.
func Aggregate(models ...*Model) *Model {
	agg := &Model{}
	for _, m := range models {
		if m == nil || m.neutral {
			continue
		}
		agg.supported = append(agg.supported, m.supported...)
		agg.deprecated = append(agg.deprecated, m.deprecated...)
		agg.advertised = append(agg.advertised, m.advertised...)
		agg.deprecatedAdvertised = append(agg.deprecatedAdvertised, m.deprecatedAdvertised...)
		if agg.name == "" {
			agg.name = m.name
		}
	}

	agg.supported = normalize(agg.supported)
	agg.deprecated = normalize(subtract(agg.deprecated, agg.supported))

	implemented := slices.Concat(agg.supported, agg.deprecated)
	agg.advertised = normalize(subtract(agg.advertised, implemented))
	agg.deprecatedAdvertised = normalize(subtract(
		agg.deprecatedAdvertised,
		slices.Concat(implemented, agg.advertised),
	))

	return agg
}

// Report returns the supported and deprecated versions to announce for a set
// of candidate models, in ascending order.
//
// When includeAdvertised is set, advertised versions are folded into the
// matching list. A version supported anywhere is not reported as deprecated.
func Report(models []*Model, includeAdvertised bool) (supported, deprecated []version.Version) {
	agg := Aggregate(models...)

	supported = agg.supported
	deprecated = agg.deprecated
	if includeAdvertised {
		supported = normalize(slices.Concat(supported, agg.advertised))
		deprecated = normalize(subtract(slices.Concat(deprecated, agg.deprecatedAdvertised), supported))
	}

	return supported, deprecated
}

// Models extracts the distinct non-nil models from values using fn.
func Models[T any](values []T, fn func(T) *Model) []*Model {
	models := lo.FilterMap(values, func(item T, _ int) (*Model, bool) {
		m := fn(item)
		return m, m != nil
	})

	return lo.Uniq(models)
}
