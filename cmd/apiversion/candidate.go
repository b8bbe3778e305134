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

package main

import (
	"errors"
	"fmt"
	"strings"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/version"
)

var errCandidateSyntax = errors.New("expected space separated key=value fields")

// parseCandidate reads a candidate declaration such as
//
//	name=orders supports=2.0,3.0 deprecates=1.0 advertises=4.0 inherited
//
// Keys are name, supports, deprecates, advertises and advertises_deprecated.
// The bare words neutral and inherited set the matching flags.
func parseCandidate(decl string, index int) (matcher.Candidate, error) {
	var (
		opts        []model.Option
		specificity = matcher.Explicit
	)

	for _, field := range strings.Fields(decl) {
		key, value, hasValue := strings.Cut(field, "=")
		if !hasValue {
			switch key {
			case "neutral":
				opts = append(opts, model.VersionNeutral())
			case "inherited":
				specificity = matcher.Inherited
			default:
				return matcher.Candidate{}, fmt.Errorf("candidate %d: %q: %w", index, field, errCandidateSyntax)
			}
			continue
		}

		if key == "name" {
			opts = append(opts, model.Named(value))
			continue
		}

		versions, err := version.ParseAll(strings.Split(value, ",")...)
		if err != nil {
			return matcher.Candidate{}, fmt.Errorf("candidate %d: %w", index, err)
		}
		switch key {
		case "supports":
			opts = append(opts, model.Supports(versions...))
		case "deprecates":
			opts = append(opts, model.Deprecates(versions...))
		case "advertises":
			opts = append(opts, model.Advertises(versions...))
		case "advertises_deprecated":
			opts = append(opts, model.AdvertisesDeprecated(versions...))
		default:
			return matcher.Candidate{}, fmt.Errorf("candidate %d: unknown key %q", index, key)
		}
	}

	m, err := model.New(opts...)
	if err != nil {
		return matcher.Candidate{}, fmt.Errorf("candidate %d: %w", index, err)
	}

	return matcher.Candidate{Model: m, Specificity: specificity, Handle: index}, nil
}
