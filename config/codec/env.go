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

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnvVar decodes KEY=value lines as produced by os.Environ.
const TypeEnvVar Type = "env_var"

// Separator splits environment variable names into nested keys.
// A single underscore stays part of the key, so DEFAULT_VERSION maps to
// default_version and LOGGING__LEVEL maps to logging.level.
const Separator = "__"

// ErrEncodeEnv is returned by [EnvVar.Encode].
var ErrEncodeEnv = errors.New("environment variables cannot be encoded")

func init() {
	RegisterDecoder(TypeEnvVar, EnvVar{})
}

// EnvVar decodes environment variables into nested maps.
type EnvVar struct{}

// Encode always fails.
func (EnvVar) Encode(any) ([]byte, error) { return nil, ErrEncodeEnv }

// Decode implements [Decoder]. v must be a *map[string]any. Names are
// lower-cased, lines without '=' are skipped and values are trimmed.
// A later scalar replaces an earlier nested map under the same key and the
// other way round.
func (EnvVar) Decode(data []byte, v any) error {
	out, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env_var: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		name, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		path := splitName(name)
		if len(path) == 0 {
			continue
		}

		node := conf
		for _, key := range path[:len(path)-1] {
			next, ok := node[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[key] = next
			}
			node = next
		}
		node[path[len(path)-1]] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("env_var: %w", err)
	}

	*out = conf

	return nil
}

func splitName(name string) []string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(name)), Separator)
	path := parts[:0]
	for _, p := range parts {
		if p = strings.Trim(p, "_"); p != "" {
			path = append(path, p)
		}
	}

	return path
}
