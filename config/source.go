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

package config

import "context"

// Source supplies one layer of settings. Later sources override earlier
// ones key by key.
//
// Load must be safe to call concurrently. A nil map is treated as empty.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context) (map[string]any, error)

// Load implements [Source].
func (f SourceFunc) Load(ctx context.Context) (map[string]any, error) { return f(ctx) }
