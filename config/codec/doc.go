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

// Package codec decodes settings documents for the config loader.
//
// Codecs are registered by [Type] at init time. The built-in types are
// [TypeYAML], [TypeJSON], [TypeTOML], [TypeEnvVar] and a set of scalar
// casters used for single-value Consul keys:
//
//	decoder, _ := codec.GetDecoder(codec.TypeYAML)
//	var doc map[string]any
//	err := decoder.Decode(data, &doc)
//
// Custom formats register their own codec:
//
//	codec.RegisterDecoder("hcl", myHCL{})
package codec
