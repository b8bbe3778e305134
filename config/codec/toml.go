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

import "github.com/BurntSushi/toml"

// TypeTOML decodes settings documents written as TOML.
const TypeTOML Type = "toml"

func init() {
	RegisterEncoder(TypeTOML, TOML{})
	RegisterDecoder(TypeTOML, TOML{})
}

// TOML is the BurntSushi/toml codec.
type TOML struct{}

// Encode implements [Encoder].
func (TOML) Encode(v any) ([]byte, error) { return toml.Marshal(v) }

// Decode implements [Decoder].
func (TOML) Decode(data []byte, v any) error { return toml.Unmarshal(data, v) }
