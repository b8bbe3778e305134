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
	"fmt"

	"github.com/spf13/cast"
)

// CastType is the scalar kind a [Caster] produces.
type CastType string

// revive:disable:exported
const (
	CastTypeBool       CastType = "bool"
	CastTypeInt        CastType = "int"
	CastTypeFloat64    CastType = "float64"
	CastTypeDuration   CastType = "duration"
	CastTypeTime       CastType = "time"
	CastTypeString     CastType = "string"
	TypeCasterBool     Type     = "caster-bool"
	TypeCasterInt      Type     = "caster-int"
	TypeCasterFloat64  Type     = "caster-float64"
	TypeCasterDuration Type     = "caster-duration"
	TypeCasterTime     Type     = "caster-time"
	TypeCasterString   Type     = "caster-string"
)

// revive:enable:exported

func init() {
	RegisterDecoder(TypeCasterBool, NewCaster(CastTypeBool))
	RegisterDecoder(TypeCasterInt, NewCaster(CastTypeInt))
	RegisterDecoder(TypeCasterFloat64, NewCaster(CastTypeFloat64))
	RegisterDecoder(TypeCasterDuration, NewCaster(CastTypeDuration))
	RegisterDecoder(TypeCasterTime, NewCaster(CastTypeTime))
	RegisterDecoder(TypeCasterString, NewCaster(CastTypeString))
}

// Caster decodes a single scalar, such as a Consul key holding
// "true" or "30s", into an *any.
type Caster struct {
	castType CastType
}

// NewCaster returns a caster producing values of castType.
func NewCaster(castType CastType) *Caster {
	return &Caster{castType: castType}
}

// CastType returns the kind of value c produces.
func (c *Caster) CastType() CastType { return c.castType }

// Decode implements [Decoder].
func (c *Caster) Decode(data []byte, v any) error {
	out, ok := v.(*any)
	if !ok {
		return fmt.Errorf("caster: expected *any, got %T", v)
	}

	var (
		value any
		err   error
	)
	raw := string(data)
	switch c.castType {
	case CastTypeBool:
		value, err = cast.ToBoolE(raw)
	case CastTypeInt:
		value, err = cast.ToIntE(raw)
	case CastTypeFloat64:
		value, err = cast.ToFloat64E(raw)
	case CastTypeDuration:
		value, err = cast.ToDurationE(raw)
	case CastTypeTime:
		value, err = cast.ToTimeE(raw)
	case CastTypeString:
		value = raw
	default:
		return fmt.Errorf("caster: unknown cast type %q", c.castType)
	}
	if err != nil {
		return fmt.Errorf("caster %s: %w", c.castType, err)
	}
	*out = value

	return nil
}
