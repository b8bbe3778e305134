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

import "errors"

// Static errors for model construction.
// They are configuration errors and are returned at startup.
var (
	ErrNoVersions            = errors.New("model declares no versions")
	ErrInvalidVersion        = errors.New("model versions must be real versions")
	ErrOverlap               = errors.New("version cannot be both supported and deprecated")
	ErrNeutralWithVersions   = errors.New("version-neutral model cannot declare versions")
	ErrAdvertisedImplemented = errors.New("advertised version is implemented by the same model")
	ErrUnmappedVersion       = errors.New("mapped version is not implemented by the group")
	ErrNilModel              = errors.New("model cannot be nil")
)
