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

package sunset

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"rivaas.dev/apiversion/version"
)

// Key identifies a policy by logical API name, version, or both.
type Key struct {
	Name    string
	Version version.Version
}

// String returns "name@version", "name" or "@version".
func (k Key) String() string {
	if k.Version.IsZero() {
		return k.Name
	}

	return k.Name + "@" + k.Version.String()
}

func (k Key) validate() error {
	switch {
	case k.Version.IsNeutral():
		return ErrNeutralKey
	case k.Name == "" && k.Version.IsZero():
		return ErrEmptyKey
	}

	return nil
}

type mapKey struct {
	name    string
	version string
}

func (k Key) mapKey() mapKey {
	return mapKey{name: k.Name, version: k.Version.Key()}
}

// Builder collects policies at startup. It is not safe for concurrent use.
type Builder struct {
	policies map[mapKey]entry
	built    bool
}

type entry struct {
	key    Key
	policy Policy
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{policies: make(map[mapKey]entry)}
}

// Add registers a policy. Registering the same key twice is an error.
func (b *Builder) Add(key Key, p Policy) error {
	if b.built {
		return ErrBuilt
	}
	if err := key.validate(); err != nil {
		return err
	}

	mk := key.mapKey()
	if _, exists := b.policies[mk]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePolicy, key)
	}
	b.policies[mk] = entry{key: key, policy: p}

	return nil
}

// Build freezes the registered policies into a Manager.
// The Builder cannot be used afterwards.
func (b *Builder) Build() *Manager {
	b.built = true

	return &Manager{policies: maps.Clone(b.policies)}
}

// Manager is an immutable table of policies, safe for concurrent use.
// A nil Manager holds no policies.
type Manager struct {
	policies map[mapKey]entry
}

// TryGetPolicy finds the policy for an API name and version.
//
// Lookup prefers an exact (name, version) entry, then a name-only entry,
// then a version-only entry. Either component may be empty, but not both.
func (m *Manager) TryGetPolicy(name string, v version.Version) (Policy, bool, error) {
	key := Key{Name: name, Version: v}
	if v.IsNeutral() {
		key.Version = version.Version{}
	}
	if err := key.validate(); err != nil {
		return Policy{}, false, err
	}
	if m == nil {
		return Policy{}, false, nil
	}

	lookups := make([]Key, 0, 3)
	if key.Name != "" && !key.Version.IsZero() {
		lookups = append(lookups, key)
	}
	if key.Name != "" {
		lookups = append(lookups, Key{Name: key.Name})
	}
	if !key.Version.IsZero() {
		lookups = append(lookups, Key{Version: key.Version})
	}

	for _, k := range lookups {
		if e, ok := m.policies[k.mapKey()]; ok {
			return e.policy, true, nil
		}
	}

	return Policy{}, false, nil
}

// Len returns the number of policies.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}

	return len(m.policies)
}

// Keys returns the registered keys ordered by name, then version.
func (m *Manager) Keys() []Key {
	if m == nil {
		return nil
	}

	keys := make([]Key, 0, len(m.policies))
	for _, e := range m.policies {
		keys = append(keys, e.key)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return version.Compare(a.Version, b.Version)
	})

	return keys
}
