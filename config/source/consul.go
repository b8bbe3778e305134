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

package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/apiversion/config/codec"
)

// ConsulKV is the part of the Consul KV API the sources use.
// *api.KV satisfies it.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
	List(prefix string, q *api.QueryOptions) (api.KVPairs, *api.QueryMeta, error)
}

// Consul loads settings from Consul KV.
//
// A document source reads one key holding a YAML, JSON or TOML document.
// With a [codec.Caster] the key holds a single scalar and is exposed under
// its last path segment. A tree source lists every key below a prefix and
// turns the remaining path segments into nested keys, so
// "apiversion/logging/level" becomes logging.level.
type Consul struct {
	kv        ConsulKV
	key       string
	tree      bool
	decoder   codec.Decoder
	lastIndex uint64
}

// NewConsul returns a document source for key. When kv is nil a client is
// built from the CONSUL_HTTP_* environment.
func NewConsul(key string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	kv, err := consulKV(kv)
	if err != nil {
		return nil, err
	}

	return &Consul{kv: kv, key: key, decoder: decoder}, nil
}

// NewConsulTree returns a tree source for prefix. Values are kept as
// strings and converted during binding.
func NewConsulTree(prefix string, kv ConsulKV) (*Consul, error) {
	kv, err := consulKV(kv)
	if err != nil {
		return nil, err
	}

	return &Consul{kv: kv, key: strings.TrimSuffix(prefix, "/") + "/", tree: true}, nil
}

func consulKV(kv ConsulKV) (ConsulKV, error) {
	if kv != nil {
		return kv, nil
	}
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return client.KV(), nil
}

// LastIndex returns the Consul index observed by the latest Load.
func (c *Consul) LastIndex() uint64 { return c.lastIndex }

// Load implements config.Source. A missing key or an empty prefix yields
// an empty document.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	q := (&api.QueryOptions{}).WithContext(ctx)
	if c.tree {
		return c.loadTree(q)
	}

	pair, meta, err := c.kv.Get(c.key, q)
	if err != nil {
		return nil, fmt.Errorf("get consul key %s: %w", c.key, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	if caster, ok := c.decoder.(*codec.Caster); ok {
		var value any
		if err = caster.Decode(pair.Value, &value); err != nil {
			return nil, fmt.Errorf("decode consul key %s: %w", c.key, err)
		}
		return map[string]any{path.Base(pair.Key): value}, nil
	}

	var doc map[string]any
	if err = c.decoder.Decode(pair.Value, &doc); err != nil {
		return nil, fmt.Errorf("decode consul key %s: %w", c.key, err)
	}

	return doc, nil
}

func (c *Consul) loadTree(q *api.QueryOptions) (map[string]any, error) {
	pairs, meta, err := c.kv.List(c.key, q)
	if err != nil {
		return nil, fmt.Errorf("list consul prefix %s: %w", c.key, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}

	doc := make(map[string]any)
	for _, pair := range pairs {
		rel := strings.Trim(strings.TrimPrefix(pair.Key, c.key), "/")
		if rel == "" || strings.HasSuffix(pair.Key, "/") {
			continue
		}
		segments := strings.Split(rel, "/")
		node := doc
		for _, seg := range segments[:len(segments)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[seg] = next
			}
			node = next
		}
		node[segments[len(segments)-1]] = string(pair.Value)
	}

	return doc, nil
}
