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

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSource returns a source that always yields doc.
func TestSource(doc map[string]any) Source {
	return SourceFunc(func(context.Context) (map[string]any, error) { return doc, nil })
}

// TestSourceWithError returns a source that always fails with err.
func TestSourceWithError(err error) Source {
	return SourceFunc(func(context.Context) (map[string]any, error) { return nil, err })
}

// TestFile writes content to a file named name in a temporary directory
// and returns its path.
func TestFile(tb testing.TB, name string, content []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, content, 0o600))

	return path
}

// TestSettings loads settings from a YAML document and fails tb on error.
func TestSettings(tb testing.TB, yamlDoc string) *Settings {
	tb.Helper()

	loader, err := New(WithContent([]byte(yamlDoc), "yaml"))
	require.NoError(tb, err)
	settings, err := loader.Load(tb.Context())
	require.NoError(tb, err)

	return settings
}
