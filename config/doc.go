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

// Package config loads engine [Settings] from files, environment variables
// and Consul.
//
// Sources are merged in order with later sources overriding earlier ones.
// Keys are case-insensitive. The merged document is checked against a JSON
// Schema (see [Schema]), bound to [Settings] through `config` struct tags,
// completed from `default` tags and validated field by field.
//
//	loader := config.MustNew(
//	    config.WithFile("/etc/apiversion/apiversion.yaml"),
//	    config.WithConsul("apiversion/settings.yaml"), // skipped without CONSUL_HTTP_ADDR
//	    config.WithEnv("APIVERSION_"),
//	)
//	settings, err := loader.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stack, err := settings.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stack.Shutdown(context.Background())
//
// Environment variables nest with a double underscore:
//
//	APIVERSION_DEFAULT_VERSION=2.0
//	APIVERSION_LOGGING__LEVEL=debug
//	APIVERSION_METRICS__ENABLED=true
//
// Errors from [Loader.Load] and [Settings.Validate] are *[Error] values; the
// Field of a validation error is the dotted settings key, such as
// "sunset[0].links[0].url".
package config
