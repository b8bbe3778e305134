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

// Package logging builds the structured [log/slog] logger used across the
// module.
//
// # Handlers
//
//   - JSONHandler (default): one JSON object per line, for log aggregation
//   - TextHandler: key=value pairs
//   - ConsoleHandler: colored single lines for local development
//
// # Basic Usage
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("orders"),
//	    logging.WithDebugLevel(),
//	)
//	engine, err := apiversion.New(apiversion.WithLogger(logger.Logger()))
//
// Values of sensitive keys such as "authorization" and "token" are replaced
// with "***REDACTED***".
package logging
