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

// Package sunset holds sunset and deprecation policies for API versions.
//
// Policies are registered on a [Builder] at startup and frozen into a
// [Manager], which is then shared read-only by every request:
//
//	b := sunset.NewBuilder()
//	p, _ := sunset.NewPolicy(
//	    sunset.EffectiveAt(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)),
//	    sunset.WithLink("https://docs.example.com/orders/v1"),
//	)
//	_ = b.Add(sunset.Key{Name: "orders", Version: version.New(1, 0)}, p)
//	policies := b.Build()
//
// Policies only describe a version's lifecycle. They never change which
// endpoint serves a request.
package sunset
