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

package reader

import (
	"fmt"
	"mime"
	"strings"

	"github.com/munnerz/goautoneg"
)

const placeholder = "{version}"

// Kind identifies where a version value was carried.
type Kind uint8

// Carrier kinds.
const (
	KindQuery Kind = iota + 1
	KindHeader
	KindURLSegment
	KindMediaType
)

// String returns the kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindHeader:
		return "header"
	case KindURLSegment:
		return "path"
	case KindMediaType:
		return "media_type"
	default:
		return "unknown"
	}
}

// Carrier extracts raw version strings from one part of a request.
// The set of carriers is closed; use the constructors in this package.
type Carrier interface {
	// Kind returns the carrier kind.
	Kind() Kind

	// Name describes the carrier, such as a header name or a pattern.
	Name() string

	read(req Request) []string
	validate() error
}

// ═══════════════════════════════════════════════════════════════════════════════
// Query Carrier
// ═══════════════════════════════════════════════════════════════════════════════

type queryCarrier struct {
	names []string
}

// Query reads the named query parameters. Every name contributes values.
//
// Example:
//
//	reader.Query("api-version")
//	// Client sends: GET /orders?api-version=2.0
func Query(names ...string) Carrier {
	return &queryCarrier{names: names}
}

func (c *queryCarrier) Kind() Kind   { return KindQuery }
func (c *queryCarrier) Name() string { return strings.Join(c.names, ",") }

func (c *queryCarrier) read(req Request) []string {
	var out []string
	for _, name := range c.names {
		out = append(out, req.Query(name)...)
	}

	return out
}

func (c *queryCarrier) validate() error {
	return validateNames(c.names)
}

// ═══════════════════════════════════════════════════════════════════════════════
// Header Carrier
// ═══════════════════════════════════════════════════════════════════════════════

type headerCarrier struct {
	names []string
}

// Header reads the first of the named headers that has a non-empty value.
//
// Example:
//
//	reader.Header("Api-Version", "X-Api-Version")
//	// Client sends: Api-Version: 2.0
func Header(names ...string) Carrier {
	return &headerCarrier{names: names}
}

func (c *headerCarrier) Kind() Kind   { return KindHeader }
func (c *headerCarrier) Name() string { return strings.Join(c.names, ",") }

func (c *headerCarrier) read(req Request) []string {
	for _, name := range c.names {
		values := nonEmpty(req.Header(name))
		if len(values) > 0 {
			return values
		}
	}

	return nil
}

func (c *headerCarrier) validate() error {
	return validateNames(c.names)
}

// ═══════════════════════════════════════════════════════════════════════════════
// URL Segment Carriers
// ═══════════════════════════════════════════════════════════════════════════════

type segmentCarrier struct {
	pattern string
	prefix  string // Part of the pattern before {version}
	suffix  string // Rest of the version segment after {version}
}

// URLSegment reads the path segment at the {version} placeholder of pattern.
//
// Example:
//
//	reader.URLSegment("/api/v{version}/")
//	// Matches: /api/v1/orders, /api/v2.0/orders
func URLSegment(pattern string) Carrier {
	c := &segmentCarrier{pattern: pattern}
	if idx := strings.Index(pattern, placeholder); idx >= 0 {
		c.prefix = pattern[:idx]
		rest := pattern[idx+len(placeholder):]
		if end := strings.IndexByte(rest, '/'); end >= 0 {
			rest = rest[:end]
		}
		c.suffix = rest
	}

	return c
}

func (c *segmentCarrier) Kind() Kind   { return KindURLSegment }
func (c *segmentCarrier) Name() string { return c.pattern }

func (c *segmentCarrier) read(req Request) []string {
	segment, ok := c.extract(req.Path())
	if !ok {
		return nil
	}

	return []string{segment}
}

func (c *segmentCarrier) extract(path string) (string, bool) {
	if c.prefix == "" || !strings.HasPrefix(path, c.prefix) {
		return "", false
	}

	// Version segment runs to the next "/" or the end of the path
	remaining := path[len(c.prefix):]
	if end := strings.IndexByte(remaining, '/'); end >= 0 {
		remaining = remaining[:end]
	}

	segment, ok := strings.CutSuffix(remaining, c.suffix)
	if !ok || segment == "" {
		return "", false
	}

	return segment, true
}

func (c *segmentCarrier) validate() error {
	switch {
	case c.pattern == "":
		return ErrEmptyPattern
	case !strings.Contains(c.pattern, placeholder):
		return fmt.Errorf("%w: path pattern %q", ErrMissingVersionPlaceholder, c.pattern)
	case !strings.HasPrefix(c.pattern, "/"):
		return fmt.Errorf("%w: %q", ErrInvalidPattern, c.pattern)
	}

	return nil
}

type routeCarrier struct {
	name string
}

// RouteParameter reads a value captured by the host's route template,
// such as {version} in "/api/v{version}/orders".
func RouteParameter(name string) Carrier {
	return &routeCarrier{name: name}
}

func (c *routeCarrier) Kind() Kind   { return KindURLSegment }
func (c *routeCarrier) Name() string { return c.name }

func (c *routeCarrier) read(req Request) []string {
	if v, ok := req.RouteValue(c.name); ok {
		return []string{v}
	}

	return nil
}

func (c *routeCarrier) validate() error {
	return validateNames([]string{c.name})
}

// ═══════════════════════════════════════════════════════════════════════════════
// Media Type Carriers
// ═══════════════════════════════════════════════════════════════════════════════

type mediaParamCarrier struct {
	name string
}

// MediaTypeParameter reads a media type parameter from Content-Type and
// then from Accept.
//
// Example:
//
//	reader.MediaTypeParameter("v")
//	// Client sends: Accept: application/json; v=2.0
func MediaTypeParameter(name string) Carrier {
	return &mediaParamCarrier{name: strings.ToLower(name)}
}

func (c *mediaParamCarrier) Kind() Kind   { return KindMediaType }
func (c *mediaParamCarrier) Name() string { return c.name }

func (c *mediaParamCarrier) read(req Request) []string {
	var out []string
	for _, ct := range req.Header("Content-Type") {
		if _, params, err := mime.ParseMediaType(ct); err == nil {
			if v := params[c.name]; v != "" {
				out = append(out, v)
			}
		}
	}

	for _, accept := range req.Header("Accept") {
		for _, a := range goautoneg.ParseAccept(accept) {
			for key, v := range a.Params {
				if strings.EqualFold(key, c.name) {
					out = append(out, strings.Trim(v, `"`))
				}
			}
		}
	}

	return out
}

func (c *mediaParamCarrier) validate() error {
	return validateNames([]string{c.name})
}

type mediaTemplateCarrier struct {
	pattern string
	prefix  string // Part before {version}
	suffix  string // Part after {version}
}

// MediaTypeTemplate reads the version embedded in a vendor media type from
// Content-Type and then from Accept.
//
// Example:
//
//	reader.MediaTypeTemplate("application/vnd.acme.v{version}+json")
//	// Client sends: Accept: application/vnd.acme.v2+json
func MediaTypeTemplate(pattern string) Carrier {
	c := &mediaTemplateCarrier{pattern: strings.ToLower(pattern)}
	if idx := strings.Index(c.pattern, placeholder); idx >= 0 {
		c.prefix = c.pattern[:idx]
		c.suffix = c.pattern[idx+len(placeholder):]
	}

	return c
}

func (c *mediaTemplateCarrier) Kind() Kind   { return KindMediaType }
func (c *mediaTemplateCarrier) Name() string { return c.pattern }

func (c *mediaTemplateCarrier) read(req Request) []string {
	var out []string
	for _, ct := range req.Header("Content-Type") {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			if v, ok := c.extract(mediaType); ok {
				out = append(out, v)
			}
		}
	}

	for _, accept := range req.Header("Accept") {
		for _, a := range goautoneg.ParseAccept(accept) {
			mediaType := strings.ToLower(a.Type + "/" + a.SubType)
			if v, ok := c.extract(mediaType); ok {
				out = append(out, v)
			}
		}
	}

	return out
}

func (c *mediaTemplateCarrier) extract(mediaType string) (string, bool) {
	if len(mediaType) <= len(c.prefix)+len(c.suffix) {
		return "", false
	}
	if !strings.HasPrefix(mediaType, c.prefix) || !strings.HasSuffix(mediaType, c.suffix) {
		return "", false
	}

	return mediaType[len(c.prefix) : len(mediaType)-len(c.suffix)], true
}

func (c *mediaTemplateCarrier) validate() error {
	switch {
	case c.pattern == "":
		return ErrEmptyPattern
	case !strings.Contains(c.pattern, placeholder):
		return fmt.Errorf("%w: media type pattern %q", ErrMissingVersionPlaceholder, c.pattern)
	}

	return nil
}

func validateNames(names []string) error {
	if len(names) == 0 {
		return ErrEmptyName
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyName
		}
	}

	return nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
