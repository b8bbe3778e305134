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
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Link relation types written by this package.
const (
	RelSunset      = "sunset"
	RelDeprecation = "deprecation"
)

// Link points at documentation about a policy, as in RFC 8288.
type Link struct {
	URL      string
	Rel      string
	Type     string
	Title    string
	Language string
}

// LinkOption configures a Link.
type LinkOption func(*Link)

// LinkType sets the media type of the linked document.
func LinkType(mediaType string) LinkOption {
	return func(l *Link) { l.Type = mediaType }
}

// LinkTitle sets a human readable title.
func LinkTitle(title string) LinkOption {
	return func(l *Link) { l.Title = title }
}

// LinkLanguage sets the language of the linked document.
func LinkLanguage(lang string) LinkOption {
	return func(l *Link) { l.Language = lang }
}

// LinkRel overrides the relation type. By default the relation matches the
// header being written.
func LinkRel(rel string) LinkOption {
	return func(l *Link) { l.Rel = rel }
}

// format renders the link as a Link header value, using rel when the link
// has no relation of its own.
func (l Link) format(rel string) string {
	if l.Rel != "" {
		rel = l.Rel
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(l.URL)
	b.WriteString(">; rel=")
	b.WriteString(strconv.Quote(rel))
	if l.Type != "" {
		b.WriteString("; type=")
		b.WriteString(strconv.Quote(l.Type))
	}
	if l.Title != "" {
		b.WriteString("; title=")
		b.WriteString(strconv.Quote(l.Title))
	}
	if l.Language != "" {
		b.WriteString("; hreflang=")
		b.WriteString(l.Language)
	}

	return b.String()
}

// Policy announces when an API version stops being served, or since when it
// is deprecated, and where to read more.
type Policy struct {
	// Effective is the sunset or deprecation date. Zero means unset.
	Effective time.Time
	Links     []Link
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy) error

// NewPolicy builds a Policy.
//
// Example:
//
//	p, err := sunset.NewPolicy(
//	    sunset.EffectiveAt(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)),
//	    sunset.WithLink("https://docs.example.com/v1-sunset", sunset.LinkType("text/html")),
//	)
func NewPolicy(opts ...PolicyOption) (Policy, error) {
	var p Policy
	for _, opt := range opts {
		if err := opt(&p); err != nil {
			return Policy{}, fmt.Errorf("invalid policy option: %w", err)
		}
	}

	return p, nil
}

// EffectiveAt sets the policy date.
func EffectiveAt(t time.Time) PolicyOption {
	return func(p *Policy) error {
		p.Effective = t
		return nil
	}
}

// WithLink adds a documentation link.
func WithLink(url string, opts ...LinkOption) PolicyOption {
	return func(p *Policy) error {
		if url == "" {
			return ErrEmptyLinkURL
		}
		l := Link{URL: url}
		for _, opt := range opts {
			opt(&l)
		}
		p.Links = append(p.Links, l)

		return nil
	}
}

// IsZero reports whether the policy has neither a date nor links.
func (p Policy) IsZero() bool {
	return p.Effective.IsZero() && len(p.Links) == 0
}

// Expired reports whether the policy date has passed at now.
func (p Policy) Expired(now time.Time) bool {
	return !p.Effective.IsZero() && now.After(p.Effective)
}

// WriteSunset sets the Sunset header (RFC 8594) and adds sunset links.
func (p Policy) WriteSunset(h http.Header) {
	if !p.Effective.IsZero() {
		h.Set("Sunset", p.Effective.UTC().Format(http.TimeFormat))
	}
	p.writeLinks(h, RelSunset)
}

// WriteDeprecation sets the Deprecation header (RFC 9745) and adds
// deprecation links. Without a date the header is "true".
func (p Policy) WriteDeprecation(h http.Header) {
	if p.Effective.IsZero() {
		h.Set("Deprecation", "true")
	} else {
		h.Set("Deprecation", "@"+strconv.FormatInt(p.Effective.Unix(), 10))
	}
	p.writeLinks(h, RelDeprecation)
}

func (p Policy) writeLinks(h http.Header, rel string) {
	for _, l := range p.Links {
		h.Add("Link", l.format(rel))
	}
}
