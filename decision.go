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

package apiversion

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

// Decision is the outcome of [Engine.Resolve]: the match result plus what the
// response should announce about it.
type Decision struct {
	matcher.Result

	// Read is what the request carried.
	Read reader.Result

	// Name is the API name of the candidate models, if any.
	Name string

	// SupportedVersions and DeprecatedVersions are the versions to report,
	// ascending. They are empty unless reporting is enabled.
	SupportedVersions  []version.Version
	DeprecatedVersions []version.Version

	// Sunset is the sunset policy of the resolved version, if any.
	Sunset *sunset.Policy

	// Deprecation is set when the resolved version is deprecated. Its policy
	// is zero when no deprecation policy was registered.
	Deprecation *sunset.Policy

	// Vary lists the request headers the version was read from.
	Vary []string

	now time.Time
	cfg *Config
}

// Gone reports whether the resolved version is past its sunset date and
// sunset enforcement is on. Hosts answer such requests with 410 Gone.
func (d *Decision) Gone() bool {
	return d.OK() && d.cfg != nil && d.cfg.enforceSunset &&
		d.Sunset != nil && d.Sunset.Expired(d.now)
}

// ResolvedAt returns the time the decision was made, from the engine clock.
func (d *Decision) ResolvedAt() time.Time {
	return d.now
}

// WriteHeaders renders the decision into response headers: the reported
// version lists, the resolved version, sunset and deprecation announcements
// and Vary. Rejected requests still get the reported lists and the sunset
// policy so clients can discover what is available.
func (d *Decision) WriteHeaders(h http.Header) {
	for _, name := range d.Vary {
		addVary(h, name)
	}
	if d.cfg == nil {
		return
	}

	if len(d.SupportedVersions) > 0 {
		h.Set(d.cfg.supportedHeader, version.Join(d.SupportedVersions, ", "))
	}
	if len(d.DeprecatedVersions) > 0 {
		h.Set(d.cfg.deprecatedHeader, version.Join(d.DeprecatedVersions, ", "))
	}

	if d.Sunset != nil {
		d.Sunset.WriteSunset(h)
	}

	if !d.OK() {
		return
	}
	if d.cfg.versionHeader != "" && !d.Version.IsZero() {
		h.Set(d.cfg.versionHeader, d.Version.String())
	}
	if d.Deprecation != nil {
		d.Deprecation.WriteDeprecation(h)
		if d.cfg.sendWarning299 {
			h.Set("Warning", d.warning())
		}
	}
}

func (d *Decision) warning() string {
	msg := fmt.Sprintf("299 - \"API %s is deprecated", d.Version)
	if d.Sunset != nil && !d.Sunset.Effective.IsZero() {
		msg += " and will be removed on " + d.Sunset.Effective.UTC().Format(time.RFC3339)
	}

	return msg + ". Please upgrade to a supported version.\""
}

// addVary appends name to the Vary header unless it is already listed.
func addVary(h http.Header, name string) {
	for _, line := range h.Values("Vary") {
		for _, v := range strings.Split(line, ",") {
			v = strings.TrimSpace(v)
			if v == "*" || strings.EqualFold(v, name) {
				return
			}
		}
	}
	h.Add("Vary", name)
}

// Reported returns the supported and deprecated lists as strings.
func (d *Decision) Reported() (supported, deprecated []string) {
	return stringsOf(d.SupportedVersions), stringsOf(d.DeprecatedVersions)
}

func stringsOf(vs []version.Version) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}

	return out
}
