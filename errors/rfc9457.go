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

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RFC9457 formats errors as RFC 9457 Problem Details with Content-Type
// "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to problem codes to create type URIs.
	BaseURL string

	// TypeResolver maps errors to problem type URIs.
	// If nil, the ErrorCode interface is used, then "about:blank".
	TypeResolver func(err error) string

	// StatusResolver determines HTTP status from error.
	// If nil, the ErrorType interface is used, then 500.
	StatusResolver func(err error) int

	// ErrorIDGenerator generates unique IDs for error tracking.
	ErrorIDGenerator func() string

	// DisableErrorID disables the error_id extension.
	DisableErrorID bool
}

// ProblemDetail is an RFC 9457 problem detail. Extensions are marshaled
// inline and cannot override the standard members.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	return json.Marshal(m)
}

// Format implements [Formatter].
//
// The code and errors extensions come from the ErrorCode and ErrorDetails
// interfaces.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := statusOf(err, f.StatusResolver)

	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = generateErrorID()
		}
	}
	if code, ok := codeOf(err); ok {
		p.Extensions["code"] = code
	}
	if details, ok := detailsOf(err); ok {
		p.Extensions["errors"] = details
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	if code, ok := codeOf(err); ok {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + code
		}
		return code
	}

	return "about:blank"
}

func statusOf(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

func codeOf(err error) (string, bool) {
	var coded ErrorCode
	if errors.As(err, &coded) {
		return coded.Code(), true
	}

	return "", false
}

func detailsOf(err error) (any, bool) {
	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		if d := detailed.Details(); d != nil {
			return d, true
		}
	}

	return nil, false
}

// generateErrorID returns a time-ordered UUIDv7 correlation ID, falling
// back to a timestamp if the random source fails.
func generateErrorID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}

	return "err-" + id.String()
}
