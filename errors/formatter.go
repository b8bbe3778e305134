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
	"net/http"
)

// Formatter turns an error into the parts of an HTTP error response.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response.
type Response struct {
	Status      int
	ContentType string
	Body        any

	// Headers are added to the response before the status is written.
	Headers http.Header
}

// Write sends the response. Headers already set on w are kept.
func (r Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Headers {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set("Content-Type", r.ContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.Status)

	return json.NewEncoder(w).Encode(r.Body)
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// NewRFC9457 creates an RFC 9457 formatter. Problem codes are appended to
// baseURL to form the problem type URI.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// NewSimple creates a formatter for plain JSON error objects.
func NewSimple() *Simple {
	return &Simple{}
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text is used as the message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusGone)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// Simple formats errors as {"error": "...", "code": "...", "details": ...}.
type Simple struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses ErrorType interface or defaults to 500.
	StatusResolver func(err error) int
}

// Format implements [Formatter].
func (f *Simple) Format(_ *http.Request, err error) Response {
	body := map[string]any{"error": err.Error()}
	if code, ok := codeOf(err); ok {
		body["code"] = code
	}
	if details, ok := detailsOf(err); ok {
		body["details"] = details
	}

	return Response{
		Status:      statusOf(err, f.StatusResolver),
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}
