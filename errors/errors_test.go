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

//go:build !integration

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/version"
)

type codedError struct {
	message string
	code    string
	status  int
}

func (e *codedError) Error() string   { return e.message }
func (e *codedError) Code() string    { return e.code }
func (e *codedError) HTTPStatus() int { return e.status }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestRFC9457_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		formatter  *RFC9457
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "plain error",
			formatter:  NewRFC9457("https://api.example.com/problems"),
			err:        errors.New("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "about:blank",
		},
		{
			name:       "coded error",
			formatter:  NewRFC9457("https://api.example.com/problems"),
			err:        &codedError{message: "bad", code: "bad-input", status: http.StatusBadRequest},
			wantStatus: http.StatusBadRequest,
			wantType:   "https://api.example.com/problems/bad-input",
		},
		{
			name:       "coded error without base URL",
			formatter:  NewRFC9457(""),
			err:        &codedError{message: "bad", code: "bad-input", status: http.StatusBadRequest},
			wantStatus: http.StatusBadRequest,
			wantType:   "bad-input",
		},
		{
			name:       "explicit status",
			formatter:  NewRFC9457(""),
			err:        WithStatus(nil, http.StatusGone),
			wantStatus: http.StatusGone,
			wantType:   "about:blank",
		},
		{
			name: "custom resolvers",
			formatter: &RFC9457{
				TypeResolver:   func(error) string { return "https://example.com/custom" },
				StatusResolver: func(error) int { return http.StatusTeapot },
			},
			err:        errors.New("test"),
			wantStatus: http.StatusTeapot,
			wantType:   "https://example.com/custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			resp := tt.formatter.Format(req, tt.err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)

			p, ok := resp.Body.(ProblemDetail)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, http.StatusText(tt.wantStatus), p.Title)
			assert.Equal(t, "/orders", p.Instance)
			assert.NotEmpty(t, p.Extensions["error_id"])
		})
	}
}

func TestProblemDetail_ExtensionsCannotOverrideMembers(t *testing.T) {
	t.Parallel()

	p := ProblemDetail{
		Type:       "about:blank",
		Title:      "Bad Request",
		Status:     400,
		Extensions: map[string]any{"status": 999, "code": "x"},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InDelta(t, 400, got["status"], 0)
	assert.Equal(t, "x", got["code"])
	assert.NotContains(t, got, "detail")
}

func TestVersionError(t *testing.T) {
	t.Parallel()

	_, perr := version.Parse("x.1")
	require.Error(t, perr)

	tests := []struct {
		name       string
		err        *matcher.Error
		wantStatus int
		wantCode   string
		wantDetail map[string]any
	}{
		{
			name:       "invalid",
			err:        &matcher.Error{Kind: matcher.KindInvalid, Raw: []string{"x.1"}, Err: errors.Join(reader.ErrMalformed, perr)},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalid,
			wantDetail: map[string]any{"requested": []any{"x.1"}, "reason": version.ErrInvalidFormat.Error()},
		},
		{
			name:       "ambiguous",
			err:        &matcher.Error{Kind: matcher.KindAmbiguous, Raw: []string{"1.0", "2.0"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeAmbiguous,
			wantDetail: map[string]any{"requested": []any{"1.0", "2.0"}},
		},
		{
			name:       "unspecified",
			err:        &matcher.Error{Kind: matcher.KindUnspecified},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeUnspecified,
		},
		{
			name:       "unsupported",
			err:        &matcher.Error{Kind: matcher.KindUnsupported, Raw: []string{"3.0"}, Version: version.New(3, 0), Known: true},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeUnsupported,
			wantDetail: map[string]any{"requested": []any{"3.0"}, "known": true},
		},
		{
			name:       "ambiguous match",
			err:        &matcher.Error{Kind: matcher.KindAmbiguousMatch, Candidates: []*matcher.Candidate{{}, {}}},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeAmbiguousMatch,
			wantDetail: map[string]any{"candidates": float64(2)},
		},
		{
			name:       "no candidates",
			err:        &matcher.Error{Kind: matcher.KindNoCandidates},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeNoCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := FromMatch(tt.err)
			require.ErrorIs(t, err, tt.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			require.NoError(t, NewRFC9457("https://api.example.com/problems").Format(req, err).Write(rec))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

			body := decode(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, "https://api.example.com/problems/"+tt.wantCode, body["type"])
			if tt.wantDetail == nil {
				assert.NotContains(t, body, "errors")
			} else {
				assert.Equal(t, tt.wantDetail, body["errors"])
			}
		})
	}
}

func TestFromMatch_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FromMatch(nil))
}

func TestSunsetError(t *testing.T) {
	t.Parallel()

	err := &SunsetError{Version: version.New(1, 0)}
	assert.ErrorIs(t, err, ErrSunset)

	resp := NewSimple().Format(nil, err)
	assert.Equal(t, http.StatusGone, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)

	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, CodeSunset, body["code"])
	assert.Equal(t, "API version 1.0 is no longer supported", body["error"])
}

func TestResponse_WriteKeepsHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rec.Header().Set("api-supported-versions", "1.0")

	resp := NewSimple().Format(nil, errors.New("boom"))
	resp.Headers = http.Header{"Retry-After": []string{"60"}}
	require.NoError(t, resp.Write(rec))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "1.0", rec.Header().Get("api-supported-versions"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "boom", decode(t, rec)["error"])
}
