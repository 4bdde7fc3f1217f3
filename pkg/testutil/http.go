// Package testutil holds the request builders and response assertions shared
// by handler, router and app tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const contentTypeJSON = "application/json"

// NewRequest builds a request with no body.
func NewRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest marshals body (when non-nil) and marks the request as JSON.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	if body == nil {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Content-Type", contentTypeJSON)
		return req
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	return NewRequestWithBody(t, method, target, string(raw))
}

// NewRequestWithBody sends raw as-is, for malformed payloads and signed
// webhook bodies where the exact bytes matter. Callers may override the
// Content-Type afterwards.
func NewRequestWithBody(t *testing.T, method, target, raw string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(raw))
	req.Header.Set("Content-Type", contentTypeJSON)
	return req
}

// DoRequest serves req through h and returns the recorded response.
func DoRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into a new T. The recorder is
// left readable so assertions can follow.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	dec := json.NewDecoder(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, dec.Decode(&out), "decode response: %s", rr.Body.String())
	return &out
}

// AssertStatus reports the body alongside a status mismatch.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rr.Code, "status code, body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the "error" code of the JSON
// error envelope written by httputil.WriteError.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	AssertStatus(t, rr, wantStatus)
	assert.Equal(t, wantCode, jsonPath(t, rr, "error").String(), "error code")
}

// AssertJSONContains compares the value at a gjson path ("plan",
// "limits.max_workspaces", "items.#") with want. Numbers compare as float64
// the way encoding/json decodes them.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, path string, want any) {
	t.Helper()
	got := jsonPath(t, rr, path)
	assert.True(t, got.Exists(), "missing %q in %s", path, rr.Body.String())
	assert.Equal(t, want, got.Value(), "value at %q", path)
}

// AssertJSONHasKey asserts a gjson path resolves to something.
func AssertJSONHasKey(t *testing.T, rr *httptest.ResponseRecorder, path string) {
	t.Helper()
	assert.True(t, jsonPath(t, rr, path).Exists(), "missing %q in %s", path, rr.Body.String())
}

func jsonPath(t *testing.T, rr *httptest.ResponseRecorder, path string) gjson.Result {
	t.Helper()
	body := rr.Body.Bytes()
	require.True(t, gjson.ValidBytes(body), "response is not JSON: %s", rr.Body.String())
	return gjson.GetBytes(body, path)
}
