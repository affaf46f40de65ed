// Package testutil provides helpers shared by handler and middleware tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// NewJSONRequest builds a request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, path string, data interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		body = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertStatus fails the test if the recorded status differs, printing the
// body to make mismatches debuggable.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// DecodeJSON parses a JSON response body into a map.
func DecodeJSON(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("parsing JSON response: %v", err)
	}
	return result
}

// DecodeInto parses a JSON response body into dst.
func DecodeInto(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("parsing JSON response: %v", err)
	}
}

// RandomEmail returns a unique address for test accounts.
func RandomEmail() string {
	return uuid.New().String()[:8] + "@example.com"
}
