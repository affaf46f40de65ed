package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	handler := NewSecurityHeaders(false).Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	headers := rr.Result().Header
	if headers.Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
	if headers.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("X-Content-Type-Options missing")
	}
	csp := headers.Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") || !strings.Contains(csp, "connect-src 'self'") {
		t.Errorf("unexpected CSP %q", csp)
	}
	if headers.Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set without secure mode")
	}
}

func TestSecurityHeaders_Secure(t *testing.T) {
	handler := NewSecurityHeaders(true).Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Result().Header.Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing in secure mode")
	}
}
