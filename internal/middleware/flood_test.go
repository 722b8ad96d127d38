package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFloodLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewFloodLimiter(1, time.Hour, 3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("85.84.10.20") {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	if limiter.Allow("85.84.10.20") {
		t.Fatal("request beyond burst should be blocked")
	}
	if !limiter.Allow("203.0.114.7") {
		t.Fatal("other keys should be unaffected")
	}
}

func TestGuardAnswers429(t *testing.T) {
	limiter := NewFloodLimiter(1, time.Hour, 1, time.Hour)
	handler := limiter.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/contacto/enviar", nil)
	req.RemoteAddr = "85.84.10.20:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first request: expected 204 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429 got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Fatalf("%s: expected %q got %q", header, want, got)
		}
	}
}
