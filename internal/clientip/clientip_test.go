package clientip

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/contacto/enviar", nil)
	r.RemoteAddr = remoteAddr
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestFromRequestHeaderOrder(t *testing.T) {
	r := newRequest("10.0.0.1:4242", map[string]string{
		"CF-Connecting-IP": "203.0.114.7",
		"X-Real-IP":        "198.51.101.9",
	})

	if got := FromRequest(r); got != "203.0.114.7" {
		t.Fatalf("expected cloudflare header to win, got %s", got)
	}
}

func TestFromRequestForwardedForTakesFirst(t *testing.T) {
	r := newRequest("10.0.0.1:4242", map[string]string{
		"X-Forwarded-For": "85.84.10.20, 172.16.0.9, 203.0.114.1",
	})

	if got := FromRequest(r); got != "85.84.10.20" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}
}

func TestFromRequestSkipsImplausibleCandidates(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"private", "192.168.1.50"},
		{"loopback", "127.0.0.1"},
		{"reserved", "198.51.100.23"},
		{"unspecified", "0.0.0.0"},
		{"garbage", "not-an-ip"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRequest("85.84.10.20:9999", map[string]string{"X-Real-IP": tc.value})
			if got := FromRequest(r); got != "85.84.10.20" {
				t.Fatalf("expected fallback to remote addr, got %s", got)
			}
		})
	}
}

func TestFromRequestRemoteAddrFallbackAcceptsPrivate(t *testing.T) {
	r := newRequest("192.168.1.50:4242", nil)
	if got := FromRequest(r); got != "192.168.1.50" {
		t.Fatalf("expected private remote addr as last resort, got %s", got)
	}
}

func TestFromRequestUnknownWhenNothingResolves(t *testing.T) {
	r := newRequest("garbage", nil)
	if got := FromRequest(r); got != Unknown {
		t.Fatalf("expected %s got %s", Unknown, got)
	}
}

func TestFromRequestNormalizesFormats(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"  85.84.10.20  ", "85.84.10.20"},
		{"85.84.10.20:8080", "85.84.10.20"},
		{"\"85.84.10.20\"", "85.84.10.20"},
		{"[2a02:9b0::1]:443", "2a02:9b0::1"},
		{"::ffff:85.84.10.20", "85.84.10.20"},
	}

	for _, tc := range cases {
		r := newRequest("10.0.0.1:1", map[string]string{"X-Real-IP": tc.value})
		if got := FromRequest(r); got != tc.want {
			t.Fatalf("value %q: expected %s got %s", tc.value, tc.want, got)
		}
	}
}
