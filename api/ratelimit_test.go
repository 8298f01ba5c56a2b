package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func limitedHandler(l *Limiter) http.Handler {
	return l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestLimiterAllowsWithinBurst(t *testing.T) {
	h := limitedHandler(NewLimiter(1, 3))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/feeds/new", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst rejected: %d", i+1, rec.Code)
		}
	}
}

func TestLimiterRejectsOverBurst(t *testing.T) {
	h := limitedHandler(NewLimiter(1, 2))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/feeds/new", nil)
		req.RemoteAddr = "10.0.0.2:12345"
		h.ServeHTTP(rec, req)
		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d within burst rejected: %d", i+1, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 past the burst, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Fatal("429 response should carry Retry-After")
		}
	}
}

func TestLimiterIsPerClient(t *testing.T) {
	h := limitedHandler(NewLimiter(1, 1))

	first := httptest.NewRequest(http.MethodGet, "/api/feeds/new", nil)
	first.RemoteAddr = "10.0.0.3:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client rejected: %d", rec.Code)
	}

	// A different client gets its own bucket even when the first is drained.
	second := httptest.NewRequest(http.MethodGet, "/api/feeds/new", nil)
	second.RemoteAddr = "10.0.0.4:1000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client rejected: %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{name: "remote addr", remote: "192.168.1.9:5522", want: "192.168.1.9"},
		{name: "x-forwarded-for single", xff: "203.0.113.7", remote: "10.0.0.1:80", want: "203.0.113.7"},
		{name: "x-forwarded-for chain", xff: "203.0.113.7, 10.0.0.1", remote: "10.0.0.1:80", want: "203.0.113.7"},
		{name: "x-real-ip", xri: "198.51.100.4", remote: "10.0.0.1:80", want: "198.51.100.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}
			if got := clientIP(req); got != tc.want {
				t.Fatalf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
